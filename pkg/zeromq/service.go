package zeromq

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/open-teleop/odometry/pkg/config"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/pebbe/zmq4"
)

// Common errors
var (
	ErrServiceClosed      = errors.New("zeromq service is closed")
	ErrInvalidMessage     = errors.New("invalid message format")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// receiveHighWaterMark bounds the inbound queue; only the newest command matters.
const receiveHighWaterMark = 50

// MessageHandler processes the payload received on one topic
type MessageHandler interface {
	HandleMessage(data []byte) error
}

// HandlerFunc is a function type that implements MessageHandler
type HandlerFunc func(data []byte) error

// HandleMessage calls the function
func (f HandlerFunc) HandleMessage(data []byte) error {
	return f(data)
}

// MessageDispatcher routes messages to the handler registered for their topic
type MessageDispatcher struct {
	handlers map[string]MessageHandler
	logger   customlog.Logger
	mu       sync.RWMutex
}

// NewMessageDispatcher creates a new message dispatcher
func NewMessageDispatcher(logger customlog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		handlers: make(map[string]MessageHandler),
		logger:   logger,
	}
}

// RegisterHandler adds a handler for a specific topic
func (d *MessageDispatcher) RegisterHandler(topic string, handler MessageHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[topic] = handler
	d.logger.Infof("Registered handler for topic: %s", topic)
}

// Topics returns the registered topics
func (d *MessageDispatcher) Topics() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	topics := make([]string, 0, len(d.handlers))
	for topic := range d.handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Dispatch routes a multipart message [topic, payload] to its handler
func (d *MessageDispatcher) Dispatch(frames [][]byte) error {
	if len(frames) != 2 {
		return fmt.Errorf("%w: expected 2 frames, got %d", ErrInvalidMessage, len(frames))
	}
	topic := string(frames[0])

	d.mu.RLock()
	handler, exists := d.handlers[topic]
	d.mu.RUnlock()

	if !exists {
		return fmt.Errorf("%w: no handler for topic %s", ErrUnknownMessageType, topic)
	}
	return handler.HandleMessage(frames[1])
}

// MessageReceiver handles receiving messages from a ZeroMQ SUB socket.
// The socket is used only by the receive goroutine.
type MessageReceiver struct {
	socket     *zmq4.Socket
	dispatcher *MessageDispatcher
	poller     *zmq4.Poller
	timeout    time.Duration
	logger     customlog.Logger
	running    atomic.Bool
	wg         *sync.WaitGroup
}

// newMessageReceiver creates a SUB socket connected to the command publisher
func newMessageReceiver(ctx *zmq4.Context, cfg *config.ZeroMQConfig, topics []string, dispatcher *MessageDispatcher, logger customlog.Logger, wg *sync.WaitGroup) (*MessageReceiver, error) {
	socket, err := ctx.NewSocket(zmq4.SUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create SUB socket: %w", err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}
	if err := socket.SetRcvhwm(receiveHighWaterMark); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set receive high water mark: %w", err)
	}
	for _, topic := range topics {
		if err := socket.SetSubscribe(topic); err != nil {
			socket.Close()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
	}

	if err := socket.Connect(cfg.CommandConnectAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.CommandConnectAddress, err)
	}

	poller := zmq4.NewPoller()
	poller.Add(socket, zmq4.POLLIN)

	logger.Infof("MessageReceiver connected to %s (topics %v)", cfg.CommandConnectAddress, topics)

	return &MessageReceiver{
		socket:     socket,
		dispatcher: dispatcher,
		poller:     poller,
		timeout:    cfg.ReceiveTimeout(),
		logger:     logger,
		wg:         wg,
	}, nil
}

// Start begins the message receiving loop
func (r *MessageReceiver) Start() {
	if !r.running.CompareAndSwap(false, true) {
		return
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer r.socket.Close()
		r.logger.Infof("MessageReceiver started")

		for r.running.Load() {
			// Poll with timeout so Stop is noticed
			sockets, err := r.poller.Poll(r.timeout)
			if err != nil {
				if r.running.Load() {
					r.logger.Errorf("Error polling socket: %v", err)
					time.Sleep(100 * time.Millisecond)
				}
				continue
			}
			if len(sockets) == 0 {
				continue
			}

			frames, err := r.socket.RecvMessageBytes(0)
			if err != nil {
				if r.running.Load() {
					r.logger.Errorf("Error receiving message: %v", err)
				}
				continue
			}

			if err := r.dispatcher.Dispatch(frames); err != nil {
				r.logger.Warnf("Error dispatching message: %v", err)
			}
		}
		r.logger.Infof("MessageReceiver stopped")
	}()
}

// Stop halts the receiving loop; the goroutine closes the socket on exit
func (r *MessageReceiver) Stop() {
	r.running.Store(false)
}

// MessageSender handles sending messages on a ZeroMQ PUB socket
type MessageSender struct {
	socket  *zmq4.Socket
	logger  customlog.Logger
	running bool
	mu      sync.Mutex
}

// newMessageSender creates a PUB socket bound to the publish address
func newMessageSender(ctx *zmq4.Context, cfg *config.ZeroMQConfig, logger customlog.Logger) (*MessageSender, error) {
	socket, err := ctx.NewSocket(zmq4.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	pubAddress := cfg.PublishBindAddress
	if err := socket.Bind(pubAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", pubAddress, err)
	}

	logger.Infof("MessageSender bound to %s", pubAddress)

	return &MessageSender{
		socket:  socket,
		logger:  logger,
		running: true,
	}, nil
}

// PublishMessage sends a message with the given topic
func (s *MessageSender) PublishMessage(topic string, message []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return ErrServiceClosed
	}

	// Topic frame first, then payload
	if _, err := s.socket.Send(topic, zmq4.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := s.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// Close cleans up resources
func (s *MessageSender) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if s.socket != nil {
		s.socket.Close()
		s.socket = nil
	}
}

// ZeroMQService coordinates the command subscription and odometry publication
type ZeroMQService struct {
	config     config.ZeroMQConfig
	ctx        *zmq4.Context
	receiver   *MessageReceiver
	sender     *MessageSender
	dispatcher *MessageDispatcher
	logger     customlog.Logger
	running    atomic.Bool
	wg         sync.WaitGroup
}

// NewZeroMQService creates the sockets. Handlers must be registered on the
// dispatcher before the service is created, since subscriptions are fixed
// when the SUB socket is opened.
func NewZeroMQService(cfg config.ZeroMQConfig, dispatcher *MessageDispatcher, logger customlog.Logger) (*ZeroMQService, error) {
	ctx, err := zmq4.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create ZMQ context: %w", err)
	}

	s := &ZeroMQService{
		config:     cfg,
		ctx:        ctx,
		dispatcher: dispatcher,
		logger:     logger,
	}

	receiver, err := newMessageReceiver(ctx, &cfg, dispatcher.Topics(), dispatcher, logger, &s.wg)
	if err != nil {
		ctx.Term()
		return nil, err
	}

	sender, err := newMessageSender(ctx, &cfg, logger)
	if err != nil {
		receiver.socket.Close()
		ctx.Term()
		return nil, err
	}

	s.receiver = receiver
	s.sender = sender
	return s, nil
}

// Start begins receiving commands
func (s *ZeroMQService) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Infof("Starting ZeroMQ service")
	s.receiver.Start()
	return nil
}

// Stop halts the receiver, closes the sockets and terminates the context
func (s *ZeroMQService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}

	s.logger.Infof("Stopping ZeroMQ service")
	s.receiver.Stop()
	s.sender.Close()

	s.logger.Debugf("Waiting for receiver goroutine to finish...")
	s.wg.Wait()

	if s.ctx != nil {
		if err := s.ctx.Term(); err != nil {
			s.logger.Warnf("Error terminating ZMQ context: %v", err)
		}
		s.ctx = nil
	}

	s.logger.Infof("ZeroMQ service stopped")
}

// PublishEndpoint returns the endpoint the PUB socket is bound to, with any
// wildcard port resolved
func (s *ZeroMQService) PublishEndpoint() (string, error) {
	s.sender.mu.Lock()
	defer s.sender.mu.Unlock()

	if s.sender.socket == nil {
		return "", ErrServiceClosed
	}
	return s.sender.socket.GetLastEndpoint()
}

// PublishMessage sends a message with the given topic
func (s *ZeroMQService) PublishMessage(topic string, message []byte) error {
	if !s.running.Load() {
		return ErrServiceClosed
	}
	return s.sender.PublishMessage(topic, message)
}
