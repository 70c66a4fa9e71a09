package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/open-teleop/odometry/domain/diagnostic"
	"github.com/open-teleop/odometry/domain/odometry"
	"github.com/open-teleop/odometry/domain/teleop"
	"github.com/open-teleop/odometry/pkg/api"
	"github.com/open-teleop/odometry/pkg/config"
	customlog "github.com/open-teleop/odometry/pkg/log"
	"github.com/open-teleop/odometry/pkg/wire"
	"github.com/open-teleop/odometry/pkg/zeromq"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "./config"
	}

	bootstrapCfg, err := config.LoadBootstrapConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load bootstrap config: %v", err)
	}

	logger, err := customlog.NewLogrusLogger(bootstrapCfg.Logging.Level, bootstrapCfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infof("Starting odometry node: separation=%.3fm rate=%.1fHz frames=%s->%s",
		bootstrapCfg.Robot.WheelSeparation, bootstrapCfg.Robot.RateHz,
		bootstrapCfg.Robot.OdomFrame, bootstrapCfg.Robot.BaseFrame)

	if err := run(bootstrapCfg, logger); err != nil {
		logger.Fatalf("Odometry node failed: %v", err)
	}
	logger.Infof("Odometry node exited properly")
}

func run(cfg *config.BootstrapConfig, logger customlog.Logger) error {
	clock := odometry.SystemClock{}
	diagnostics := diagnostic.NewDiagnosticService(clock)

	commands := odometry.NewCommandState()
	decomposer := odometry.NewDecomposer(cfg.Robot.WheelSeparation, commands, clock)

	dispatcher := zeromq.NewMessageDispatcher(logger)
	zeromq.RegisterCommandHandler(dispatcher, cfg.ZeroMQ.CommandTopic, decomposer, diagnostics, logger)

	codec, err := wire.NewCodec(cfg.ZeroMQ.Encoding)
	if err != nil {
		return err
	}

	zmqService, err := zeromq.NewZeroMQService(cfg.ZeroMQ, dispatcher, logger)
	if err != nil {
		return fmt.Errorf("failed to create ZeroMQ service: %w", err)
	}
	if err := zmqService.Start(); err != nil {
		return fmt.Errorf("failed to start ZeroMQ service: %w", err)
	}
	defer zmqService.Stop()

	publisher := zeromq.NewOdometryPublisher(zmqService, codec, cfg.ZeroMQ.OdomTopic, cfg.ZeroMQ.TfTopic)
	loop := odometry.NewLoop(cfg.Robot, commands, clock, publisher, publisher, logger.WithField(customlog.ComponentKey, "loop"))
	loop.SetObserver(diagnostics)

	app := api.NewApp(api.Dependencies{
		Odometry:    loop,
		Teleop:      teleop.NewTeleopService(decomposer, diagnostics),
		Diagnostics: diagnostics,
		Robot:       cfg.Robot,
		Logger:      logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		logger.Infof("Server starting on %s", addr)
		serverErr <- app.Listen(addr)
	}()

	loopErr := make(chan error, 1)
	go func() {
		loopErr <- loop.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Infof("Shutdown signal received")
	case err := <-serverErr:
		runErr = fmt.Errorf("HTTP server stopped: %w", err)
		stop()
	}

	if err := <-loopErr; err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Tick loop stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	return runErr
}
