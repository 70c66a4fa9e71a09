package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BootstrapFileName is the file LoadBootstrapConfig reads from the config directory.
const BootstrapFileName = "odometry_config.yaml"

// BootstrapConfig holds the configuration loaded from odometry_config.yaml
type BootstrapConfig struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	ZeroMQ  ZeroMQConfig  `yaml:"zeromq" json:"zeromq"`
	Robot   RobotConfig   `yaml:"robot" json:"robot"`
}

// LoggingConfig holds logging settings from bootstrap
type LoggingConfig struct {
	Level   string `yaml:"level" json:"level"`
	LogPath string `yaml:"log_path,omitempty" json:"log_path,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	HTTPPort int `yaml:"http_port" json:"http_port"`
}

// ZeroMQConfig holds the command subscription and odometry publication endpoints
type ZeroMQConfig struct {
	CommandConnectAddress string `yaml:"command_connect_address" json:"command_connect_address"`
	CommandTopic          string `yaml:"command_topic" json:"command_topic"`
	PublishBindAddress    string `yaml:"publish_bind_address" json:"publish_bind_address"`
	OdomTopic             string `yaml:"odom_topic" json:"odom_topic"`
	TfTopic               string `yaml:"tf_topic" json:"tf_topic"`
	Encoding              string `yaml:"encoding" json:"encoding"`
	ReceiveTimeoutMs      int    `yaml:"receive_timeout_ms" json:"receive_timeout_ms"`
}

// Defaults for values omitted from the bootstrap file
const (
	DefaultLogLevel         = "info"
	DefaultHTTPPort         = 8090
	DefaultCommandTopic     = "cmd_vel"
	DefaultOdomTopic        = "odom"
	DefaultTfTopic          = "tf"
	DefaultEncoding         = EncodingJSON
	DefaultReceiveTimeoutMs = 500
)

// Supported payload encodings for ZeroMQ traffic
const (
	EncodingJSON        = "json"
	EncodingFlatbuffers = "flatbuffers"
)

// LoadBootstrapConfig loads the bootstrap configuration from odometry_config.yaml
// inside configDir, applies defaults and the PORT environment override, and
// validates the result.
func LoadBootstrapConfig(configDir string) (*BootstrapConfig, error) {
	bootstrapConfigPath := filepath.Join(configDir, BootstrapFileName)

	data, err := os.ReadFile(bootstrapConfigPath)
	if err != nil {
		return nil, fmt.Errorf("error reading bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	cfg, err := ParseBootstrapConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing bootstrap config file '%s': %w", bootstrapConfigPath, err)
	}

	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT environment override '%s': %w", port, err)
		}
		cfg.Server.HTTPPort = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseBootstrapConfig decodes YAML and applies defaults without validating.
func ParseBootstrapConfig(data []byte) (*BootstrapConfig, error) {
	var cfg BootstrapConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero-valued optional fields.
func (c *BootstrapConfig) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = DefaultHTTPPort
	}
	if c.ZeroMQ.CommandTopic == "" {
		c.ZeroMQ.CommandTopic = DefaultCommandTopic
	}
	if c.ZeroMQ.OdomTopic == "" {
		c.ZeroMQ.OdomTopic = DefaultOdomTopic
	}
	if c.ZeroMQ.TfTopic == "" {
		c.ZeroMQ.TfTopic = DefaultTfTopic
	}
	if c.ZeroMQ.Encoding == "" {
		c.ZeroMQ.Encoding = DefaultEncoding
	}
	if c.ZeroMQ.ReceiveTimeoutMs == 0 {
		c.ZeroMQ.ReceiveTimeoutMs = DefaultReceiveTimeoutMs
	}
	c.Robot.applyDefaults()
}

// Validate checks required fields and physical sanity of the robot section.
func (c *BootstrapConfig) Validate() error {
	if c.ZeroMQ.CommandConnectAddress == "" {
		return fmt.Errorf("missing required field in bootstrap config: zeromq.command_connect_address")
	}
	if c.ZeroMQ.PublishBindAddress == "" {
		return fmt.Errorf("missing required field in bootstrap config: zeromq.publish_bind_address")
	}
	switch c.ZeroMQ.Encoding {
	case EncodingJSON, EncodingFlatbuffers:
	default:
		return fmt.Errorf("invalid value in bootstrap config: zeromq.encoding must be %q or %q, got %q",
			EncodingJSON, EncodingFlatbuffers, c.ZeroMQ.Encoding)
	}
	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid value in bootstrap config: server.http_port %d out of range", c.Server.HTTPPort)
	}
	return c.Robot.Validate()
}
