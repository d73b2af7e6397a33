package config

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Relay    RelayConfig    `mapstructure:"relay"    validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"required,gte=4,lte=31"`
}

// RelayConfig contains settings for the real-time notification relay.
type RelayConfig struct {
	// QueueSize bounds the hub's inbound event queue. Publishing to a
	// full queue drops the event (delivery is best-effort).
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// SendBufferSize bounds each client connection's outbound buffer.
	SendBufferSize int `mapstructure:"send_buffer_size" validate:"required,gt=0"`
}
