package internal

import (
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host                 string        `env:"HOST,default=localhost" validate:"required"`
	Port                 int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	DefaultTTL           time.Duration `env:"DEFAULT_TTL,default=1h" validate:"gt=0"`
	MaxTTL               time.Duration `env:"MAX_TTL,default=24h" validate:"gtefield=DefaultTTL"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=10s" validate:"gt=0"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	BufferSize           int           `env:"BUFFER_SIZE,default=1024" validate:"gt=0"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64" validate:"gt=0"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"gt=0"`
	LineAccessToken      string        `env:"LINE_CHANNEL_ACCESS_TOKEN"`
	LineAPIBaseURL       string        `env:"LINE_API_BASE_URL,default=https://api.line.me" validate:"url"`
}

// LoadConfig reads an optional .env file then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(dotenvFiles ...string) (Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("dotenv error: %w", err)
	}
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
