package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type ClientConfig struct {
	ServerURL   string        `env:"NEXTKEY_SERVER_URL" env-required:"true" validate:"required,url"`
	ProjectUUID string        `env:"NEXTKEY_PROJECT_UUID" env-required:"true" validate:"required"`
	Secret      string        `env:"NEXTKEY_SECRET" env-required:"true" validate:"required"`
	Scheme      string        `env:"NEXTKEY_SCHEME" env-default:"aes-256-gcm"`
	Token       string        `env:"NEXTKEY_TOKEN"`
	Timeout     time.Duration `env:"NEXTKEY_TIMEOUT" env-default:"30s" validate:"gt=0"`
	MaxSkew     time.Duration `env:"NEXTKEY_MAX_SKEW" env-default:"300s" validate:"gt=0"`
}

type LogConfig struct {
	Level string `env:"NEXTKEY_LOG_LEVEL" env-default:"info" validate:"oneof=trace debug info warn warning error fatal panic"`
}

type LimiterConfig struct {
	RPC   float64       `env:"DEVSERVER_LIMITER_RPC" env-default:"10" validate:"gt=0"`
	Burst int           `env:"DEVSERVER_LIMITER_BURST" env-default:"20" validate:"gt=0"`
	TTL   time.Duration `env:"DEVSERVER_LIMITER_EXP_TTL" env-default:"1m"`

	// zero disables login blocking
	MaxFailedLogins int           `env:"DEVSERVER_LOGIN_MAX_FAILURES" env-default:"5" validate:"gte=0"`
	BlockDuration   time.Duration `env:"DEVSERVER_LOGIN_BLOCK" env-default:"3m"`
}

type ProjectConfig struct {
	UUID         string `env:"DEVSERVER_PROJECT_UUID" env-required:"true" validate:"required"`
	Name         string `env:"DEVSERVER_PROJECT_NAME" env-default:"NextKey"`
	Version      string `env:"DEVSERVER_PROJECT_VERSION" env-default:"1.0.0"`
	UpdateURL    string `env:"DEVSERVER_PROJECT_UPDATE_URL"`
	Scheme       string `env:"DEVSERVER_SCHEME" env-default:"aes-256-gcm"`
	Secret       string `env:"DEVSERVER_SECRET" env-required:"true" validate:"required"`
	EnableHWID   bool   `env:"DEVSERVER_ENABLE_HWID" env-default:"false"`
	EnableIP     bool   `env:"DEVSERVER_ENABLE_IP" env-default:"false"`
	EnableUnbind bool   `env:"DEVSERVER_ENABLE_UNBIND" env-default:"true"`
}

type SeedConfig struct {
	Cards        []string          `env:"DEVSERVER_CARDS" env-separator:","`
	CardDuration time.Duration     `env:"DEVSERVER_CARD_DURATION" env-default:"720h"`
	MaxHWID      int               `env:"DEVSERVER_CARD_MAX_HWID" env-default:"-1" validate:"gte=-1"`
	MaxIP        int               `env:"DEVSERVER_CARD_MAX_IP" env-default:"-1" validate:"gte=-1"`
	CloudVars    map[string]string `env:"DEVSERVER_CLOUD_VARS" env-separator:","`
}

type DevServerConfig struct {
	Address      string        `env:"DEVSERVER_ADDRESS" env-default:"127.0.0.1:8080" validate:"required"`
	JWTSecret    string        `env:"DEVSERVER_JWT_SECRET" env-required:"true" validate:"required"`
	TokenTTL     time.Duration `env:"DEVSERVER_TOKEN_TTL" env-default:"1h" validate:"gt=0"`
	NoncesTTL    time.Duration `env:"DEVSERVER_NONCES_TTL" env-default:"10m" validate:"gt=0"`
	RedisAddress string        `env:"DEVSERVER_REDIS_ADDRESS"`
	MaxSkew      time.Duration `env:"DEVSERVER_MAX_SKEW" env-default:"300s" validate:"gt=0"`
	Project      ProjectConfig
	Seed         SeedConfig
	Limiter      LimiterConfig
}

// Config is what the nextkey CLI reads.
type Config struct {
	Client ClientConfig
	Log    LogConfig
}

// ServerConfig is what the development server reads.
type ServerConfig struct {
	DevServer DevServerConfig
	Log       LogConfig
}

var validate = validator.New()

// Load reads path into the environment, when given, and fills Config from it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadServer(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	if err := read(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoadServer takes the file from the -config flag and panics on any error.
func MustLoadServer() *ServerConfig {
	path := getConfigPath()

	if path == "" {
		panic("config path is empty")
	}

	cfg, err := LoadServer(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func read(path string, cfg any) error {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config file does not exist: %s", path)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func getConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	return res
}
