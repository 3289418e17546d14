package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TokenStoreCookie = "cookie"
	TokenStoreMySQL  = "mysql"
	TokenStoreRedis  = "redis"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"prod"`
	HTTPServer `yaml:"http_server"`
	API        API     `yaml:"api"`
	Session    Session `yaml:"session"`
	TokenStore string  `yaml:"token_store" env:"TOKEN_STORE" env-default:"cookie"`
	MySQL      MySQL   `yaml:"mysql"`
	Redis      Redis   `yaml:"redis"`
	CORS       CORS    `yaml:"cors"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// API points at the remote parking REST service.
type API struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8000"`
	Timeout time.Duration `yaml:"timeout" env-default:"10s"`
}

type Session struct {
	Name        string        `yaml:"name" env-default:"ping_parking_session"`
	Secret      string        `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
	Secure      bool          `yaml:"secure" env-default:"false"`
	SessionTTL  time.Duration `yaml:"session_ttl" env-default:"24h"`
	RememberTTL time.Duration `yaml:"remember_ttl" env-default:"168h"`
}

type MySQL struct {
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"ping_parking_console"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:4001"`
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	switch cfg.TokenStore {
	case TokenStoreCookie, TokenStoreMySQL, TokenStoreRedis:
	default:
		return nil, fmt.Errorf("unknown token_store %q", cfg.TokenStore)
	}

	return &cfg, nil
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}
