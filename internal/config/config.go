package config

import (
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		// Aggregate cache TTL in seconds; 0 disables the cache.
		AggregateTTL int `yaml:"aggregate_ttl"`
	} `yaml:"redis"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Auth struct {
		// Mode selects the token verifier: "jwt" in production,
		// "static" only for test harnesses. There is no runtime
		// bypass inside handlers; swapping happens at wiring time.
		Mode         string `yaml:"mode"`
		StaticUserID string `yaml:"static_user_id"`
		StaticRole   string `yaml:"static_role"`
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Notifications struct {
		// Dispatch worker poll interval in seconds.
		DispatchInterval int `yaml:"dispatch_interval"`
		DispatchBatch    int `yaml:"dispatch_batch"`
	} `yaml:"notifications"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or falls back to environment variables
// when DATABASE_URL is set (test mode).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.Auth.Mode = "jwt"
	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.Mode == "" {
		cfg.Auth.Mode = "jwt"
	}
	if cfg.Notifications.DispatchInterval <= 0 {
		cfg.Notifications.DispatchInterval = 30
	}
	if cfg.Notifications.DispatchBatch <= 0 {
		cfg.Notifications.DispatchBatch = 100
	}
	if cfg.Redis.AggregateTTL < 0 {
		cfg.Redis.AggregateTTL = 0
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
