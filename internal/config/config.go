package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers for uploaded files.
const (
	StorageS3   = "s3"
	StorageR2   = "r2"
	StorageNone = "none"
)

const defaultSecret = "change-me"

type Config struct {
	Port           string        `mapstructure:"PORT"`
	MongoURI       string        `mapstructure:"MONGODB_URI"`
	DBName         string        `mapstructure:"DB_NAME"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	TokenTTL       time.Duration `mapstructure:"TOKEN_TTL"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	Storage        StorageConfig `mapstructure:",squash"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"STORAGE_DRIVER"`
	Bucket        string `mapstructure:"BUCKET_NAME"`
	Region        string `mapstructure:"REGION"`
	R2Endpoint    string `mapstructure:"R2_ENDPOINT"`
	AccessKey     string `mapstructure:"ACCESS_KEY"`
	SecretKey     string `mapstructure:"SECRET_KEY"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("DB_NAME", "zeta_exams")
	v.SetDefault("JWT_SECRET", defaultSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("STORAGE_DRIVER", StorageNone)
	v.SetDefault("BUCKET_NAME", "")
	v.SetDefault("REGION", "auto")
	v.SetDefault("R2_ENDPOINT", "")
	v.SetDefault("ACCESS_KEY", "")
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("PUBLIC_BASE_URL", "")
}

// Load reads the given .env files (".env" when none are named), then the
// process environment, on top of the defaults.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))
	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == defaultSecret {
		log.Println("Warning: Using default JWT_SECRET. Update it in your environment.")
	}
	return &cfg, nil
}

// Validate checks that the chosen storage driver has what it needs.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	switch c.Storage.Driver {
	case StorageNone:
		return nil
	case StorageS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("BUCKET_NAME is required for the s3 storage driver")
		}
	case StorageR2:
		if c.Storage.Bucket == "" || c.Storage.R2Endpoint == "" || c.Storage.PublicBaseURL == "" {
			return fmt.Errorf("BUCKET_NAME, R2_ENDPOINT and PUBLIC_BASE_URL are required for the r2 storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	return nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
