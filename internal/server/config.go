package server

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/elskow/naviwish/internal/config"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

const envPrefix = "NAVIWISH"

var defaultConfigPaths = []string{"./config/server", "/etc/naviwish"}

func LoadConfig() (*config.AppConfig, error) {
	return loadConfig(defaultConfigPaths...)
}

func loadConfig(paths ...string) (*config.AppConfig, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = EnvDevelopment
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Load environment-specific configurations
	if envSettings := v.GetStringMap(fmt.Sprintf("grpc.%s", env)); len(envSettings) > 0 {
		if err := v.UnmarshalKey(fmt.Sprintf("grpc.%s", env), &cfg.GRPC); err != nil {
			return nil, fmt.Errorf("error unmarshaling env config: %w", err)
		}
	}

	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 16<<10)

	v.SetDefault("grpc.port", "")
	v.SetDefault("grpc.enable_reflection", false)
	v.SetDefault("grpc.max_receive_message_size", 4<<20)
	v.SetDefault("grpc.max_send_message_size", 4<<20)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_expiration", 10*time.Minute)
	v.SetDefault("auth.allowed_names", []string{})
	v.SetDefault("auth.max_failed_attempts", 3)
	v.SetDefault("auth.lockout_duration", 2*time.Minute)
	v.SetDefault("auth.max_input_length", 255)
	v.SetDefault("auth.hash_cost", 10)

	v.SetDefault("wish.max_length", 300)

	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "naviwish")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.migrations_dir", "")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "naviwish")
}

// normalize upper-cases the allow-list so lookups can compare against
// upper-cased input.
func normalize(cfg *config.AppConfig) {
	names := make([]string, 0, len(cfg.Auth.AllowedNames))
	for _, n := range cfg.Auth.AllowedNames {
		n = strings.ToUpper(strings.TrimSpace(n))
		if n != "" {
			names = append(names, n)
		}
	}
	cfg.Auth.AllowedNames = names
}

func validate(cfg *config.AppConfig) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if len(cfg.Auth.AllowedNames) == 0 {
		return errors.New("auth.allowed_names must list at least one name")
	}
	if cfg.Auth.MaxFailedAttempts < 1 {
		return fmt.Errorf("auth.max_failed_attempts must be positive, got %d", cfg.Auth.MaxFailedAttempts)
	}
	if cfg.Auth.TokenExpiration <= 0 {
		return fmt.Errorf("auth.token_expiration must be positive, got %s", cfg.Auth.TokenExpiration)
	}
	return nil
}
