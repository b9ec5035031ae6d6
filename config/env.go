package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevelopmentSecret is only ever used when the environment is "development"
// and jwt.allow_insecure_default is set.
const DevelopmentSecret = "development-only-secret"

var ErrMissingSecret = errors.New("jwt.secret (JWT_SECRET) must be set")

type (
	AppConfig struct {
		Name        string `mapstructure:"name"`
		Version     string `mapstructure:"version"`
		Port        int    `mapstructure:"port"`
		Environment string `mapstructure:"environment"`
		Timeout     int    `mapstructure:"timeout"` // request timeout in seconds
	}

	LoggerConfig struct {
		Level       string `mapstructure:"level"`
		FilePath    string `mapstructure:"filepath"`
		MaxSize     int    `mapstructure:"max_size"`
		MaxAge      int    `mapstructure:"max_age"`
		MaxBackups  int    `mapstructure:"max_backups"`
		Compress    bool   `mapstructure:"compress"`
		LocalTime   bool   `mapstructure:"localTime"`
		Environment string
	}

	PostgresConfig struct {
		ConnectionString  string `mapstructure:"connection_string"`
		ReadConnection    string `mapstructure:"read_connection_string"` // Optional replica, falls back to ConnectionString
		ConnectTimeout    int    `mapstructure:"connect_timeout"`
		MaxConns          int32  `mapstructure:"max_conns"`
		MinConns          int32  `mapstructure:"min_conns"`
		ConnMaxLifetime   int    `mapstructure:"conn_max_lifetime"`
		ConnMaxIdleTime   int    `mapstructure:"conn_max_idle_time"`
		HealthCheckPeriod int    `mapstructure:"health_check_period"`
		AutoMigrate       bool   `mapstructure:"auto_migrate"`
	}

	JWTConfig struct {
		Secret               string        `mapstructure:"secret"`
		TTL                  time.Duration `mapstructure:"ttl"`
		AllowInsecureDefault bool          `mapstructure:"allow_insecure_default"`
	}

	HashConfig struct {
		Cost int `mapstructure:"cost"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowedOrigins   []string `mapstructure:"allowed_origins"`
		AllowedMethods   []string `mapstructure:"allowed_methods"`
		AllowedHeaders   []string `mapstructure:"allowed_headers"`
		ExposedHeaders   []string `mapstructure:"exposed_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAge           int      `mapstructure:"max_age"`
	}

	MetricsConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	}
)

type Env struct {
	AppConfig      AppConfig      `mapstructure:"app"`
	LoggerConfig   LoggerConfig   `mapstructure:"logging"`
	PostgresConfig PostgresConfig `mapstructure:"postgres"`
	JWTConfig      JWTConfig      `mapstructure:"jwt"`
	HashConfig     HashConfig     `mapstructure:"hash"`
	CORSConfig     CORSConfig     `mapstructure:"cors"`
	MetricsConfig  MetricsConfig  `mapstructure:"metrics"`
}

var env *Env

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "user-auth-service")
	v.SetDefault("app.port", 3001)
	v.SetDefault("app.environment", "production")
	v.SetDefault("app.timeout", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("postgres.connect_timeout", 30)
	v.SetDefault("postgres.auto_migrate", true)
	v.SetDefault("jwt.ttl", "24h")
	v.SetDefault("hash.cost", 10)
	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization"})
	v.SetDefault("metrics.path", "/metrics")
}

// Load reads config.yaml from dir (a missing file is not an error) and
// overlays environment variables. The returned Env is never mutated again.
func Load(dir string) (*Env, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)

	if err := loadDotEnv(dir); err != nil {
		return nil, err
	}

	// app.port -> APP_PORT, jwt.secret -> JWT_SECRET
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Names used by existing deployments.
	_ = v.BindEnv("postgres.connection_string", "DATABASE_URL")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("app.port", "APP_PORT")

	var e Env
	if err := v.Unmarshal(&e); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	e.LoggerConfig.Environment = e.AppConfig.Environment
	if e.AppConfig.Environment == "production" {
		e.LoggerConfig.Level = "info"
	}

	if err := e.resolveSecret(); err != nil {
		return nil, err
	}
	return &e, nil
}

// loadDotEnv exports the first .env found in dir or the working directory.
// Variables already present in the environment win.
func loadDotEnv(dir string) error {
	for _, path := range []string{filepath.Join(dir, ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		return nil
	}
	return nil
}

// resolveSecret fails closed unless a development build explicitly opts in.
func (e *Env) resolveSecret() error {
	if e.JWTConfig.Secret != "" {
		return nil
	}
	if e.AppConfig.Environment == "development" && e.JWTConfig.AllowInsecureDefault {
		log.Printf("[Config] ⚠️  jwt.secret is empty, using the development secret")
		e.JWTConfig.Secret = DevelopmentSecret
		return nil
	}
	return ErrMissingSecret
}

func GetEnv() *Env {
	if env != nil {
		return env
	}
	loaded, err := Load("./config")
	if err != nil {
		log.Fatalf("Unable to load config, %v", err)
	}
	env = loaded
	printStartupConfig(env)
	return env
}

func printStartupConfig(env *Env) {
	line := strings.Repeat("=", 40)
	fmt.Println(line)
	fmt.Println("🚀 Application Configuration")
	fmt.Println(line)

	fmt.Printf("%-15s: %s\n", "App Name", env.AppConfig.Name)
	fmt.Printf("%-15s: %s\n", "Version", env.AppConfig.Version)
	fmt.Printf("%-15s: %s\n", "Environment", env.AppConfig.Environment)
	fmt.Printf("%-15s: %d\n", "Port", env.AppConfig.Port)
	fmt.Printf("%-15s: %s\n", "Log Level", env.LoggerConfig.Level)
	fmt.Printf("%-15s: %s\n", "Token TTL", env.JWTConfig.TTL)
	fmt.Printf("%-15s: %d\n", "Hash Cost", env.HashConfig.Cost)

	fmt.Println(line)
}
