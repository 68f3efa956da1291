package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host              string  `mapstructure:"host"`
	Port              int     `mapstructure:"port"`
	ReadTimeoutSec    int     `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec   int     `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec    int     `mapstructure:"idle_timeout_sec"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
	RateLimitRPS      float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst    int     `mapstructure:"rate_limit_burst"`
	MaxConcurrent     int64   `mapstructure:"max_concurrent"`
}

type App struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	HTTP HTTP   `mapstructure:"http"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type Auth struct {
	// Hasher is "plain" (seed data keeps plaintext passwords) or "bcrypt".
	Hasher string `mapstructure:"hasher"`
}

type Store struct {
	Backend        string `mapstructure:"backend"` // memory | file | redis | sql
	Dir            string `mapstructure:"dir"`
	DocumentKey    string `mapstructure:"document_key"`
	SessionKey     string `mapstructure:"session_key"`
	SeedURL        string `mapstructure:"seed_url"`
	SeedFile       string `mapstructure:"seed_file"`
	SeedTimeoutSec int    `mapstructure:"seed_timeout_sec"`
	MaxRetries     int    `mapstructure:"max_retries"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
}

type Config struct {
	App   App   `mapstructure:"app"`
	Log   Log   `mapstructure:"log"`
	JWT   JWT   `mapstructure:"jwt"`
	Auth  Auth  `mapstructure:"auth"`
	Store Store `mapstructure:"store"`
	DB    DB    `mapstructure:"db"`
	Redis Redis `mapstructure:"redis"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.http.request_timeout_sec", 10)
	v.SetDefault("app.http.rate_limit_rps", 200)
	v.SetDefault("app.http.rate_limit_burst", 400)
	v.SetDefault("app.http.max_concurrent", 300)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("jwt.issuer", "storefront")
	v.SetDefault("jwt.access_token_ttl_min", 120)
	v.SetDefault("auth.hasher", "plain")
	v.SetDefault("store.backend", "file")
	v.SetDefault("store.dir", "./var/store")
	v.SetDefault("store.document_key", "storefront_database")
	v.SetDefault("store.session_key", "storefront_session")
	v.SetDefault("store.seed_timeout_sec", 10)
	v.SetDefault("store.max_retries", 3)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "./var/store.db")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
}

// Load reads the YAML config at path (or CONFIG_PATH) and exits on failure.
func Load(path string) *Config {
	c, err := LoadFrom(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
