package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

// AdminHTTP is the side listener for /health and /metrics. Port 0 disables it.
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Version     string
	Env         string
	APIPrefix   string
	CORSOrigins []string
	HTTP        HTTP
	Admin       AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

// DB selects the user store. Driver is one of mongo, postgres, mysql, memory.
type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Mongo struct {
	URI               string
	Database          string
	Collection        string
	ConnectTimeoutSec int
	MaxPoolSize       uint64
}

// Redis is optional; when Addr is set the per-IP rate limit is shared through it.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type Limit struct {
	RPS               float64
	Burst             int
	PerIP             bool
	Concurrency       int64
	MaxBodyBytes      int64
	RequestTimeoutSec int
}

type Config struct {
	App   App
	Log   Log
	DB    DB
	Mongo Mongo
	Redis Redis `mapstructure:"redis"`
	Limit Limit
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

const defaultPath = "./configs/config.local.yaml"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "User Management API")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.apiPrefix", "/api/v1")
	v.SetDefault("app.corsOrigins", []string{"http://localhost:3000"})
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 9100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.rotate.enable", false)
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxSizeMB", 100)
	v.SetDefault("log.rotate.maxBackups", 7)
	v.SetDefault("log.rotate.maxAgeDays", 30)
	v.SetDefault("log.rotate.compress", true)

	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.maxOpenConns", 50)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "fastapi_db")
	v.SetDefault("mongo.collection", "users")
	v.SetDefault("mongo.connectTimeoutSec", 10)
	v.SetDefault("mongo.maxPoolSize", 100)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("limit.rps", 200)
	v.SetDefault("limit.burst", 400)
	v.SetDefault("limit.perIP", false)
	v.SetDefault("limit.concurrency", 300)
	v.SetDefault("limit.maxBodyBytes", 1<<20)
	v.SetDefault("limit.requestTimeoutSec", 10)
}

// Load reads the YAML file at path (or CONFIG_PATH, or the local default) and
// overlays APP_* environment variables, e.g. APP_MONGO_URI. A missing file is
// fine as long as defaults and env cover everything.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = defaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: mongo.uri and mongo.database are required for the mongo driver")
		}
	case DriverPostgres, DriverMySQL:
		if c.DB.DSN == "" {
			return fmt.Errorf("config: db.dsn is required for the %s driver", c.DB.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.DB.Driver)
	}
	if c.App.HTTP.Port <= 0 || c.App.HTTP.Port > 65535 {
		return fmt.Errorf("config: invalid app.http.port %d", c.App.HTTP.Port)
	}
	if c.App.Admin.Port < 0 || c.App.Admin.Port > 65535 {
		return fmt.Errorf("config: invalid app.admin.port %d", c.App.Admin.Port)
	}
	return nil
}
