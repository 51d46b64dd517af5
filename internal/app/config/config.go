package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	Log         LogConfig
	Ledger      LedgerConfig
	Storage     StorageConfig
	Export      ExportConfig
}

type LogConfig struct {
	Level string
	JSON  bool
}

type LedgerConfig struct {
	Key          string
	NodeID       int64
	WriteTimeout time.Duration
}

type StorageConfig struct {
	// bolt, redis, minio, postgres or memory
	Driver   string
	Bolt     BoltConfig
	Redis    RedisConfig
	MinIO    MinIOConfig
	Postgres PostgresConfig
}

type BoltConfig struct {
	Path   string
	Bucket string
}

type RedisConfig struct {
	Host        string
	Password    string
	Port        int
	User        string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type PostgresConfig struct {
	DSN string
}

type ExportConfig struct {
	Title         string
	CurrencyLabel string
	Footer        string
	// upload rendered PDFs to MinIO and hand out presigned URLs
	Upload    bool
	URLExpiry time.Duration
}

const (
	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOEndpoint  = "MINIO_ENDPOINT"
	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
	envMinIOBucket    = "MINIO_BUCKET"

	envLogLevel = "LOG_LEVEL"
)

func setDefaults() {
	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 8080)

	viper.SetDefault("Log.Level", "info")
	viper.SetDefault("Log.JSON", false)

	viper.SetDefault("Ledger.Key", "@products")
	viper.SetDefault("Ledger.NodeID", 1)
	viper.SetDefault("Ledger.WriteTimeout", 5*time.Second)

	viper.SetDefault("Storage.Driver", "bolt")
	viper.SetDefault("Storage.Bolt.Path", "data/ledger.db")
	viper.SetDefault("Storage.Bolt.Bucket", "ledger")
	viper.SetDefault("Storage.Redis.Host", "localhost")
	viper.SetDefault("Storage.Redis.Port", 6379)
	viper.SetDefault("Storage.MinIO.Endpoint", "localhost:9000")
	viper.SetDefault("Storage.MinIO.Bucket", "order-ledger")

	viper.SetDefault("Export.Title", "Order Summary")
	viper.SetDefault("Export.CurrencyLabel", "Rs.")
	viper.SetDefault("Export.Footer", "Thank you for your business!")
	viper.SetDefault("Export.URLExpiry", time.Hour)
}

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	setDefaults()
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	err = viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case errors.As(err, &notFound):
		log.Warnf("config file %q not found, using defaults", configName)
	case err != nil:
		return nil, err
	default:
		viper.WatchConfig()
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// connection details and secrets come from env
	if v := os.Getenv(envRedisHost); v != "" {
		cfg.Storage.Redis.Host = v
	}
	if v := os.Getenv(envRedisPort); v != "" {
		cfg.Storage.Redis.Port, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
	}
	if v := os.Getenv(envRedisPass); v != "" {
		cfg.Storage.Redis.Password = v
	}
	if v := os.Getenv(envRedisUser); v != "" {
		cfg.Storage.Redis.User = v
	}
	cfg.Storage.Redis.DialTimeout = 10 * time.Second
	cfg.Storage.Redis.ReadTimeout = 10 * time.Second

	if v := os.Getenv(envMinIOEndpoint); v != "" {
		cfg.Storage.MinIO.Endpoint = v
	}
	if v := os.Getenv(envMinIOAccessKey); v != "" {
		cfg.Storage.MinIO.AccessKey = v
	}
	if v := os.Getenv(envMinIOSecretKey); v != "" {
		cfg.Storage.MinIO.SecretKey = v
	}
	if v := os.Getenv(envMinIOBucket); v != "" {
		cfg.Storage.MinIO.Bucket = v
	}

	if v := os.Getenv(envLogLevel); v != "" {
		cfg.Log.Level = v
	}

	log.Info("config parsed")

	return cfg, nil
}

// SetupLogger applies the log section to the global logrus logger.
func (c *Config) SetupLogger() {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", c.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if c.Log.JSON {
		log.SetFormatter(&log.JSONFormatter{})
		return
	}
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}
