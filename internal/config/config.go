package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port     string `mapstructure:"port"`
		Env      string `mapstructure:"env"`
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"app"`
	DB struct {
		DSN             string        `mapstructure:"dsn"`
		MaxConns        int32         `mapstructure:"max_conns"`
		MinConns        int32         `mapstructure:"min_conns"`
		MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
		ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
		PoolSize int    `mapstructure:"pool_size"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Storage struct {
		Driver string `mapstructure:"driver"`
	} `mapstructure:"storage"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	S3 struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		PublicBaseURL   string `mapstructure:"public_base_url"`
	} `mapstructure:"s3"`
	Catalog struct {
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"catalog"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rate_limit"`
	OTel struct {
		Endpoint    string  `mapstructure:"endpoint"`
		SampleRatio float64 `mapstructure:"sample_ratio"`
	} `mapstructure:"otel"`
}

// LoadConfig reads config.yaml from paths (default ".") and overlays the
// environment, with .env loaded first.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	err = godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.max_conn_lifetime", 30*time.Minute)
	v.SetDefault("db.connect_timeout", 5*time.Second)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("auth.token_lifespan", time.Hour)
	v.SetDefault("storage.driver", "cloudinary")
	v.SetDefault("catalog.cache_ttl", time.Minute)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", time.Minute)

	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.log_level", "LOG_LEVEL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.max_conns", "DB_MAX_CONNS")
	v.BindEnv("db.min_conns", "DB_MIN_CONNS")
	v.BindEnv("db.max_conn_lifetime", "DB_MAX_CONN_LIFETIME")
	v.BindEnv("db.connect_timeout", "DB_CONNECT_TIMEOUT")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.pool_size", "REDIS_POOL_SIZE")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")
	v.BindEnv("s3.access_key_id", "S3_ACCESS_KEY_ID")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.public_base_url", "S3_PUBLIC_BASE_URL")

	v.BindEnv("catalog.cache_ttl", "CATALOG_CACHE_TTL")
	v.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	v.BindEnv("otel.endpoint", "OTEL_ENDPOINT")
	v.BindEnv("otel.sample_ratio", "OTEL_SAMPLE_RATIO")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}

	// comma separated list from the environment
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}
