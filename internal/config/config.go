package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Daraja   DarajaConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int32
}

// DarajaConfig holds Safaricom Daraja (M-Pesa) API credentials.
type DarajaConfig struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	Environment    string // "sandbox" or "production"
	CallbackURL    string
}

// CheckoutConfig holds checkout session and payment-watch tuning. The account
// prefix is the tenant identifier used to build payment account references;
// it is resolved once here and threaded through explicitly.
type CheckoutConfig struct {
	AccountPrefix string
	SessionTTL    time.Duration
	WatchTimeout  time.Duration
	PollInterval  time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	var corsOrigins []string
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				corsOrigins = append(corsOrigins, o)
			}
		}
	}

	serverCfg := ServerConfig{
		Host:        serverHost,
		Port:        serverPort,
		CORSOrigins: corsOrigins,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresMaxConnsStr := os.Getenv("POSTGRES_MAX_CONNS")
	if postgresMaxConnsStr == "" {
		postgresMaxConnsStr = "10"
	}

	postgresMaxConns, err := strconv.Atoi(postgresMaxConnsStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_MAX_CONNS: %w", op, err)
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
		MaxConns: int32(postgresMaxConns),
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	darajaKey := os.Getenv("DARAJA_CONSUMER_KEY")
	if darajaKey == "" {
		return nil, fmt.Errorf("%s: missing DARAJA_CONSUMER_KEY", op)
	}

	darajaSecret := os.Getenv("DARAJA_CONSUMER_SECRET")
	if darajaSecret == "" {
		return nil, fmt.Errorf("%s: missing DARAJA_CONSUMER_SECRET", op)
	}

	darajaShortcode := os.Getenv("DARAJA_SHORTCODE")
	if darajaShortcode == "" {
		return nil, fmt.Errorf("%s: missing DARAJA_SHORTCODE", op)
	}

	darajaPasskey := os.Getenv("DARAJA_PASSKEY")
	if darajaPasskey == "" {
		return nil, fmt.Errorf("%s: missing DARAJA_PASSKEY", op)
	}

	darajaEnv := os.Getenv("DARAJA_ENVIRONMENT")
	if darajaEnv == "" {
		darajaEnv = "sandbox"
	}

	darajaCallback := os.Getenv("DARAJA_CALLBACK_URL")
	if darajaCallback == "" {
		return nil, fmt.Errorf("%s: missing DARAJA_CALLBACK_URL", op)
	}

	darajaCfg := DarajaConfig{
		ConsumerKey:    darajaKey,
		ConsumerSecret: darajaSecret,
		Shortcode:      darajaShortcode,
		Passkey:        darajaPasskey,
		Environment:    darajaEnv,
		CallbackURL:    darajaCallback,
	}

	accountPrefix := os.Getenv("CHECKOUT_ACCOUNT_PREFIX")
	if accountPrefix == "" {
		accountPrefix = "NAKSYETU"
	}

	sessionTTL, err := durationEnv("CHECKOUT_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	watchTimeout, err := durationEnv("CHECKOUT_WATCH_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pollInterval, err := durationEnv("CHECKOUT_POLL_INTERVAL", 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	checkoutCfg := CheckoutConfig{
		AccountPrefix: accountPrefix,
		SessionTTL:    sessionTTL,
		WatchTimeout:  watchTimeout,
		PollInterval:  pollInterval,
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Daraja:   darajaCfg,
		Checkout: checkoutCfg,
	}, nil
}

func durationEnv(name string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return d, nil
}
