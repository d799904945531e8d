package cliparse

import (
	"errors"
	"flag"
	"fmt"
	iofs "io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            int
	DatabaseURL     string
	DatabaseType    string
	JWTSecret       string
	LogLevel        string
	LogFormat       string
	VoteMaxAttempts int
	RateLimit       int
	KafkaBrokers    []string
	KafkaTopic      string
	CORSOrigins     []string
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var kafkaBrokers, corsOrigins string

	fs := flag.NewFlagSet("gather", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Access token signing secret (prefer env)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format (json or console)")
	fs.IntVar(&cfg.VoteMaxAttempts, "vote-attempts", 0, "Attempts per vote before reporting a conflict")
	fs.IntVar(&cfg.RateLimit, "rate-limit", 0, "Write requests per minute per client")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", "", "Comma separated Kafka brokers for promotion events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", "", "Kafka topic for promotion events")
	fs.StringVar(&corsOrigins, "cors-origins", "", "Comma separated allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := intFromEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", "sqlite")
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = envOr("LOG_LEVEL", "info")
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = envOr("LOG_FORMAT", "json")
	}

	if cfg.VoteMaxAttempts == 0 {
		n, err := intFromEnv("VOTE_MAX_ATTEMPTS", 5)
		if err != nil {
			return Config{}, err
		}
		cfg.VoteMaxAttempts = n
	}
	if cfg.VoteMaxAttempts < 1 {
		return Config{}, errors.New("vote attempts must be at least 1")
	}

	if cfg.RateLimit == 0 {
		n, err := intFromEnv("RATE_LIMIT_PER_MINUTE", 120)
		if err != nil {
			return Config{}, err
		}
		cfg.RateLimit = n
	}

	if kafkaBrokers == "" {
		kafkaBrokers = os.Getenv("KAFKA_BROKERS")
	}
	cfg.KafkaBrokers = splitList(kafkaBrokers)
	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = envOr("KAFKA_TOPIC", "meeting-promotions")
	}

	if corsOrigins == "" {
		corsOrigins = os.Getenv("CORS_ORIGINS")
	}
	cfg.CORSOrigins = splitList(corsOrigins)
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s env variable", key)
	}
	return n, nil
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
