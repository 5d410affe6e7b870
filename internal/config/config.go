package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	PolicyDrop   = "drop"
	PolicyAccept = "accept"
)

type Config struct {
	TCPPort     string `yaml:"tcp_port"`
	MetricsPort string `yaml:"metrics_port"`
	GRPCServer  string `yaml:"grpc_server"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	ProxyAddr   string `yaml:"proxy_addr"`

	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
	RawLogDir string `yaml:"raw_log_dir"`

	// IntegrityPolicy decide qué hacer con frames con CRC o qty2 inválidos:
	// "drop" los descarta, "accept" los procesa marcados.
	IntegrityPolicy string        `yaml:"integrity_policy"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	MaxFrameSize    int           `yaml:"max_frame_size"`
}

func defaults() Config {
	return Config{
		TCPPort:         "8001",
		MetricsPort:     "9000",
		GRPCServer:      "localhost:50051",
		RedisAddr:       "localhost:6379",
		LogLevel:        "info",
		RawLogDir:       "logs",
		IntegrityPolicy: PolicyDrop,
		ReadTimeout:     5 * time.Minute,
		MaxFrameSize:    1 << 16,
	}
}

// Load arma la configuración: defaults, luego el YAML en path (si no es
// vacío) y por último las variables de entorno.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.TCPPort = getEnv("TCP_PORT", cfg.TCPPort)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.GRPCServer = getEnv("GRPC_SERVER", cfg.GRPCServer)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.ProxyAddr = getEnv("PROXY_ADDR", cfg.ProxyAddr)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("LOG_FILE", cfg.LogFile)
	cfg.RawLogDir = getEnv("RAW_LOG_DIR", cfg.RawLogDir)
	cfg.IntegrityPolicy = getEnv("INTEGRITY_POLICY", cfg.IntegrityPolicy)

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", cfg.RedisDB); err != nil {
		return cfg, err
	}
	if cfg.MaxFrameSize, err = getEnvInt("MAX_FRAME_SIZE", cfg.MaxFrameSize); err != nil {
		return cfg, err
	}
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("READ_TIMEOUT: %w", err)
		}
		cfg.ReadTimeout = d
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.IntegrityPolicy != PolicyDrop && c.IntegrityPolicy != PolicyAccept {
		return fmt.Errorf("integrity_policy must be %q or %q, got %q", PolicyDrop, PolicyAccept, c.IntegrityPolicy)
	}
	if c.MaxFrameSize <= 0 {
		return fmt.Errorf("max_frame_size must be positive, got %d", c.MaxFrameSize)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
