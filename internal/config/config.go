package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverMemory   StoreDriver = "memory"
)

type StatusPolicy string

const (
	// 更新もキャンセルも遷移表でチェック
	StatusPolicyStrict StatusPolicy = "strict"
	// 更新は任意のステータスを許可、キャンセルのみチェック
	StatusPolicyPermissive StatusPolicy = "permissive"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	StoreDriver StoreDriver // postgres/memory

	DatabaseURL      string // あれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret      string // 空なら管理者認証なし・ログイン不可
	AccessTokenTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	StatusPolicy    StatusPolicy
	BcryptCost      int
	ShutdownTimeout time.Duration
}

// Loadは環境変数から読む
func Load() (Config, error) {
	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		StoreDriver: StoreDriver(strings.ToLower(getenv("STORE_DRIVER", string(StoreDriverPostgres)))),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		KafkaBrokers: splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "shop.events"),

		StatusPolicy: StatusPolicy(strings.ToLower(getenv("ORDER_STATUS_POLICY", string(StatusPolicyStrict)))),
	}

	var err error
	if cfg.PostgresPort, err = atoiDefault("POSTGRES_PORT", 5432); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost, err = atoiDefault("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = durationDefault("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = durationDefault("ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// 必須チェック
func (c Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			if c.PostgresUser == "" {
				return fmt.Errorf("POSTGRES_USER is required")
			}
			if c.PostgresPassword == "" {
				return fmt.Errorf("POSTGRES_PASSWORD is required")
			}
			if c.PostgresDB == "" {
				return fmt.Errorf("POSTGRES_DB is required")
			}
			if c.PostgresHost == "" {
				return fmt.Errorf("POSTGRES_HOST is required")
			}
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory: %q", c.StoreDriver)
	}

	switch c.StatusPolicy {
	case StatusPolicyStrict, StatusPolicyPermissive:
	default:
		return fmt.Errorf("ORDER_STATUS_POLICY must be strict or permissive: %q", c.StatusPolicy)
	}

	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}

// PostgresDSN は DATABASE_URL があればそれを、無ければ POSTGRES_* から組み立てる
func (c Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
