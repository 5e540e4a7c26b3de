package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const Production = "production"

const (
	StorageMongo = "mongo"
	StorageLocal = "local"
)

type MongoOptions struct {
	ConnString string `env:"MONGODB_CONNSTRING"`
	Database   string `env:"MONGODB_DATABASE" envDefault:"property-ops"`
}

type OpenAIOptions struct {
	Key     string        `env:"OPENAI_KEY"`
	BaseURL string        `env:"OPENAI_BASE_URL"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"15s"`
}

func (o OpenAIOptions) Enabled() bool {
	return strings.TrimSpace(o.Key) != ""
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/metrics"`
}

// AICOOOptions are the fixed thresholds the decision endpoint applies before any LLM call.
type AICOOOptions struct {
	MaxAutoApproveNights int    `env:"AICOO_MAX_AUTO_APPROVE_NIGHTS" envDefault:"14"`
	MaxAutoApproveAmount string `env:"AICOO_MAX_AUTO_APPROVE_AMOUNT" envDefault:"5000"`
	MaxGuests            int    `env:"AICOO_MAX_GUESTS" envDefault:"10"`
}

func (o AICOOOptions) AmountLimit() decimal.Decimal {
	d, err := decimal.NewFromString(o.MaxAutoApproveAmount)
	if err != nil {
		return decimal.Zero
	}
	return d
}

type Configuration struct {
	Mongo      MongoOptions
	OpenAI     OpenAIOptions
	Prometheus PrometheusOptions
	AICOO      AICOOOptions

	ServerPort       int           `env:"PORT" envDefault:"3000"`
	GoAppEnvironment string        `env:"GO_APP_ENV" envDefault:"development"`
	StorageBackend   string        `env:"STORAGE_BACKEND" envDefault:"mongo"`
	LocalDBPath      string        `env:"LOCAL_DB_PATH" envDefault:"./database/local.json"`
	SigningKey       string        `env:"SIGN"`
	TokenTTL         time.Duration `env:"TOKEN_TTL" envDefault:"8h"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	RedisURL         string        `env:"REDIS_URL"`
	AICacheTTL       time.Duration `env:"AI_CACHE_TTL" envDefault:"1h"`
	WebhookSecret    string        `env:"WEBHOOK_SECRET"`
	AdminLogin       string        `env:"ADMIN_LOGIN"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
	RequestIDHeader  string        `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	SocketAddress    string        `env:"-"`
}

// LoadEnv loads the env files that exist and reports how many were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads .env files (if any) and parses the process environment.
func Load(envFiles ...string) (*Configuration, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	c := &Configuration{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return c, nil
}

func (c *Configuration) Validate() error {
	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 4)

	switch c.StorageBackend {
	case StorageMongo:
		if strings.TrimSpace(c.Mongo.ConnString) == "" {
			missing = append(missing, "MONGODB_CONNSTRING")
		}
	case StorageLocal:
	default:
		invalid = append(invalid, "STORAGE_BACKEND")
	}

	if strings.TrimSpace(c.SigningKey) == "" {
		missing = append(missing, "SIGN")
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		invalid = append(invalid, "PORT")
	}
	if c.TokenTTL <= 0 {
		invalid = append(invalid, "TOKEN_TTL")
	}
	if _, err := decimal.NewFromString(c.AICOO.MaxAutoApproveAmount); err != nil {
		invalid = append(invalid, "AICOO_MAX_AUTO_APPROVE_AMOUNT")
	}
	if c.AICOO.MaxAutoApproveNights <= 0 {
		invalid = append(invalid, "AICOO_MAX_AUTO_APPROVE_NIGHTS")
	}
	if c.AICOO.MaxGuests <= 0 {
		invalid = append(invalid, "AICOO_MAX_GUESTS")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}
	return nil
}

func GetSecret(key string) (string, error) {
	val, exist := os.LookupEnv(key)
	if exist {
		return val, nil
	}
	return "", fmt.Errorf("no env variable with key %v", key)
}
