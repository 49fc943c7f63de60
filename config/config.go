package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StateBackendRedis  = "redis"
	StateBackendMemory = "memory"

	CatalogBackendMongo  = "mongo"
	CatalogBackendDynamo = "dynamodb"
)

// DefaultJWTSecretRef names the JWT_SECRET key of the storefront's JSON secret.
// It is consulted when AWS_USE_SECRETS=true.
const DefaultJWTSecretRef = "storefront/app#JWT_SECRET"

type Config struct {
	Env  string
	Port string

	StateBackend   string
	RedisURL       string
	StateKeyPrefix string
	StateTTL       time.Duration

	CatalogBackend   string
	MongoURL         string
	MongoDB          string
	DDBProductsTable string

	JWTSecret    string
	JWTSecretRef string

	SessionIdleTTL time.Duration
	FetchTimeout   time.Duration
	PersistTimeout time.Duration

	AllowedOrigins []string

	CloudWatchEnabled   bool
	CloudWatchLogGroup  string
	CloudWatchNamespace string

	AWSEndpoint   string
	AWSRegion     string
	AWSUseSecrets bool
}

// SecretGetter is satisfied by pkg/aws.SecretsClient.
type SecretGetter interface {
	GetSecret(ctx context.Context, ref string) (string, error)
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		StateBackend:   strings.ToLower(getEnv("STATE_BACKEND", StateBackendRedis)),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		StateKeyPrefix: getEnv("STATE_KEY_PREFIX", "storefront:state:"),

		CatalogBackend:   strings.ToLower(getEnv("CATALOG_BACKEND", CatalogBackendMongo)),
		MongoURL:         getEnv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "primehoodie"),
		DDBProductsTable: getEnv("DDB_TABLE_PRODUCTS", "Products"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTSecretRef: getEnv("JWT_SECRET_REF", DefaultJWTSecretRef),

		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),

		CloudWatchEnabled:   os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchLogGroup:  os.Getenv("CLOUDWATCH_LOG_GROUP"),
		CloudWatchNamespace: os.Getenv("CLOUDWATCH_NAMESPACE"),

		AWSEndpoint:   os.Getenv("AWS_ENDPOINT"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),
		AWSUseSecrets: os.Getenv("AWS_USE_SECRETS") == "true",
	}

	var err error
	if cfg.StateTTL, err = getDuration("STATE_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = getDuration("SESSION_IDLE_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.PersistTimeout, err = getDuration("PERSIST_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplySecrets overrides JWTSecret from Secrets Manager. Failures keep the
// env value.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) {
	if sm == nil {
		return
	}
	ref := c.JWTSecretRef
	if ref == "" {
		ref = DefaultJWTSecretRef
	}
	if v, err := sm.GetSecret(ctx, ref); err == nil && v != "" {
		c.JWTSecret = v
	}
}

func (c *Config) Validate() error {
	switch c.StateBackend {
	case StateBackendRedis, StateBackendMemory:
	default:
		return fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", StateBackendRedis, StateBackendMemory, c.StateBackend)
	}
	switch c.CatalogBackend {
	case CatalogBackendMongo, CatalogBackendDynamo:
	default:
		return fmt.Errorf("CATALOG_BACKEND must be %q or %q, got %q", CatalogBackendMongo, CatalogBackendDynamo, c.CatalogBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitOrigins returns nil for an empty value so the CORS middleware falls
// back to its local development allowlist.
func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(o), "/")); o != "" {
			out = append(out, o)
		}
	}
	return out
}
