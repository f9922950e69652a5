package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	OpenAI    OpenAIConfig
	Retry     RetryConfig
	Analytics AnalyticsConfig
	Pipeline  PipelineConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env         string   `envconfig:"AUTOVISTA_APP_ENV" default:"development"`
	Port        string   `envconfig:"AUTOVISTA_APP_PORT" default:"8000"`
	LogLevel    string   `envconfig:"AUTOVISTA_LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"AUTOVISTA_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN       string `envconfig:"AUTOVISTA_DB_DSN"`
	UseSQLite bool   `envconfig:"AUTOVISTA_USE_SQLITE" default:"false"`
	// SQLitePath is only consulted when UseSQLite is set.
	SQLitePath  string `envconfig:"AUTOVISTA_SQLITE_PATH" default:"autovista.db"`
	AutoMigrate bool   `envconfig:"AUTOVISTA_AUTO_MIGRATE" default:"false"`

	LegacyHost     string `envconfig:"AUTOVISTA_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOVISTA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOVISTA_DB_USER"`
	LegacyPassword string `envconfig:"AUTOVISTA_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOVISTA_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOVISTA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOVISTA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOVISTA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOVISTA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOVISTA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOVISTA_REDIS_URL"`
	Address      string        `envconfig:"AUTOVISTA_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOVISTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOVISTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOVISTA_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"AUTOVISTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOVISTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOVISTA_REDIS_WRITE_TIMEOUT" default:"5s"`
	KPICacheTTL  time.Duration `envconfig:"AUTOVISTA_REDIS_KPI_CACHE_TTL" default:"5m"`
}

// Enabled reports whether a redis endpoint was configured at all. The cache
// is optional; every read path works without it.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type OpenAIConfig struct {
	APIKey         string  `envconfig:"AUTOVISTA_OPENAI_API_KEY"`
	PrimaryModel   string  `envconfig:"AUTOVISTA_OPENAI_MODEL_PRIMARY" default:"gpt-4o"`
	SecondaryModel string  `envconfig:"AUTOVISTA_OPENAI_MODEL_SECONDARY" default:"gpt-4o-mini"`
	EmbeddingModel string  `envconfig:"AUTOVISTA_OPENAI_EMBEDDING_MODEL" default:"text-embedding-ada-002"`
	MaxTokens      int     `envconfig:"AUTOVISTA_OPENAI_MAX_TOKENS" default:"1500"`
	Temperature    float32 `envconfig:"AUTOVISTA_OPENAI_TEMPERATURE" default:"0.7"`
}

type RetryConfig struct {
	MaxAttempts int           `envconfig:"AUTOVISTA_RETRY_MAX_ATTEMPTS" default:"3"`
	BaseDelay   time.Duration `envconfig:"AUTOVISTA_RETRY_BASE_DELAY" default:"250ms"`
	MaxDelay    time.Duration `envconfig:"AUTOVISTA_RETRY_MAX_DELAY" default:"5s"`
}

type AnalyticsConfig struct {
	AnomalyThreshold    float64 `envconfig:"AUTOVISTA_ANALYTICS_ANOMALY_THRESHOLD" default:"2.0"`
	MovingAvgWindow     int     `envconfig:"AUTOVISTA_ANALYTICS_MOVING_AVG_WINDOW" default:"7"`
	OverstockMultiplier float64 `envconfig:"AUTOVISTA_ANALYTICS_OVERSTOCK_MULTIPLIER" default:"3.0"`
	ForecastHorizonDays int     `envconfig:"AUTOVISTA_ANALYTICS_FORECAST_HORIZON_DAYS" default:"7"`
	// ForecastSeed seeds the forecast jitter RNG. Zero means time-seeded,
	// which keeps forecasts intentionally non-reproducible.
	ForecastSeed int64 `envconfig:"AUTOVISTA_ANALYTICS_FORECAST_SEED" default:"0"`
}

type PipelineConfig struct {
	DefaultLookbackDays int `envconfig:"AUTOVISTA_PIPELINE_LOOKBACK_DAYS" default:"30"`
	TopVehicleCount     int `envconfig:"AUTOVISTA_PIPELINE_TOP_VEHICLES" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" || db.UseSQLite {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
