package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Bootstrap    BootstrapConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"ROBOLAB_APP_ENV" required:"true"`
	Port         string `envconfig:"ROBOLAB_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ROBOLAB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ROBOLAB_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ROBOLAB_DB_DSN"`
	Driver string `envconfig:"ROBOLAB_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ROBOLAB_DB_HOST"`
	LegacyPort     int    `envconfig:"ROBOLAB_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ROBOLAB_DB_USER"`
	LegacyPassword string `envconfig:"ROBOLAB_DB_PASSWORD"`
	LegacyName     string `envconfig:"ROBOLAB_DB_NAME"`
	LegacySSLMode  string `envconfig:"ROBOLAB_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ROBOLAB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ROBOLAB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ROBOLAB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ROBOLAB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ROBOLAB_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ROBOLAB_REDIS_ADDR"`
	Password     string        `envconfig:"ROBOLAB_REDIS_PASSWORD"`
	DB           int           `envconfig:"ROBOLAB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ROBOLAB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ROBOLAB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ROBOLAB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ROBOLAB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ROBOLAB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ROBOLAB_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ROBOLAB_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ROBOLAB_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ROBOLAB_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ROBOLAB_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ROBOLAB_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ROBOLAB_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ROBOLAB_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ROBOLAB_ARGON_KEY_LEN" default:"32"`
}

// BootstrapConfig controls the default admin account seeded on first boot.
type BootstrapConfig struct {
	AdminUsername   string `envconfig:"ROBOLAB_BOOTSTRAP_ADMIN_USERNAME" default:"admin"`
	AdminPassword   string `envconfig:"ROBOLAB_BOOTSTRAP_ADMIN_PASSWORD" default:"admin123"`
	AdminEmployeeID string `envconfig:"ROBOLAB_BOOTSTRAP_ADMIN_EMPLOYEE_ID" default:"ADM001"`
	AdminFullName   string `envconfig:"ROBOLAB_BOOTSTRAP_ADMIN_FULL_NAME" default:"System Administrator"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ROBOLAB_AUTO_MIGRATE" default:"false"`
	SeedAdmin   bool `envconfig:"ROBOLAB_SEED_ADMIN" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
