package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	HTTP     HTTPConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Wompi    WompiConfig
	Audit    AuditConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env           string // development, staging, production
	Name          string
	LogLevel      string
	PublicBaseURL string // base para redirect-url del checkout Wompi
	AutoMigrate   bool
}

// IsDevelopment indica si la app corre en modo desarrollo.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string

	// Pool pgx.
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión a Redis. Addr vacío = idempotencia y locks en memoria del proceso.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// RabbitMQConfig conexión a RabbitMQ. URL vacía = publicador no-op.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// Enabled indica si hay broker configurado.
func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

// WompiConfig opciones de la pasarela. Las credenciales viven en la tabla wompi_config.
type WompiConfig struct {
	RequireSignature bool
	CheckoutURL      string
	Currency         string
}

// AuditConfig opciones de la cola de auditoría.
type AuditConfig struct {
	Workers              int
	Buffer               int
	DefaultRetentionDays int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:           env,
			Name:          getString(v, "APP_NAME", "naturalmede-api"),
			LogLevel:      getString(v, "LOG_LEVEL", "info"),
			PublicBaseURL: strings.TrimRight(getString(v, "PUBLIC_BASE_URL", ""), "/"),
			AutoMigrate:   getBool(v, "DB_AUTO_MIGRATE", false),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "naturalmede"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),

			MaxConns:        getInt(v, "DB_MAX_CONNS", 10),
			MinConns:        getInt(v, "DB_MIN_CONNS", 2),
			MaxConnLifetime: getDuration(v, "DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getDuration(v, "DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "naturalmede-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getString(v, "RABBITMQ_URL", ""),
			Exchange: getString(v, "RABBITMQ_EXCHANGE", "naturalmede.events"),
		},
		Wompi: WompiConfig{
			// En desarrollo se aceptan webhooks sin firma si no hay secreto configurado.
			RequireSignature: getBool(v, "WOMPI_REQUIRE_SIGNATURE", env != "development"),
			CheckoutURL:      getString(v, "WOMPI_CHECKOUT_URL", "https://checkout.wompi.co/p/"),
			Currency:         getString(v, "WOMPI_CURRENCY", "COP"),
		},
		Audit: AuditConfig{
			Workers:              getInt(v, "AUDIT_WORKERS", 2),
			Buffer:               getInt(v, "AUDIT_BUFFER", 1024),
			DefaultRetentionDays: getInt(v, "AUDIT_DEFAULT_RETENTION_DAYS", 365),
		},
	}

	if cfg.JWT.Secret == "" && env != "development" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio fuera de development")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

// getDuration acepta "90s", "1h30m" o un número de segundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	raw := strings.TrimSpace(v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
