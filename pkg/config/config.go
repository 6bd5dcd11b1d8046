package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Log     LogConfig
	DB      DBConfig
	JWT     JWTConfig
	HTTP    HTTPConfig
	Remote  RemoteConfig
	Billing BillingConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel del logger (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
// Sin DATABASE_URL ni DB_HOST el servicio usa almacenes en memoria.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// Enabled indica si hay base de datos configurada.
func (c DBConfig) Enabled() bool {
	return c.DatabaseURL != "" || c.Host != ""
}

// DSN devuelve el connection string, con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
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

// RemoteConfig backend REST de pedidos y pagos.
type RemoteConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	ReadRetries int
}

// BillingConfig parámetros de facturación.
type BillingConfig struct {
	CounterKey    string
	SubmitTimeout time.Duration
	CompanyName   string
	CompanyGSTIN  string
	CompanyState  string
	UPIID         string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde .env).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // opcional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		Log: LogConfig{Level: v.GetString("LOG_LEVEL")},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		Remote: RemoteConfig{
			BaseURL:     v.GetString("REMOTE_BASE_URL"),
			APIKey:      v.GetString("REMOTE_API_KEY"),
			Timeout:     time.Duration(v.GetInt("REMOTE_TIMEOUT_SECONDS")) * time.Second,
			ReadRetries: v.GetInt("REMOTE_READ_RETRIES"),
		},
		Billing: BillingConfig{
			CounterKey:    v.GetString("BILLING_COUNTER_KEY"),
			SubmitTimeout: time.Duration(v.GetInt("BILLING_SUBMIT_TIMEOUT_SECONDS")) * time.Second,
			CompanyName:   v.GetString("BILLING_COMPANY_NAME"),
			CompanyGSTIN:  v.GetString("BILLING_COMPANY_GSTIN"),
			CompanyState:  v.GetString("BILLING_COMPANY_STATE"),
			UPIID:         v.GetString("BILLING_UPI_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa los valores obligatorios.
func (c *Config) Validate() error {
	if c.Remote.BaseURL == "" {
		return errors.New("config: REMOTE_BASE_URL es obligatorio")
	}
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return errors.New("config: JWT_SECRET es obligatorio en producción")
	}
	if c.Billing.SubmitTimeout <= 0 {
		return errors.Newf("config: BILLING_SUBMIT_TIMEOUT_SECONDS inválido (%s)", c.Billing.SubmitTimeout)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "textil-api")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "textil")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "textil-api")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("REMOTE_TIMEOUT_SECONDS", 15)
	v.SetDefault("REMOTE_READ_RETRIES", 2)
	v.SetDefault("BILLING_COUNTER_KEY", "invoice_counter")
	v.SetDefault("BILLING_SUBMIT_TIMEOUT_SECONDS", 20)
}
