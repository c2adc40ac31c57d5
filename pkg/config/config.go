package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	Log   LogConfig
	DB    DBConfig
	JWT   JWTConfig
	HTTP  HTTPConfig
	Rules RulesConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel y formato del logger.
type LogConfig struct {
	Level string
}

// DBConfig configuración de la base de datos.
// Driver "postgres" usa DatabaseURL o los campos sueltos; "sqlite" usa SQLitePath.
type DBConfig struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve DATABASE_URL si está definido, si no el DSN construido.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con la contraseña escapada.
func (c DBConfig) DSN() string {
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

// RulesConfig parámetros de las reglas comerciales.
type RulesConfig struct {
	DefaultCreditLimit    decimal.Decimal
	MinMarginPct          decimal.Decimal
	RequireCustomer       bool
	RequireOperator       bool
	CheckCredit           bool
	CheckStock            bool
	CheckMinPrice         bool
	CheckExpiry           bool
	InstantPaymentMethods []string
	CostPolicy            string // last | average
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_DRIVER, JWT_SECRET, RULES_CREDIT_LIMIT, etc.
func Load() (*Config, error) {
	// .env no pisa variables ya exportadas
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	creditLimit, err := getDecimal(v, "RULES_CREDIT_LIMIT", "5000.00")
	if err != nil {
		return nil, err
	}
	margin, err := getDecimal(v, "RULES_MIN_MARGIN_PCT", "10")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "sistema-comercial"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER", "postgres")),
			SQLitePath:  getString(v, "SQLITE_PATH", "comercial.db"),
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "sistema_comercial"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "sistema-comercial"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Rules: RulesConfig{
			DefaultCreditLimit:    creditLimit,
			MinMarginPct:          margin,
			RequireCustomer:       getBool(v, "RULES_REQUIRE_CUSTOMER", false),
			RequireOperator:       getBool(v, "RULES_REQUIRE_OPERATOR", true),
			CheckCredit:           getBool(v, "RULES_CHECK_CREDIT", true),
			CheckStock:            getBool(v, "RULES_CHECK_STOCK", true),
			CheckMinPrice:         getBool(v, "RULES_CHECK_MIN_PRICE", true),
			CheckExpiry:           getBool(v, "RULES_CHECK_EXPIRY", true),
			InstantPaymentMethods: getList(v, "RULES_INSTANT_PAYMENT_METHODS", "cash,pix,debit,instant_transfer"),
			CostPolicy:            getString(v, "RULES_COST_POLICY", "last"),
		},
	}

	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("config: DB_DRIVER no soportado %q", cfg.DB.Driver)
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
	if !v.IsSet(key) {
		return def
	}
	if s, ok := v.Get(key).(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return def
		}
		return n
	}
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	return v.GetBool(key)
}

func getDecimal(v *viper.Viper, key, def string) (decimal.Decimal, error) {
	raw := getString(v, key, def)
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: %s inválido: %w", key, err)
	}
	return d, nil
}

func getList(v *viper.Viper, key, def string) []string {
	var out []string
	for _, s := range strings.Split(getString(v, key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
