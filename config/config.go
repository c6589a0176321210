package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/prasetyowira/qrstudio/constant"
	"github.com/prasetyowira/qrstudio/domain/qr"
	"github.com/prasetyowira/qrstudio/infrastructure/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Host           string
	Port           int
	DatabaseURL    string
	LogLevel       string
	CacheSize      int
	PreviewMaxSize int
	BulkSize       int
	BulkMargin     int
	BulkRowDelay   time.Duration
	BulkSoftLimit  int
	DefaultTheme   string
	DefaultsFile   string
	Defaults       Defaults
}

// Defaults is the optional YAML file that seeds new sessions and bulk runs.
type Defaults struct {
	Size   int      `yaml:"size"`
	Format string   `yaml:"format"`
	Style  qr.Style `yaml:"style"`
}

// LoadConfig reads .env (if present) and the environment. A defaults file
// that cannot be read or parsed is logged and ignored.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Host:           getEnv("HOST", "127.0.0.1"),
		Port:           getEnvInt("PORT", 8080),
		DatabaseURL:    getEnv("DATABASE_URL", "qrstudio.db"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		CacheSize:      getEnvInt("CACHE_SIZE", 256),
		PreviewMaxSize: getEnvInt("PREVIEW_MAX_SIZE", 320),
		BulkSize:       getEnvInt("BULK_SIZE", 512),
		BulkMargin:     getEnvInt("BULK_MARGIN", 10),
		BulkRowDelay:   getEnvDuration("BULK_ROW_DELAY", 50*time.Millisecond),
		BulkSoftLimit:  getEnvInt("BULK_SOFT_LIMIT", 1000),
		DefaultTheme:   getEnv("DEFAULT_THEME", constant.ThemeLight),
		DefaultsFile:   getEnv("STYLE_DEFAULTS_FILE", ""),
	}

	if cfg.DefaultsFile != "" {
		defaults, err := LoadDefaults(cfg.DefaultsFile)
		if err != nil {
			logger.Warn(constant.MsgDefaultsFileUnreadable, logger.LoggerInfo{
				ContextFunction: constant.CtxConfig,
				Error: &logger.CustomError{
					Code:    constant.ErrCodeConfigDefault,
					Message: err.Error(),
					Type:    constant.ErrTypeConfig,
				},
				Data: map[string]interface{}{
					constant.DataPath: cfg.DefaultsFile,
				},
			})
		} else {
			cfg.Defaults = defaults
		}
	}

	return cfg
}

// LoadDefaults parses a YAML defaults file.
func LoadDefaults(path string) (Defaults, error) {
	var d Defaults
	data, err := os.ReadFile(path)
	if err != nil {
		return d, err
	}
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

// Addr is the listen address.
func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// BulkStyle is the style every bulk row is rendered with.
func (c Config) BulkStyle() qr.Style {
	style := c.Defaults.Style.WithDefaults()
	margin := c.BulkMargin
	style.Margin = &margin
	style.Logo = nil
	return style
}

// SessionDefaults returns the settings a fresh session starts from.
func (c Config) SessionDefaults() qr.Settings {
	s := qr.DefaultSettings()
	if c.Defaults.Size > 0 {
		s.Size = c.Defaults.Size
	}
	if f := qr.Format(c.Defaults.Format); f.Valid() {
		s.Format = f
	}
	s.Style = c.Defaults.Style.WithDefaults()
	return s
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}
