package conf

import (
	"strings"
	"time"
)

// Config is the full runtime configuration.
type Config struct {
	Export   ExportConfig   `mapstructure:"export" json:"export"`
	Report   ReportConfig   `mapstructure:"report" json:"report"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp" json:"whatsapp"`
	HTTP     HTTPConfig     `mapstructure:"http" json:"http"`
	Log      LogConfig      `mapstructure:"log" json:"log"`
	Tray     TrayConfig     `mapstructure:"tray" json:"tray"`
}

// ExportConfig controls the file written at shutdown.
type ExportConfig struct {
	Path   string `mapstructure:"path" json:"path"`
	Format string `mapstructure:"format" json:"format"`
	Sheet  string `mapstructure:"sheet" json:"sheet"`
}

// ReportConfig controls labels and how timestamps are rendered.
type ReportConfig struct {
	Locale   string `mapstructure:"locale" json:"locale"`
	Timezone string `mapstructure:"timezone" json:"timezone"`
}

type WhatsAppConfig struct {
	Store string `mapstructure:"store" json:"store"`
	// ConnectTimeout bounds the wait for the first connection when already paired.
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" json:"connect_timeout"`
}

// HTTPConfig enables the read-only status page.
type HTTPConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Addr    string `mapstructure:"addr" json:"addr"`
	// Formats lists the report formats served for download.
	Formats []string `mapstructure:"formats" json:"formats"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file"`
}

type TrayConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// Location loads the configured time zone; empty or "Local" means the host zone.
func (c *ReportConfig) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

// ServesFormat reports whether the status page may serve format.
func (c *HTTPConfig) ServesFormat(format string) bool {
	for _, f := range c.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

func (c *Config) GetHTTPAddr() string { return c.HTTP.Addr }

func (c *Config) IsHTTPEnabled() bool { return c.HTTP.Enabled }

func (c *Config) ServesFormat(format string) bool { return c.HTTP.ServesFormat(format) }
