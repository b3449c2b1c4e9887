package conf

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sentlog/sentlog/pkg/util"
)

const (
	EnvPrefix      = "SENTLOG"
	DefaultName    = "sentlog"
	DefaultLogFile = ""
)

// Defaults is applied before any file, env or flag value.
var Defaults = map[string]any{
	"export.path":              "mensagens_enviadas.xlsx",
	"export.format":            "xlsx",
	"export.sheet":             "",
	"report.locale":            "pt-BR",
	"report.timezone":          "Local",
	"whatsapp.store":           "sentlog.db",
	"whatsapp.connect_timeout": "30s",
	"http.enabled":             false,
	"http.addr":                "127.0.0.1:5031",
	"http.formats":             "xlsx,csv,json",
	"log.level":                "info",
	"log.file":                 DefaultLogFile,
	"tray.enabled":             false,
}

// Loader reads configuration with viper and keeps it current when the file
// changes.
type Loader struct {
	v *viper.Viper

	mu       sync.RWMutex
	conf     *Config
	onChange []func(*Config)
}

// NewLoader reads the config file (explicit path, or sentlog.yaml in the
// working directory when present), SENTLOG_* env vars and bound flags.
func NewLoader(file string, flags *pflag.FlagSet) (*Loader, error) {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(DefaultName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	l := &Loader{v: v}
	conf, err := l.decode()
	if err != nil {
		return nil, err
	}
	l.conf = conf
	return l, nil
}

// flag name -> config key
var flagKeys = map[string]string{
	"output":   "export.path",
	"format":   "export.format",
	"locale":   "report.locale",
	"timezone": "report.timezone",
	"store":    "whatsapp.store",
	"http":     "http.enabled",
	"addr":     "http.addr",
	"log-file": "log.file",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// stringListHook accepts "xlsx, csv" from env vars and flags.
func stringListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf([]string{}) {
		return data, nil
	}
	return util.SplitList(data.(string), ","), nil
}

func (l *Loader) decode() (*Config, error) {
	conf := &Config{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		Result:           conf,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			stringListHook,
		),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(l.v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return conf, nil
}

// Config returns the current configuration.
func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.conf
}

// ConfigFile returns the file in use, empty when running on defaults.
func (l *Loader) ConfigFile() string {
	return l.v.ConfigFileUsed()
}

// OnChange registers fn to run with the new configuration after a reload.
func (l *Loader) OnChange(fn func(*Config)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

// Watch reloads the configuration whenever the config file is written.
func (l *Loader) Watch() {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		l.reload(e.Name)
	})
	l.v.WatchConfig()
}

func (l *Loader) reload(name string) {
	conf, err := l.decode()
	if err != nil {
		log.Err(err).Str("file", name).Msg("config reload failed, keeping previous values")
		return
	}
	l.mu.Lock()
	l.conf = conf
	hooks := append([]func(*Config){}, l.onChange...)
	l.mu.Unlock()

	log.Info().Str("file", name).Msg("config reloaded")
	for _, fn := range hooks {
		fn(conf)
	}
}
