package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoader_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	l, err := NewLoader("", nil)
	require.NoError(t, err)
	c := l.Config()

	assert.Equal(t, "mensagens_enviadas.xlsx", c.Export.Path)
	assert.Equal(t, "xlsx", c.Export.Format)
	assert.Equal(t, "pt-BR", c.Report.Locale)
	assert.Equal(t, "sentlog.db", c.WhatsApp.Store)
	assert.Equal(t, 30*time.Second, c.WhatsApp.ConnectTimeout)
	assert.False(t, c.HTTP.Enabled)
	assert.Equal(t, []string{"xlsx", "csv", "json"}, c.HTTP.Formats)
	assert.Empty(t, l.ConfigFile())
}

func TestLoader_FileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	file := filepath.Join(dir, "sentlog.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
export:
  path: out/report.xlsx
report:
  locale: en
  timezone: America/Sao_Paulo
http:
  enabled: true
  formats: [xlsx]
`), 0o644))

	t.Setenv("SENTLOG_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "xlsx", "")
	require.NoError(t, flags.Parse([]string{"--format", "csv"}))

	l, err := NewLoader("", flags)
	require.NoError(t, err)
	c := l.Config()

	assert.Equal(t, file, l.ConfigFile())
	assert.Equal(t, "out/report.xlsx", c.Export.Path)
	assert.Equal(t, "csv", c.Export.Format)
	assert.Equal(t, "en", c.Report.Locale)
	assert.Equal(t, "debug", c.Log.Level)
	assert.True(t, c.IsHTTPEnabled())
	assert.True(t, c.HTTP.ServesFormat("XLSX"))
	assert.False(t, c.HTTP.ServesFormat("csv"))

	loc, err := c.Report.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestLoader_MissingExplicitFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestLoader_ReloadRunsHooks(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sentlog.yaml")
	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: info\n"), 0o644))

	l, err := NewLoader(file, nil)
	require.NoError(t, err)

	var got *Config
	l.OnChange(func(c *Config) { got = c })

	require.NoError(t, os.WriteFile(file, []byte("log:\n  level: warn\n"), 0o644))
	require.NoError(t, l.v.ReadInConfig())
	l.reload(file)

	require.NotNil(t, got)
	assert.Equal(t, "warn", got.Log.Level)
	assert.Equal(t, "warn", l.Config().Log.Level)
}

func TestReportLocation(t *testing.T) {
	loc, err := (&ReportConfig{Timezone: "local"}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	_, err = (&ReportConfig{Timezone: "Mars/Olympus"}).Location()
	assert.Error(t, err)
}
