package sentlog

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	setLevel(false, "warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	setLevel(false, "nonsense")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	setLevel(true, "error")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestInitLogFile(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	file := filepath.Join(t.TempDir(), "sentlog.log")

	initLog(false, "info", file)
	require.NotNil(t, logFile)
	assert.Equal(t, file, logFile.Filename)
	t.Cleanup(func() { logFile.Close(); logFile = nil })
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.True(t, strings.HasPrefix(out.String(), "sentlog dev "))
}
