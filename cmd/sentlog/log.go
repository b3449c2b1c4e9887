package sentlog

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile *lumberjack.Logger

// initLog sends logs to stderr and, when file is set, to a rotated log file.
func initLog(debug bool, level, file string) {
	setLevel(debug, level)

	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if file != "" {
		if logFile == nil || logFile.Filename != file {
			if logFile != nil {
				logFile.Close()
			}
			logFile = &lumberjack.Logger{
				Filename:   file,
				MaxSize:    10, // MB
				MaxBackups: 5,
				MaxAge:     30,
				Compress:   true,
			}
		}
		w = zerolog.MultiLevelWriter(w, logFile)
	}

	log.Logger = log.Output(w)
}

func setLevel(debug bool, level string) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
