package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

// New builds the process logger. Local environments get console output,
// everything else ships structured JSON.
func New(env string) Logger {
	level := zerolog.InfoLevel
	if env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
		level = zerolog.DebugLevel
	}
	return log.Level(level)
}
