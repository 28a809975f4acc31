package log

import (
	"os"

	lg "github.com/sirupsen/logrus"
	"github.com/swezzy/sheetcms/config"
)

type logrus struct {
	*lg.Logger
}

// WithLogrus creates a logger backed by logrus, writing to the converted
// writer of the log config (stderr or a rotating file).
func WithLogrus(cfg config.Log) Log {
	logger := logrus{Logger: lg.New()}

	logger.Out = cfg.Converted.Writer
	if logger.Out == nil {
		logger.Out = os.Stderr
	}

	switch cfg.Formatter {
	case "text":
		logger.Formatter = &lg.TextFormatter{}
	case "json":
		logger.Formatter = &lg.JSONFormatter{}
	}

	switch cfg.Level {
	case "info":
		logger.Level = lg.InfoLevel
	case "debug":
		logger.Level = lg.DebugLevel
	case "error":
		logger.Level = lg.ErrorLevel
	}

	return logger
}

func (l logrus) Print(args ...interface{}) {
	l.Logger.Error(args...)
}

func (l logrus) Printf(format string, args ...interface{}) {
	l.Logger.Errorf(format, args...)
}

func (l logrus) Println(args ...interface{}) {
	l.Logger.Errorln(args...)
}
