package log

import (
	"io/ioutil"
	"log"

	"github.com/swezzy/sheetcms/config"
)

type stdLogger struct {
	*log.Logger
}

// WithStd creates a logger that uses the stdlib log facilities.
func WithStd(cfg config.Log) Log {
	out := cfg.Converted.Writer
	if out == nil {
		out = ioutil.Discard
	}

	return stdLogger{Logger: log.New(out, "[sheetcms] ", log.LstdFlags)}
}

func (st stdLogger) Info(v ...interface{}) {
	st.Print(v...)
}

func (st stdLogger) Infof(format string, v ...interface{}) {
	st.Printf(format, v...)
}

func (st stdLogger) Infoln(v ...interface{}) {
	st.Println(v...)
}

func (st stdLogger) Debug(v ...interface{}) {
	st.Print(v...)
}

func (st stdLogger) Debugf(format string, v ...interface{}) {
	st.Printf(format, v...)
}

func (st stdLogger) Debugln(v ...interface{}) {
	st.Println(v...)
}
