package common

import (
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/inconshreveable/log15"
)

var log = NewLog("common")

func NewLog(serverName string) log15.Logger {
	lg := log15.New("module", serverName)

	// default root handler
	h := lg.GetHandler()
	// error records are also captured by sentry, a no-op until InitSentry succeeds
	sentryHandle := log15.FuncHandler(func(r *log15.Record) error {
		if r.Lvl == log15.LvlError {
			msg := string(log15.JsonFormat().Format(r))
			go func(m string) {
				sentry.CaptureMessage(m)
			}(msg)
		}
		return nil
	})

	lg.SetHandler(log15.MultiHandler(h, sentryHandle))

	return lg
}

// SetLogLevel filters the root handler; every logger built by NewLog writes through it.
func SetLogLevel(level string) {
	lvl, err := log15.LvlFromString(level)
	if err != nil {
		lvl = log15.LvlInfo
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, log15.StreamHandler(os.Stdout, log15.LogfmtFormat())))
}

func InitSentry(dsn string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{Dsn: dsn})
}
