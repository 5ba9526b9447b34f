package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// LogLevel is the application-facing logging level. It maps onto the logrus
// levels in SetLevel.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(logrus.InfoLevel)
	return l
}

func SetLevel(level LogLevel) {
	switch level {
	case DEBUG:
		log.SetLevel(logrus.DebugLevel)
	case INFO:
		log.SetLevel(logrus.InfoLevel)
	case WARNING:
		log.SetLevel(logrus.WarnLevel)
	case ERROR:
		log.SetLevel(logrus.ErrorLevel)
	case FATAL:
		log.SetLevel(logrus.FatalLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
}

func Debug(args ...interface{})                 { log.Debug(args...) }
func Debugf(format string, args ...interface{}) { log.Debugf(format, args...) }
func Info(args ...interface{})                  { log.Info(args...) }
func Infof(format string, args ...interface{})  { log.Infof(format, args...) }
func Warning(args ...interface{})               { log.Warn(args...) }
func Warningf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}
func Error(args ...interface{})                 { log.Error(args...) }
func Errorf(format string, args ...interface{}) { log.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { log.Fatalf(format, args...) }

// LogBlockEvent records a structured entry for every block appended to the
// chain.
func LogBlockEvent(index uint64, hash string, payloadBytes int, nonce uint64) {
	log.WithFields(logrus.Fields{
		"index":         index,
		"hash":          hash,
		"payload_bytes": payloadBytes,
		"nonce":         nonce,
	}).Info("Block appended")
}
