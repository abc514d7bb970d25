package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init inicializa o logger estruturado.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON em produção, texto em desenvolvimento
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter ativa o formato texto (para desenvolvimento).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
