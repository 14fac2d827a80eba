package wiredump

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger sets the logger used by the package, nil silences it.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}

	logger = l.With(zap.String("module", "wiredump"))
}
