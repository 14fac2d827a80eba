package bytebuffer

import "go.uber.org/zap"

var logger = zap.NewNop()

// SetLogger sets the logger used for growth and mapping events. Passing nil
// silences the package again.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger = zap.NewNop()
		return
	}

	logger = l.With(zap.String("module", "bytebuffer"))
}
