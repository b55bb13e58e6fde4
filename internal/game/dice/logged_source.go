package dice

import (
	"sync/atomic"

	"go.uber.org/zap"
)

// LoggedSource wraps a Source and logs every draw at debug level with the
// bound, the drawn value and the draw's sequence number.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
	draws  atomic.Int64
}

// NewLoggedSource creates a LoggedSource that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedSource(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the result.
//
// Precondition: n > 0.
// Postcondition: Returns the wrapped Source's value unchanged.
func (l *LoggedSource) Intn(n int) int {
	v := l.src.Intn(n)
	seq := l.draws.Add(1)
	l.logger.Debug("random draw",
		zap.Int64("seq", seq),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Draws returns how many values have been drawn so far.
func (l *LoggedSource) Draws() int64 {
	return l.draws.Load()
}
