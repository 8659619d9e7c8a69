package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/trackmaker/pkg/diag"
)

type diagSink struct {
	log *zap.Logger
}

// NewDiagSink routes diagnostics to l. Ignored directives are logged at debug
// level, everything else at warn.
func NewDiagSink(l *zap.Logger) diag.Sink {
	if l == nil {
		l = Log
	}
	return diagSink{log: l}
}

// Report logs a single diagnostic event.
func (s diagSink) Report(e diag.Event) {
	fields := []zap.Field{
		zap.String("kind", e.Kind.String()),
		zap.String("source", e.Source),
	}
	if e.Line > 0 {
		fields = append(fields, zap.Int("line", e.Line))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}

	s.log.Check(levelFor(e.Kind), e.Detail).Write(fields...)
}

func levelFor(k diag.Kind) zapcore.Level {
	if k == diag.IgnoredDirective {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}
