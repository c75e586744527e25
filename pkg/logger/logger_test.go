package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"WARN":    zerolog.WarnLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for input, want := range cases {
		assert.Equal(t, want, parseLevel(input), "level %q", input)
	}
}

func TestWithHelpersReturnNewLogger(t *testing.T) {
	base := Nop()

	assert.NotSame(t, base, base.WithField("k", "v"))
	assert.NotSame(t, base, base.WithFields(map[string]interface{}{"a": 1, "b": 2}))
	assert.NotSame(t, base, base.WithError(assert.AnError))

	// Chained field helpers must not panic on a nop logger.
	base.WithField("run_id", "x").WithError(assert.AnError).Error("ignored")
}
