package contract

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerWithWriter(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter("debug", &buf)
	t.Cleanup(func() { Logger = zerolog.Nop() })

	assert.Equal(t, zerolog.DebugLevel, Logger.GetLevel())
	Logger.Debug().Str("project", "p1").Msg("project saved")
	assert.Contains(t, buf.String(), "project saved")
	assert.Contains(t, buf.String(), "project=p1")
}

func TestInitLoggerFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter("chatty", &buf)
	t.Cleanup(func() { Logger = zerolog.Nop() })

	assert.Equal(t, zerolog.WarnLevel, Logger.GetLevel())
	Logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())
}
