package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/voc-tools-mcp/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.LoggingConfig
		wantLevel zapcore.Level
	}{
		{"console info", config.LoggingConfig{Level: "info", Format: "console"}, zapcore.InfoLevel},
		{"json debug", config.LoggingConfig{Level: "debug", Format: "json"}, zapcore.DebugLevel},
		{"default format", config.LoggingConfig{Level: "error"}, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "loud", Format: "console"})
	assert.ErrorContains(t, err, "invalid log level")

	_, err = New(config.LoggingConfig{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, "invalid log format")
}
