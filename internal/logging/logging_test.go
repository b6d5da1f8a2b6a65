package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]bool{"debug": true, "info": false, "warn": false, "bogus": false}
	for level, debugOn := range cases {
		for _, format := range []string{"json", "console"} {
			logger, err := New(level, format)
			require.NoError(t, err)
			assert.Equal(t, debugOn, logger.Core().Enabled(zap.DebugLevel), "level %q", level)
			assert.True(t, logger.Core().Enabled(zap.ErrorLevel))
		}
	}
}
