package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shpitdev/syndigo-attribute-checker/internal/logging"
)

func TestNew(t *testing.T) {
	for _, opts := range []logging.Options{{}, {Verbose: true}, {JSON: true}, {JSON: true, Verbose: true}} {
		logger, err := logging.New(opts)
		require.NoError(t, err)
		assert.Equal(t, opts.Verbose, logger.Core().Enabled(zap.DebugLevel))
		assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	}
}
