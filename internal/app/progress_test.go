package app_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shpitdev/syndigo-attribute-checker/internal/app"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

func TestLogProgress_ThrottlesButAlwaysLogsEnds(t *testing.T) {
	t.Parallel()

	obs, logs := observer.New(zap.InfoLevel)
	p := &app.LogProgress{Logger: zap.New(obs), Interval: time.Hour}

	p.Start(5)
	for i := 1; i <= 5; i++ {
		p.Advance(core.QueryResult{Attribute: "a"}, i, 5)
	}
	p.Stop()

	entries := logs.FilterMessage("progress").All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ContextMap()["completed"])
	assert.Equal(t, int64(5), entries[1].ContextMap()["completed"])
}

func TestLogProgress_WithoutStart(t *testing.T) {
	t.Parallel()

	obs, logs := observer.New(zap.InfoLevel)
	p := &app.LogProgress{Logger: zap.New(obs)}
	p.Advance(core.QueryResult{Attribute: "a"}, 1, 3)
	assert.Equal(t, 1, logs.Len())
}

func TestBarProgress_StopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	p := &app.BarProgress{Writer: &buf}
	p.Start(2)
	p.Advance(core.QueryResult{Attribute: "color"}, 1, 2)
	p.Advance(core.QueryResult{Attribute: "size"}, 2, 2)
	p.Stop()
	p.Stop()
}

func TestNopProgress(t *testing.T) {
	t.Parallel()

	var p app.ProgressReporter = app.NopProgress{}
	p.Start(1)
	p.Advance(core.QueryResult{}, 1, 1)
	p.Stop()
}
