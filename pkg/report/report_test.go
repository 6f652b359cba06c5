package report_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/report"
)

func TestAggregator_OutOfOrderAdds(t *testing.T) {
	agg := report.NewAggregator(25)

	var wg sync.WaitGroup
	for i := 24; i >= 0; i-- {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			agg.Add(i, core.QueryResult{Attribute: string(rune('a' + i)), Count: i})
		}(i)
	}
	wg.Wait()

	require.True(t, agg.Complete())
	tbl := agg.Table()
	require.Len(t, tbl, 25)
	for i, r := range tbl {
		assert.Equal(t, i, r.Count)
	}
}

func TestAggregator_IncompleteAndDuplicates(t *testing.T) {
	agg := report.NewAggregator(3)
	agg.Add(0, core.QueryResult{Attribute: "color"})
	agg.Add(0, core.QueryResult{Attribute: "color", Count: 2})
	agg.Add(7, core.QueryResult{Attribute: "ignored"})

	assert.Equal(t, 1, agg.Len())
	assert.False(t, agg.Complete())
	assert.Equal(t, 2, agg.Table()[0].Count)
}

func TestTableRows(t *testing.T) {
	tbl := report.Table{
		{Entity: "sku", Attribute: "color", Type: core.Simple, Count: 3, Sample: "Red"},
		{Entity: "sku", Attribute: "dims", Type: core.NonSimple, Error: "Error 500: boom"},
	}

	assert.Equal(t, [][]string{
		{"color", "Simple", "3", "Red"},
		{"dims", "Non-Simple", "Error 500: boom", ""},
	}, tbl.Rows(false))

	withHeader := tbl.WithHeader(true)
	require.Len(t, withHeader, 3)
	assert.Equal(t, []string{"Entity", "Attribute", "Attribute Type", "Count", "Sample Data"}, withHeader[0])
	assert.Equal(t, "sku", withHeader[1][0])
}

func TestSummarize(t *testing.T) {
	s := report.Summarize(report.Table{
		{Attribute: "a", Count: 3},
		{Attribute: "b", Count: 0},
		{Attribute: "c", Type: core.NonSimple, Count: 1},
		{Attribute: "d", Error: "Error: timeout"},
	})
	assert.Equal(t, report.Summary{Total: 4, Populated: 2, Empty: 1, Failed: 1, Simple: 2, NonSimple: 1}, s)
}
