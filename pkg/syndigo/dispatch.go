package syndigo

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/redact"
)

// Dispatch queries one work item and folds every outcome into the result. It never fails:
// HTTP and transport errors become the result's Error text.
func (c *Client) Dispatch(ctx context.Context, item core.WorkItem) core.QueryResult {
	out := core.QueryResult{
		Entity:    item.Entity,
		Attribute: item.Attribute,
		Type:      core.Simple,
	}

	resp, err := c.Query(ctx, item.Entity, item.Attribute)
	if err != nil {
		out.Error = ErrorText(err)
		return out
	}

	out.Count = resp.Response.TotalRecords
	if len(resp.Response.Entities) > 0 {
		cls := ClassifyAttribute(resp.FirstAttribute(item.Attribute))
		out.Type = cls.Type()
		out.Sample = cls.Sample
	}
	return out
}

// ErrorText renders err the way it is reported in the Count column.
func ErrorText(err error) string {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.CountText()
	}
	return "Error: " + redact.Secrets(err.Error())
}
