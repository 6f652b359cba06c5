package syndigo_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
	"github.com/shpitdev/syndigo-attribute-checker/pkg/syndigo"
)

func TestClassifyAttribute(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantVariant syndigo.Variant
		wantType    core.AttributeType
		wantSample  string
	}{
		{
			name:        "simple",
			raw:         `{"values":[{"value":"Red","locale":"en-US"},{"value":"Blue"}]}`,
			wantVariant: syndigo.VariantSimple,
			wantType:    core.Simple,
			wantSample:  "Red",
		},
		{
			name:        "simple numeric value",
			raw:         `{"values":[{"value": 12.5}]}`,
			wantVariant: syndigo.VariantSimple,
			wantType:    core.Simple,
			wantSample:  "12.5",
		},
		{
			name:        "simple empty values",
			raw:         `{"values":[]}`,
			wantVariant: syndigo.VariantSimple,
			wantType:    core.Simple,
		},
		{
			name:        "simple first element not an object",
			raw:         `{"values":["Red"]}`,
			wantVariant: syndigo.VariantSimple,
			wantType:    core.Simple,
		},
		{
			name:        "non-simple",
			raw:         `{"group":[{"size":{"values":[{"value":"M"}]}}]}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
			wantSample:  "M",
		},
		{
			name:        "non-simple first match in document order",
			raw:         `{"group":[{"zeta":{"values":[{"value":"Z"}]},"alpha":{"values":[{"value":"A"}]}}]}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
			wantSample:  "Z",
		},
		{
			name: "non-simple walks across groups",
			raw: `{"group":[
				{"id":"g1","note":{"values":[]},"unit":{"values":["cm"]}},
				{"height":{"values":[{"value":10}]},"width":{"values":[{"value":20}]}}
			]}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
			wantSample:  "10",
		},
		{
			name:        "non-simple without values",
			raw:         `{"group":[{"id":"g1"}]}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
		},
		{
			name:        "non-simple malformed group",
			raw:         `{"group":"oops"}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
		},
		{
			name:        "group wins over values",
			raw:         `{"values":[{"value":"flat"}],"group":[{"a":{"values":[{"value":"nested"}]}}]}`,
			wantVariant: syndigo.VariantNonSimple,
			wantType:    core.NonSimple,
			wantSample:  "nested",
		},
		{name: "absent", raw: ``, wantVariant: syndigo.VariantUnknown, wantType: core.Simple},
		{name: "null", raw: `null`, wantVariant: syndigo.VariantUnknown, wantType: core.Simple},
		{name: "scalar", raw: `"Red"`, wantVariant: syndigo.VariantUnknown, wantType: core.Simple},
		{name: "other object", raw: `{"properties":{}}`, wantVariant: syndigo.VariantUnknown, wantType: core.Simple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}
			got := syndigo.ClassifyAttribute(raw)
			assert.Equal(t, tt.wantVariant, got.Variant)
			assert.Equal(t, tt.wantType, got.Type())
			assert.Equal(t, tt.wantSample, got.Sample)
		})
	}
}
