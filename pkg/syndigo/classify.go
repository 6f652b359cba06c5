package syndigo

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

// Variant is the decoded shape of an attribute object.
type Variant int

const (
	// VariantUnknown covers absent, null and unrecognized payloads.
	VariantUnknown Variant = iota
	// VariantSimple is {"values": [{"value": ...}, ...]}.
	VariantSimple
	// VariantNonSimple is {"group": [{"<sub>": {"values": [...]}, ...}, ...]}.
	VariantNonSimple
)

func (v Variant) String() string {
	switch v {
	case VariantSimple:
		return "simple"
	case VariantNonSimple:
		return "non-simple"
	default:
		return "unknown"
	}
}

// Classification is the result of decoding one attribute object.
type Classification struct {
	Variant Variant
	Sample  string
}

// Type maps the variant to the reported attribute type. Unknown payloads report as Simple.
func (c Classification) Type() core.AttributeType {
	if c.Variant == VariantNonSimple {
		return core.NonSimple
	}
	return core.Simple
}

type nonSimpleShape struct {
	Group json.RawMessage `json:"group"`
}

type simpleShape struct {
	Values json.RawMessage `json:"values"`
}

type valueEntry struct {
	Value json.RawMessage `json:"value"`
}

// ClassifyAttribute decodes an attribute object as NonSimple, then Simple, then Unknown.
// It never fails: any part of the payload that does not match the expected shape only
// reduces what is extracted.
//
// For NonSimple attributes the sample is the first sub-attribute value found walking the
// groups and their members in document order.
func ClassifyAttribute(raw json.RawMessage) Classification {
	if ns, ok := decodeNonSimple(raw); ok {
		return Classification{Variant: VariantNonSimple, Sample: ns}
	}
	if s, ok := decodeSimple(raw); ok {
		return Classification{Variant: VariantSimple, Sample: s}
	}
	return Classification{Variant: VariantUnknown}
}

func decodeNonSimple(raw json.RawMessage) (string, bool) {
	var shape nonSimpleShape
	if len(raw) == 0 || json.Unmarshal(raw, &shape) != nil || shape.Group == nil {
		return "", false
	}

	var groups []json.RawMessage
	if json.Unmarshal(shape.Group, &groups) != nil {
		return "", true
	}
	for _, g := range groups {
		var members orderedObject
		if json.Unmarshal(g, &members) != nil {
			continue
		}
		for _, m := range members {
			if v, ok := firstValue(m.Value); ok {
				return v, true
			}
		}
	}
	return "", true
}

func decodeSimple(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var shape simpleShape
	if json.Unmarshal(raw, &shape) != nil || shape.Values == nil {
		return "", false
	}
	v, _ := firstOfValues(shape.Values)
	return v, true
}

// firstValue extracts values[0].value from an object shaped like a Simple attribute.
func firstValue(raw json.RawMessage) (string, bool) {
	var shape simpleShape
	if json.Unmarshal(raw, &shape) != nil || shape.Values == nil {
		return "", false
	}
	return firstOfValues(shape.Values)
}

func firstOfValues(values json.RawMessage) (string, bool) {
	var list []json.RawMessage
	if json.Unmarshal(values, &list) != nil || len(list) == 0 {
		return "", false
	}
	var entry valueEntry
	if !isObject(list[0]) || json.Unmarshal(list[0], &entry) != nil || entry.Value == nil {
		return "", false
	}
	return valueText(entry.Value), true
}

// valueText renders a JSON scalar for display: strings unquoted, null empty, anything else
// as compact JSON.
func valueText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, raw) != nil {
		return string(raw)
	}
	return buf.String()
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

type member struct {
	Key   string
	Value json.RawMessage
}

// orderedObject keeps object members in document order, which map decoding loses.
type orderedObject []member

func (o *orderedObject) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Newf("expected object, got %v", tok)
	}
	var out orderedObject
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.Newf("expected object key, got %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return err
		}
		out = append(out, member{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
