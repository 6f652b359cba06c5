package mocksyndigo

import (
	"bytes"
	"encoding/json"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Fixture is the canned answer for one attribute.
//
// Example (YAML):
//
//	attributes:
//	  color:
//	    totalRecords: 3
//	    value:
//	      values:
//	        - value: Red
//	  dimensions:
//	    totalRecords: 1
//	    value:
//	      group:
//	        - height: {values: [{value: 10}]}
//	  broken:
//	    status: 500
//	    body: internal error
type Fixture struct {
	// Status defaults to 200.
	Status int `yaml:"status"`
	// Body replaces the generated response body verbatim.
	Body         string    `yaml:"body"`
	TotalRecords int       `yaml:"totalRecords"`
	Value        yaml.Node `yaml:"value"`
	// RawValue is the attribute object as JSON, for fixtures built in code. It wins over Value.
	RawValue json.RawMessage `yaml:"-"`
	Delay    time.Duration   `yaml:"delay"`
	// Entity restricts the fixture to one entity type; empty matches any.
	Entity string `yaml:"entity"`
}

// Fixtures maps attribute names to canned answers.
type Fixtures struct {
	Attributes map[string]Fixture `yaml:"attributes"`
}

// LoadFixtures parses a YAML fixture file.
func LoadFixtures(r io.Reader) (Fixtures, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Fixtures{}, errors.Wrap(err, "read fixtures")
	}
	var out Fixtures
	if err := yaml.Unmarshal(b, &out); err != nil {
		return Fixtures{}, errors.Wrap(err, "parse fixtures YAML")
	}
	for name, f := range out.Attributes {
		if f.Value.Kind != 0 {
			if _, err := nodeJSON(&f.Value); err != nil {
				return Fixtures{}, errors.Wrapf(err, "fixture %q value", name)
			}
		}
	}
	return out, nil
}

// attributeJSON renders the fixture's attribute object, or nil when none is set.
func (f Fixture) attributeJSON() (json.RawMessage, error) {
	if len(f.RawValue) > 0 {
		return f.RawValue, nil
	}
	if f.Value.Kind == 0 {
		return nil, nil
	}
	return nodeJSON(&f.Value)
}

// nodeJSON converts a YAML node to JSON, keeping mapping keys in document order.
func nodeJSON(n *yaml.Node) (json.RawMessage, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return json.RawMessage("null"), nil
		}
		return nodeJSON(n.Content[0])
	case yaml.AliasNode:
		return nodeJSON(n.Alias)
	case yaml.MappingNode:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return nil, err
			}
			v, err := nodeJSON(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	case yaml.SequenceNode:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			v, err := nodeJSON(c)
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	default:
		return nil, errors.Newf("unsupported YAML node kind %d", n.Kind)
	}
}
