// Package resolve turns uploaded attribute sources into the ordered work list for a run.
package resolve

import (
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/shpitdev/syndigo-attribute-checker/pkg/pipeline/core"
)

// AllEntities selects every entity in a relationship table.
const AllEntities = "all"

// Pair is one row of an entity -> attribute relationship table.
type Pair struct {
	Entity    string
	Attribute string
}

// Flat builds work items from a single attribute column and one global entity.
// Blank values are dropped and duplicates collapse to their first occurrence.
func Flat(entity string, attributes []string) []core.WorkItem {
	entity = strings.TrimSpace(entity)
	seen := make(map[string]struct{}, len(attributes))
	out := make([]core.WorkItem, 0, len(attributes))
	for _, raw := range attributes {
		attr := strings.TrimSpace(raw)
		if attr == "" {
			continue
		}
		if _, dup := seen[attr]; dup {
			continue
		}
		seen[attr] = struct{}{}
		out = append(out, core.WorkItem{Entity: entity, Attribute: attr})
	}
	return out
}

// Relationship builds work items from an entity -> attribute table.
//
// Rows missing either field are dropped. Attributes are de-duplicated per entity and sorted;
// entities are visited in sorted order. entity selects a single entity, or every entity when
// empty or AllEntities.
func Relationship(pairs []Pair, entity string) ([]core.WorkItem, error) {
	byEntity := make(map[string]map[string]struct{})
	for _, p := range pairs {
		e := strings.TrimSpace(p.Entity)
		a := strings.TrimSpace(p.Attribute)
		if e == "" || a == "" {
			continue
		}
		set, ok := byEntity[e]
		if !ok {
			set = make(map[string]struct{})
			byEntity[e] = set
		}
		set[a] = struct{}{}
	}

	entities := Entities(byEntity)
	if !SelectsAll(entity) {
		want := strings.TrimSpace(entity)
		if _, ok := byEntity[want]; !ok {
			return nil, core.NewConfigError(errors.WithHintf(
				errors.Newf("entity %q not found in relationship table", want),
				"known entities: %s", strings.Join(entities, ", "),
			))
		}
		entities = []string{want}
	}

	var out []core.WorkItem
	for _, e := range entities {
		attrs := make([]string, 0, len(byEntity[e]))
		for a := range byEntity[e] {
			attrs = append(attrs, a)
		}
		slices.Sort(attrs)
		for _, a := range attrs {
			out = append(out, core.WorkItem{Entity: e, Attribute: a})
		}
	}
	return out, nil
}

// Entities returns the sorted keys of a grouped relationship table.
func Entities[V any](byEntity map[string]V) []string {
	out := make([]string, 0, len(byEntity))
	for e := range byEntity {
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// SelectsAll reports whether an entity filter means every entity.
func SelectsAll(entity string) bool {
	entity = strings.TrimSpace(entity)
	return entity == "" || strings.EqualFold(entity, AllEntities)
}
