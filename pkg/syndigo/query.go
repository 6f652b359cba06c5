package syndigo

import "encoding/json"

// QueryRequest is the entityappservice/get request body.
type QueryRequest struct {
	Params QueryParams `json:"params"`
}

type QueryParams struct {
	Query   Query   `json:"query"`
	Fields  Fields  `json:"fields"`
	Options Options `json:"options"`
}

type Query struct {
	Filters Filters `json:"filters"`
}

type Filters struct {
	TypesCriterion      []string                       `json:"typesCriterion"`
	AttributesCriterion []map[string]AttributeCriterion `json:"attributesCriterion"`
	AllContextual       bool                           `json:"allContextual"`
}

type AttributeCriterion struct {
	HasValue string `json:"hasvalue"`
}

type Fields struct {
	Attributes []string `json:"attributes"`
}

type Options struct {
	MaxRecords int `json:"maxRecords"`
}

// BuildQuery asks for at most one record of entityType where attribute has a value,
// returning only that attribute.
func BuildQuery(entityType, attribute string) QueryRequest {
	return QueryRequest{Params: QueryParams{
		Query: Query{Filters: Filters{
			TypesCriterion:      []string{entityType},
			AttributesCriterion: []map[string]AttributeCriterion{{attribute: {HasValue: "true"}}},
			AllContextual:       false,
		}},
		Fields:  Fields{Attributes: []string{attribute}},
		Options: Options{MaxRecords: 1},
	}}
}

// Attribute returns the single attribute name a query asks for, or "".
func (q QueryRequest) Attribute() string {
	if len(q.Params.Fields.Attributes) == 0 {
		return ""
	}
	return q.Params.Fields.Attributes[0]
}

// EntityType returns the first types criterion, or "".
func (q QueryRequest) EntityType() string {
	if len(q.Params.Query.Filters.TypesCriterion) == 0 {
		return ""
	}
	return q.Params.Query.Filters.TypesCriterion[0]
}

// QueryResponse is the subset of the entityappservice/get response the checker reads.
type QueryResponse struct {
	Response ResponseBody `json:"response"`
}

type ResponseBody struct {
	Status       string   `json:"status,omitempty"`
	TotalRecords int      `json:"totalRecords"`
	Entities     []Entity `json:"entities"`
}

type Entity struct {
	ID   string     `json:"id,omitempty"`
	Type string     `json:"type,omitempty"`
	Data EntityData `json:"data"`
}

type EntityData struct {
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// FirstAttribute returns the raw attribute object from the first entity, or nil.
func (r QueryResponse) FirstAttribute(name string) json.RawMessage {
	if len(r.Response.Entities) == 0 {
		return nil
	}
	return r.Response.Entities[0].Data.Attributes[name]
}
