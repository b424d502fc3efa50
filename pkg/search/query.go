package search

import "encoding/json"

// Query is a node of the Elasticsearch query DSL.
type Query interface {
	// Source returns the JSON object for the query.
	Source() map[string]any
}

// Term matches an exact value.
type Term struct {
	Field           string
	Value           any
	CaseInsensitive bool
}

func (q Term) Source() map[string]any {
	body := map[string]any{"value": q.Value}
	if q.CaseInsensitive {
		body["case_insensitive"] = true
	}
	return map[string]any{"term": map[string]any{q.Field: body}}
}

// Terms matches any of several exact values.
type Terms struct {
	Field  string
	Values []any
}

func (q Terms) Source() map[string]any {
	return map[string]any{"terms": map[string]any{q.Field: q.Values}}
}

// Prefix matches values starting with Value.
type Prefix struct {
	Field           string
	Value           string
	CaseInsensitive bool
}

func (q Prefix) Source() map[string]any {
	body := map[string]any{"value": q.Value}
	if q.CaseInsensitive {
		body["case_insensitive"] = true
	}
	return map[string]any{"prefix": map[string]any{q.Field: body}}
}

// Wildcard matches a pattern with * and ? placeholders.
type Wildcard struct {
	Field           string
	Value           string
	CaseInsensitive bool
}

func (q Wildcard) Source() map[string]any {
	body := map[string]any{"value": q.Value}
	if q.CaseInsensitive {
		body["case_insensitive"] = true
	}
	return map[string]any{"wildcard": map[string]any{q.Field: body}}
}

// Regexp matches a regular expression.
type Regexp struct {
	Field string
	Value string
}

func (q Regexp) Source() map[string]any {
	return map[string]any{"regexp": map[string]any{q.Field: map[string]any{"value": q.Value}}}
}

// Exists matches documents with any value in Field.
type Exists struct {
	Field string
}

func (q Exists) Source() map[string]any {
	return map[string]any{"exists": map[string]any{"field": q.Field}}
}

// Match runs a full-text query.
type Match struct {
	Field    string
	Query    string
	Operator string // "and" or "or", empty uses the server default
}

func (q Match) Source() map[string]any {
	body := map[string]any{"query": q.Query}
	if q.Operator != "" {
		body["operator"] = q.Operator
	}
	return map[string]any{"match": map[string]any{q.Field: body}}
}

// Range matches values within bounds. Nil bounds are left open.
type Range struct {
	Field string
	Gt    any
	Gte   any
	Lt    any
	Lte   any
}

func (q Range) Source() map[string]any {
	body := map[string]any{}
	for k, v := range map[string]any{"gt": q.Gt, "gte": q.Gte, "lt": q.Lt, "lte": q.Lte} {
		if v != nil {
			body[k] = v
		}
	}
	return map[string]any{"range": map[string]any{q.Field: body}}
}

// MatchAll matches every document.
type MatchAll struct{}

func (MatchAll) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

// Bool combines queries.
type Bool struct {
	Must               []Query
	Filter             []Query
	Should             []Query
	MustNot            []Query
	MinimumShouldMatch int
}

func sources(qs []Query) []map[string]any {
	out := make([]map[string]any, len(qs))
	for i, q := range qs {
		out[i] = q.Source()
	}
	return out
}

func (q Bool) Source() map[string]any {
	body := map[string]any{}
	if len(q.Must) > 0 {
		body["must"] = sources(q.Must)
	}
	if len(q.Filter) > 0 {
		body["filter"] = sources(q.Filter)
	}
	if len(q.Should) > 0 {
		body["should"] = sources(q.Should)
	}
	if len(q.MustNot) > 0 {
		body["must_not"] = sources(q.MustNot)
	}
	if q.MinimumShouldMatch > 0 {
		body["minimum_should_match"] = q.MinimumShouldMatch
	}
	return map[string]any{"bool": body}
}

// Not negates q.
func Not(q Query) Query { return Bool{MustNot: []Query{q}} }

// And matches when all qs match.
func And(qs ...Query) Query { return Bool{Filter: qs} }

// Or matches when at least one of qs matches.
func Or(qs ...Query) Query { return Bool{Should: qs, MinimumShouldMatch: 1} }

// MarshalQuery encodes q as JSON.
func MarshalQuery(q Query) ([]byte, error) {
	return json.Marshal(q.Source())
}
