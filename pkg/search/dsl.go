package search

import (
	"encoding/json"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// MaxPageSize is the largest page the search endpoint serves.
const MaxPageSize = 10000

// DefaultPageSize is used when no size is set.
const DefaultPageSize = 100

// SortItem orders results by one index field.
type SortItem struct {
	Field string
	Order model.SortOrder
}

func (s SortItem) MarshalJSON() ([]byte, error) {
	order := s.Order
	if order == "" {
		order = model.Ascending
	}
	return json.Marshal(map[string]any{s.Field: map[string]any{"order": order}})
}

// Aggregation is a terms bucket aggregation.
type Aggregation struct {
	Field string
	Size  int
}

func (a Aggregation) MarshalJSON() ([]byte, error) {
	body := map[string]any{"field": a.Field}
	if a.Size > 0 {
		body["size"] = a.Size
	}
	return json.Marshal(map[string]any{"terms": body})
}

// Bucket is one value of a terms aggregation.
type Bucket struct {
	Key      any   `json:"key"`
	DocCount int64 `json:"doc_count"`
}

// AggregationResult holds the buckets of one aggregation.
type AggregationResult struct {
	Buckets       []Bucket `json:"buckets"`
	SumOtherCount int64    `json:"sum_other_doc_count"`
}

// DSL is the search body.
type DSL struct {
	From           int
	Size           int
	Query          Query
	PostFilter     Query
	Sort           []SortItem
	Aggregations   map[string]Aggregation
	TrackTotalHits bool
}

func (d DSL) MarshalJSON() ([]byte, error) {
	body := map[string]any{
		"from":             d.From,
		"size":             d.Size,
		"track_total_hits": d.TrackTotalHits,
	}
	if d.Query != nil {
		body["query"] = d.Query.Source()
	}
	if d.PostFilter != nil {
		body["post_filter"] = d.PostFilter.Source()
	}
	if len(d.Sort) > 0 {
		body["sort"] = d.Sort
	}
	if len(d.Aggregations) > 0 {
		body["aggregations"] = d.Aggregations
	}
	return json.Marshal(body)
}

// Validate checks the paging window.
func (d DSL) Validate() error {
	if d.Size < 1 || d.Size > MaxPageSize {
		return errors.New(errors.ErrCodeInvalidInput, "page size must be between 1 and %d, got %d", MaxPageSize, d.Size)
	}
	if d.From < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "from must not be negative")
	}
	return nil
}

// IndexSearchRequest is the body of an index search call.
type IndexSearchRequest struct {
	DSL                DSL      `json:"dsl"`
	Attributes         []string `json:"attributes,omitempty"`
	RelationAttributes []string `json:"relationAttributes,omitempty"`
	SuppressLogs       bool     `json:"suppressLogs"`
	ShowSearchScore    bool     `json:"showSearchScore,omitempty"`
	ExcludeMeanings    bool     `json:"excludeMeanings"`
	ExcludeAtlanTags   bool     `json:"excludeClassifications"`
}

// IndexSearchResponse is one page of search results.
type IndexSearchResponse struct {
	ApproximateCount int64                        `json:"approximateCount"`
	Entities         model.EntityList             `json:"entities"`
	Aggregations     map[string]AggregationResult `json:"aggregations,omitempty"`
}
