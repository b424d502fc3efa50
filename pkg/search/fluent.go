package search

import (
	"maps"
	"slices"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// Index fields shared by every asset.
var (
	typeNameField   = NewKeywordField("typeName", "__typeName.keyword")
	superTypeField  = NewKeywordField("superTypeNames", "__superTypeNames.keyword")
	stateField      = NewKeywordField("status", "__state")
	guidField       = NewKeywordField("guid", "__guid")
	tagsField       = NewKeywordField("classificationNames", "__traitNames")
	propagatedField = NewKeywordField("propagatedClassificationNames", "__propagatedTraitNames")
)

// AssetType matches assets of exactly typeName.
func AssetType(typeName string) Query { return typeNameField.Eq(typeName) }

// AssetTypes matches assets of any of typeNames.
func AssetTypes(typeNames ...string) Query { return typeNameField.Within(typeNames...) }

// SuperType matches assets that inherit from typeName.
func SuperType(typeName string) Query { return superTypeField.Eq(typeName) }

// ActiveAssets matches assets that are not archived.
func ActiveAssets() Query { return stateField.Eq(string(model.StatusActive)) }

// ArchivedAssets matches soft-deleted assets.
func ArchivedAssets() Query { return stateField.Eq(string(model.StatusDeleted)) }

// WithAtlanTag matches assets carrying the tag directly or through
// propagation. tagID is the internal tag name.
func WithAtlanTag(tagID string) Query {
	return Or(tagsField.Eq(tagID), propagatedField.Eq(tagID))
}

// WithAtlanTagDirect matches assets carrying the tag directly.
func WithAtlanTagDirect(tagID string) Query { return tagsField.Eq(tagID) }

// GUIDSort orders by GUID, used as a tiebreaker for stable paging.
func GUIDSort() SortItem { return guidField.Order(model.Ascending) }

// FluentSearch builds an index search request step by step.
//
//	req, err := search.NewFluentSearch().
//	    Where(search.AssetType("Table")).
//	    Where(search.ActiveAssets()).
//	    PageSize(50).
//	    IncludeOnResults(fields.CertificateStatus).
//	    ToRequest()
type FluentSearch struct {
	wheres    []Query
	whereNots []Query
	somes     []Query
	minSomes  int
	pageSize  int
	sorts     []SortItem
	includes  []string
	relations []string
	aggs      map[string]Aggregation
	noMeaning bool
	noTags    bool
}

// NewFluentSearch returns an empty search.
func NewFluentSearch() *FluentSearch {
	return &FluentSearch{pageSize: DefaultPageSize, minSomes: 1}
}

// Where adds a condition every result must match.
func (s *FluentSearch) Where(q Query) *FluentSearch {
	s.wheres = append(s.wheres, q)
	return s
}

// WhereNot adds a condition no result may match.
func (s *FluentSearch) WhereNot(q Query) *FluentSearch {
	s.whereNots = append(s.whereNots, q)
	return s
}

// WhereSome adds an optional condition; see MinSomes.
func (s *FluentSearch) WhereSome(q Query) *FluentSearch {
	s.somes = append(s.somes, q)
	return s
}

// MinSomes sets how many WhereSome conditions must match (default 1).
func (s *FluentSearch) MinSomes(n int) *FluentSearch {
	s.minSomes = n
	return s
}

// PageSize sets the number of results per page.
func (s *FluentSearch) PageSize(n int) *FluentSearch {
	s.pageSize = n
	return s
}

// Sort appends a sort criterion.
func (s *FluentSearch) Sort(items ...SortItem) *FluentSearch {
	s.sorts = append(s.sorts, items...)
	return s
}

// IncludeOnResults requests extra attributes on each result.
func (s *FluentSearch) IncludeOnResults(fs ...Field) *FluentSearch {
	for _, f := range fs {
		s.includes = append(s.includes, f.AttributeName())
	}
	return s
}

// IncludeOnRelations requests attributes on related entities.
func (s *FluentSearch) IncludeOnRelations(fs ...Field) *FluentSearch {
	for _, f := range fs {
		s.relations = append(s.relations, f.AttributeName())
	}
	return s
}

// Aggregate adds a terms aggregation named name over f.
func (s *FluentSearch) Aggregate(name string, f KeywordField, size int) *FluentSearch {
	if s.aggs == nil {
		s.aggs = map[string]Aggregation{}
	}
	s.aggs[name] = Aggregation{Field: f.Keyword, Size: size}
	return s
}

// ExcludeMeanings omits assigned terms from results.
func (s *FluentSearch) ExcludeMeanings() *FluentSearch {
	s.noMeaning = true
	return s
}

// ExcludeAtlanTags omits tags from results.
func (s *FluentSearch) ExcludeAtlanTags() *FluentSearch {
	s.noTags = true
	return s
}

// Query combines the conditions into a single query.
func (s *FluentSearch) Query() Query {
	if len(s.wheres)+len(s.whereNots)+len(s.somes) == 0 {
		return MatchAll{}
	}
	b := Bool{Filter: s.wheres, MustNot: s.whereNots}
	if len(s.somes) > 0 {
		b.Should = s.somes
		b.MinimumShouldMatch = max(s.minSomes, 1)
	}
	return b
}

// ToRequest builds the first page request.
func (s *FluentSearch) ToRequest() (*IndexSearchRequest, error) {
	if s.minSomes > len(s.somes) && len(s.somes) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "min somes %d exceeds %d optional conditions", s.minSomes, len(s.somes))
	}
	req := &IndexSearchRequest{
		DSL: DSL{
			Size:           s.pageSize,
			Query:          s.Query(),
			Sort:           slices.Clone(s.sorts),
			Aggregations:   maps.Clone(s.aggs),
			TrackTotalHits: true,
		},
		Attributes:         slices.Clone(s.includes),
		RelationAttributes: slices.Clone(s.relations),
		SuppressLogs:       true,
		ExcludeMeanings:    s.noMeaning,
		ExcludeAtlanTags:   s.noTags,
	}
	if err := req.DSL.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}
