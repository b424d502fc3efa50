package lineage

import (
	"slices"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/search"
)

// Default paging of lineage list requests.
const (
	DefaultListSize = 10
	MaxListSize     = 1000
)

// FilterCondition joins the criteria of a FilterList.
type FilterCondition string

const (
	ConditionAnd FilterCondition = "AND"
	ConditionOr  FilterCondition = "OR"
)

// Operator compares an attribute in an EntityFilter.
type Operator string

const (
	OpEquals      Operator = "eq"
	OpNotEquals   Operator = "neq"
	OpStartsWith  Operator = "startsWith"
	OpEndsWith    Operator = "endsWith"
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpLessThan    Operator = "lt"
	OpGreaterThan Operator = "gt"
	OpIsNull      Operator = "isNull"
	OpNotNull     Operator = "notNull"
)

// EntityFilter is one attribute criterion of a lineage list request.
type EntityFilter struct {
	AttributeName  string   `json:"attributeName"`
	Operator       Operator `json:"operator"`
	AttributeValue string   `json:"attributeValue"`
}

// Filter builds an EntityFilter.
func Filter(attribute string, op Operator, value string) EntityFilter {
	return EntityFilter{AttributeName: attribute, Operator: op, AttributeValue: value}
}

// TypeFilter matches entities of typeName.
func TypeFilter(typeName string) EntityFilter {
	return Filter("__typeName", OpEquals, typeName)
}

// ActiveFilter matches entities that are not archived.
func ActiveFilter() EntityFilter {
	return Filter("__state", OpEquals, string(model.StatusActive))
}

// FilterList combines criteria with a condition.
type FilterList struct {
	Condition FilterCondition `json:"condition"`
	Criteria  []EntityFilter  `json:"criterion"`
}

// ListRequest is the body of a lineage list call.
type ListRequest struct {
	GUID                         string                 `json:"guid"`
	Size                         int                    `json:"size"`
	From                         int                    `json:"from"`
	Depth                        int                    `json:"depth"`
	Direction                    model.LineageDirection `json:"direction"`
	EntityFilters                *FilterList            `json:"entityFilters,omitempty"`
	EntityTraversalFilters       *FilterList            `json:"entityTraversalFilters,omitempty"`
	RelationshipTraversalFilters *FilterList            `json:"relationshipTraversalFilters,omitempty"`
	Attributes                   []string               `json:"attributes,omitempty"`
	RelationAttributes           []string               `json:"relationAttributes,omitempty"`
	ExcludeMeanings              bool                   `json:"excludeMeanings"`
	ExcludeAtlanTags             bool                   `json:"excludeClassifications"`
	ImmediateNeighbors           bool                   `json:"immediateNeighbors"`
}

// NewListRequest returns a downstream request for guid with default paging.
func NewListRequest(guid string, direction model.LineageDirection) ListRequest {
	return ListRequest{
		GUID:             guid,
		Size:             DefaultListSize,
		Depth:            DefaultDepth,
		Direction:        direction,
		ExcludeMeanings:  true,
		ExcludeAtlanTags: true,
	}
}

// Validate checks the request before it is sent.
func (r ListRequest) Validate() error {
	if err := errors.ValidateGUID(r.GUID); err != nil {
		return err
	}
	if !r.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid lineage direction %q", r.Direction)
	}
	if r.Size < 1 || r.Size > MaxListSize {
		return errors.New(errors.ErrCodeInvalidInput, "lineage page size must be between 1 and %d", MaxListSize)
	}
	if r.From < 0 || r.Depth < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid lineage paging from=%d depth=%d", r.From, r.Depth)
	}
	return nil
}

// ListResponse is one page of a lineage list call.
type ListResponse struct {
	Entities    model.EntityList `json:"entities"`
	HasMore     bool             `json:"hasMore"`
	EntityCount int              `json:"entityCount"`
}

// FluentLineage builds a ListRequest step by step.
type FluentLineage struct {
	req        ListRequest
	wheres     []EntityFilter
	traversals []EntityFilter
}

// NewFluentLineage starts a downstream lineage query from guid.
func NewFluentLineage(guid string) *FluentLineage {
	return &FluentLineage{req: NewListRequest(guid, model.Downstream)}
}

func (f *FluentLineage) Direction(d model.LineageDirection) *FluentLineage {
	f.req.Direction = d
	return f
}

func (f *FluentLineage) Depth(n int) *FluentLineage {
	f.req.Depth = n
	return f
}

func (f *FluentLineage) Size(n int) *FluentLineage {
	f.req.Size = n
	return f
}

// ImmediateNeighbors limits results to one hop.
func (f *FluentLineage) ImmediateNeighbors(v bool) *FluentLineage {
	f.req.ImmediateNeighbors = v
	return f
}

// WhereAssets adds a filter every returned entity must match.
func (f *FluentLineage) WhereAssets(filters ...EntityFilter) *FluentLineage {
	f.wheres = append(f.wheres, filters...)
	return f
}

// IncludeInTraversal restricts which entities the walk may pass through.
func (f *FluentLineage) IncludeInTraversal(filters ...EntityFilter) *FluentLineage {
	f.traversals = append(f.traversals, filters...)
	return f
}

// IncludeOnResults requests extra attributes on each entity.
func (f *FluentLineage) IncludeOnResults(fs ...search.Field) *FluentLineage {
	for _, fl := range fs {
		f.req.Attributes = append(f.req.Attributes, fl.AttributeName())
	}
	return f
}

// IncludeMeanings returns assigned terms with each entity.
func (f *FluentLineage) IncludeMeanings() *FluentLineage {
	f.req.ExcludeMeanings = false
	return f
}

// IncludeAtlanTags returns tags with each entity.
func (f *FluentLineage) IncludeAtlanTags() *FluentLineage {
	f.req.ExcludeAtlanTags = false
	return f
}

// ToRequest builds and validates the first page request.
func (f *FluentLineage) ToRequest() (*ListRequest, error) {
	req := f.req
	req.Attributes = slices.Clone(f.req.Attributes)
	if len(f.wheres) > 0 {
		req.EntityFilters = &FilterList{Condition: ConditionAnd, Criteria: slices.Clone(f.wheres)}
	}
	if len(f.traversals) > 0 {
		req.EntityTraversalFilters = &FilterList{Condition: ConditionAnd, Criteria: slices.Clone(f.traversals)}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
