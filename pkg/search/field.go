package search

import "github.com/matzehuels/atlan-go/pkg/model"

// Field is a searchable attribute.
type Field interface {
	// AttributeName is the name used to request the attribute on results.
	AttributeName() string
}

// KeywordField is indexed for exact matching.
type KeywordField struct {
	Name    string // attribute name
	Keyword string // index field
}

func NewKeywordField(name, keyword string) KeywordField {
	return KeywordField{Name: name, Keyword: keyword}
}

func (f KeywordField) AttributeName() string { return f.Name }

// Eq matches the exact value.
func (f KeywordField) Eq(v string) Query { return Term{Field: f.Keyword, Value: v} }

// EqFold matches the exact value ignoring case.
func (f KeywordField) EqFold(v string) Query {
	return Term{Field: f.Keyword, Value: v, CaseInsensitive: true}
}

// StartsWith matches values with the prefix.
func (f KeywordField) StartsWith(prefix string, caseInsensitive bool) Query {
	return Prefix{Field: f.Keyword, Value: prefix, CaseInsensitive: caseInsensitive}
}

// Within matches any of values.
func (f KeywordField) Within(values ...string) Query {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return Terms{Field: f.Keyword, Values: vs}
}

// Wildcard matches a * and ? pattern.
func (f KeywordField) Wildcard(pattern string) Query {
	return Wildcard{Field: f.Keyword, Value: pattern}
}

// Regexp matches a regular expression.
func (f KeywordField) Regexp(pattern string) Query {
	return Regexp{Field: f.Keyword, Value: pattern}
}

// HasAnyValue matches when the attribute is set.
func (f KeywordField) HasAnyValue() Query { return Exists{Field: f.Keyword} }

// Order sorts on the field.
func (f KeywordField) Order(o model.SortOrder) SortItem {
	return SortItem{Field: f.Keyword, Order: o}
}

// TextField is analyzed for full-text matching.
type TextField struct {
	Name string
	Text string
}

func NewTextField(name, text string) TextField { return TextField{Name: name, Text: text} }

func (f TextField) AttributeName() string { return f.Name }

// Match runs a full-text query.
func (f TextField) Match(v string) Query { return Match{Field: f.Text, Query: v} }

// KeywordTextField is indexed both for exact and full-text matching.
type KeywordTextField struct {
	KeywordField
	Text string
}

func NewKeywordTextField(name, keyword, text string) KeywordTextField {
	return KeywordTextField{KeywordField: NewKeywordField(name, keyword), Text: text}
}

// Match runs a full-text query on the analyzed index.
func (f KeywordTextField) Match(v string) Query { return Match{Field: f.Text, Query: v} }

// NumericField is indexed as a number (or epoch-millis timestamp).
type NumericField struct {
	Name    string
	Numeric string
}

func NewNumericField(name, numeric string) NumericField {
	return NumericField{Name: name, Numeric: numeric}
}

func (f NumericField) AttributeName() string { return f.Name }

func (f NumericField) Eq(v float64) Query  { return Term{Field: f.Numeric, Value: v} }
func (f NumericField) Gt(v float64) Query  { return Range{Field: f.Numeric, Gt: v} }
func (f NumericField) Gte(v float64) Query { return Range{Field: f.Numeric, Gte: v} }
func (f NumericField) Lt(v float64) Query  { return Range{Field: f.Numeric, Lt: v} }
func (f NumericField) Lte(v float64) Query { return Range{Field: f.Numeric, Lte: v} }

// Between matches lo <= value <= hi.
func (f NumericField) Between(lo, hi float64) Query {
	return Range{Field: f.Numeric, Gte: lo, Lte: hi}
}

func (f NumericField) HasAnyValue() Query { return Exists{Field: f.Numeric} }

func (f NumericField) Order(o model.SortOrder) SortItem {
	return SortItem{Field: f.Numeric, Order: o}
}

// BooleanField is indexed as a boolean.
type BooleanField struct {
	Name    string
	Boolean string
}

func NewBooleanField(name, boolean string) BooleanField {
	return BooleanField{Name: name, Boolean: boolean}
}

func (f BooleanField) AttributeName() string { return f.Name }

func (f BooleanField) Eq(v bool) Query { return Term{Field: f.Boolean, Value: v} }

func (f BooleanField) HasAnyValue() Query { return Exists{Field: f.Boolean} }

// RelationField can only be requested on results, not searched.
type RelationField struct {
	Name string
}

func (f RelationField) AttributeName() string { return f.Name }
