package search

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

func toJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	return string(data)
}

func TestQuerySource(t *testing.T) {
	f := NewKeywordField("name", "name.keyword")
	n := NewNumericField("rowCount", "rowCount")
	b := NewBooleanField("isPrimary", "isPrimary")

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{"term", f.Eq("ORDERS"), `{"term":{"name.keyword":{"value":"ORDERS"}}}`},
		{"term fold", f.EqFold("orders"), `{"term":{"name.keyword":{"case_insensitive":true,"value":"orders"}}}`},
		{"prefix", f.StartsWith("ORD", false), `{"prefix":{"name.keyword":{"value":"ORD"}}}`},
		{"terms", f.Within("A", "B"), `{"terms":{"name.keyword":["A","B"]}}`},
		{"wildcard", f.Wildcard("OR*"), `{"wildcard":{"name.keyword":{"value":"OR*"}}}`},
		{"regexp", f.Regexp("OR.+"), `{"regexp":{"name.keyword":{"value":"OR.+"}}}`},
		{"exists", f.HasAnyValue(), `{"exists":{"field":"name.keyword"}}`},
		{"range", n.Between(1, 10), `{"range":{"rowCount":{"gte":1,"lte":10}}}`},
		{"gt", n.Gt(5), `{"range":{"rowCount":{"gt":5}}}`},
		{"bool term", b.Eq(true), `{"term":{"isPrimary":{"value":true}}}`},
		{"match", NewTextField("description", "description").Match("sales"), `{"match":{"description":{"query":"sales"}}}`},
		{"match all", MatchAll{}, `{"match_all":{}}`},
		{"not", Not(f.Eq("X")), `{"bool":{"must_not":[{"term":{"name.keyword":{"value":"X"}}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toJSON(t, tt.query.Source()); got != tt.want {
				t.Errorf("Source() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOr(t *testing.T) {
	got := toJSON(t, WithAtlanTag("aB3").Source())
	want := `{"bool":{"minimum_should_match":1,"should":[{"term":{"__traitNames":{"value":"aB3"}}},{"term":{"__propagatedTraitNames":{"value":"aB3"}}}]}}`
	if got != want {
		t.Errorf("WithAtlanTag() = %s", got)
	}
}

func TestSortAndAggregation(t *testing.T) {
	if got := toJSON(t, GUIDSort()); got != `{"__guid":{"order":"asc"}}` {
		t.Errorf("GUIDSort() = %s", got)
	}
	desc := NewNumericField("x", "x").Order(model.Descending)
	if got := toJSON(t, desc); got != `{"x":{"order":"desc"}}` {
		t.Errorf("Order() = %s", got)
	}
	if got := toJSON(t, Aggregation{Field: "__typeName.keyword", Size: 5}); got != `{"terms":{"field":"__typeName.keyword","size":5}}` {
		t.Errorf("Aggregation = %s", got)
	}
}

func TestFluentSearchToRequest(t *testing.T) {
	name := NewKeywordTextField("name", "name.keyword", "name")
	req, err := NewFluentSearch().
		Where(AssetType("Table")).
		Where(ActiveAssets()).
		WhereNot(name.StartsWith("TMP_", true)).
		WhereSome(name.Eq("A")).
		WhereSome(name.Eq("B")).
		PageSize(25).
		Sort(name.Order(model.Ascending)).
		IncludeOnResults(name, RelationField{Name: "columns"}).
		Aggregate("types", typeNameField, 10).
		ToRequest()
	if err != nil {
		t.Fatalf("ToRequest() error: %v", err)
	}

	if req.DSL.Size != 25 || req.DSL.From != 0 {
		t.Errorf("paging = %d/%d", req.DSL.From, req.DSL.Size)
	}
	if len(req.Attributes) != 2 || req.Attributes[1] != "columns" {
		t.Errorf("Attributes = %v", req.Attributes)
	}

	body := toJSON(t, req)
	for _, want := range []string{
		`"filter":[{"term":{"__typeName.keyword":{"value":"Table"}}},{"term":{"__state":{"value":"ACTIVE"}}}]`,
		`"must_not":[{"prefix":{"name.keyword":{"case_insensitive":true,"value":"TMP_"}}}]`,
		`"minimum_should_match":1`,
		`"aggregations":{"types":{"terms":{"field":"__typeName.keyword","size":10}}}`,
		`"track_total_hits":true`,
		`"suppressLogs":true`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("request missing %s\n%s", want, body)
		}
	}
}

func TestFluentSearchEmptyIsMatchAll(t *testing.T) {
	req, err := NewFluentSearch().ToRequest()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := req.DSL.Query.(MatchAll); !ok {
		t.Errorf("Query = %T, want MatchAll", req.DSL.Query)
	}
	if req.DSL.Size != DefaultPageSize {
		t.Errorf("Size = %d", req.DSL.Size)
	}
}

func TestFluentSearchValidation(t *testing.T) {
	for _, size := range []int{0, -1, MaxPageSize + 1} {
		_, err := NewFluentSearch().PageSize(size).ToRequest()
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("PageSize(%d) error = %v", size, err)
		}
	}
	if _, err := NewFluentSearch().PageSize(MaxPageSize).ToRequest(); err != nil {
		t.Errorf("PageSize(max) error = %v", err)
	}
	_, err := NewFluentSearch().WhereSome(AssetType("A")).MinSomes(2).ToRequest()
	if err == nil {
		t.Error("MinSomes above optional count should fail")
	}
}

func TestIndexSearchResponse(t *testing.T) {
	data := `{
		"approximateCount": 2,
		"entities": [{"typeName":"Table","guid":"t1","attributes":{"name":"A"}}],
		"aggregations": {"types": {"buckets": [{"key":"Table","doc_count":2}], "sum_other_doc_count": 0}}
	}`
	var resp IndexSearchResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ApproximateCount != 2 || len(resp.Entities) != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Aggregations["types"].Buckets[0].DocCount != 2 {
		t.Errorf("aggregations = %+v", resp.Aggregations)
	}
}

func ExampleFluentSearch() {
	name := NewKeywordTextField("name", "name.keyword", "name")
	req, _ := NewFluentSearch().
		Where(AssetType("Table")).
		Where(name.Eq("ORDERS")).
		PageSize(10).
		ToRequest()

	q, _ := MarshalQuery(req.DSL.Query)
	fmt.Println(string(q))
	// Output: {"bool":{"filter":[{"term":{"__typeName.keyword":{"value":"Table"}}},{"term":{"name.keyword":{"value":"ORDERS"}}}]}}
}
