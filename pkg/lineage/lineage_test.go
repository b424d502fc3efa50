package lineage

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/search/fields"
)

// testGraph is src -> p1 -> mid, then mid -> p2 -> out1 and mid -> p3 -> out2.
func testGraph() *Graph {
	g := NewGraph()
	g.AddEdge("src", "p1")
	g.AddEdge("p1", "mid")
	g.AddEdge("mid", "p2")
	g.AddEdge("p2", "out1")
	g.AddEdge("mid", "p3")
	g.AddEdge("p3", "out2")
	for _, p := range []string{"p1", "p2", "p3"} {
		g.MarkProcess(p)
	}
	return g
}

func TestGraphTraversal(t *testing.T) {
	g := testGraph()

	tests := []struct {
		name string
		got  []string
		want []string
	}{
		{"downstream", g.Downstream("mid"), []string{"p2", "p3"}},
		{"upstream", g.Upstream("mid"), []string{"p1"}},
		{"all downstream", g.AllDownstreamDFS("src"), []string{"p1", "mid", "p2", "out1", "p3", "out2"}},
		{"all upstream", g.AllUpstreamDFS("out2"), []string{"p3", "mid", "p1", "src"}},
		{"downstream assets dfs", g.AllDownstreamAssetsDFS("src"), []string{"mid", "out1", "out2"}},
		{"upstream assets dfs", g.AllUpstreamAssetsDFS("out1"), []string{"mid", "src"}},
		{"downstream assets", g.DownstreamAssets("mid"), []string{"out1", "out2"}},
		{"upstream assets", g.UpstreamAssets("mid"), []string{"src"}},
		{"downstream processes", g.DownstreamProcesses("mid"), []string{"p2", "p3"}},
		{"upstream processes", g.UpstreamProcesses("src"), nil},
		{"unknown", g.AllDownstreamDFS("nope"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !slices.Equal(tt.got, tt.want) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestGraphCycleAndDuplicates(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")
	g.AddEdge("a", "a")

	if g.Len() != 3 {
		t.Errorf("Len() = %d, want 3", g.Len())
	}
	if len(g.Edges()) != 3 {
		t.Errorf("Edges() = %v, want 3 edges", g.Edges())
	}
	if got := g.AllDownstreamDFS("a"); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("AllDownstreamDFS(a) = %v, want [b c]", got)
	}
	if !g.Has("c") || g.Has("d") {
		t.Error("Has() mismatch")
	}
}

func TestGraphNeighboursAreCopies(t *testing.T) {
	g := testGraph()
	down := g.Downstream("mid")
	down[0] = "changed"
	if g.Downstream("mid")[0] != "p2" {
		t.Error("Downstream() exposed internal slice")
	}
}

const (
	guidTable   = "11111111-1111-1111-1111-111111111111"
	guidProcess = "22222222-2222-2222-2222-222222222222"
	guidView    = "33333333-3333-3333-3333-333333333333"
)

var responseJSON = fmt.Sprintf(`{
  "baseEntityGuid": %[1]q,
  "lineageDirection": "BOTH",
  "lineageDepth": 1000000,
  "guidEntityMap": {
    %[1]q: {"typeName": "Table", "guid": %[1]q, "attributes": {"name": "ORDERS", "qualifiedName": "default/snowflake/1/DB/S/ORDERS"}},
    %[2]q: {"typeName": "Process", "guid": %[2]q, "attributes": {"name": "orders_to_view"}},
    %[3]q: {"typeName": "View", "guid": %[3]q, "attributes": {"name": "ORDERS_V"}}
  },
  "relations": [
    {"fromEntityId": %[1]q, "toEntityId": %[2]q, "relationshipId": "r1"},
    {"fromEntityId": %[2]q, "toEntityId": %[3]q, "relationshipId": "r2"}
  ]
}`, guidTable, guidProcess, guidView)

func decodeResponse(t *testing.T) *Response {
	t.Helper()
	var r Response
	if err := json.Unmarshal([]byte(responseJSON), &r); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	return &r
}

func guids(es []model.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Header().GUID
	}
	return out
}

func TestResponseHelpers(t *testing.T) {
	r := decodeResponse(t)

	if !r.Graph().IsProcess(guidProcess) {
		t.Fatal("process entity was not marked")
	}
	if got := guids(r.AllDownstreamAssetsDFS("")); !slices.Equal(got, []string{guidView}) {
		t.Errorf("AllDownstreamAssetsDFS() = %v", got)
	}
	if got := guids(r.AllDownstreamDFS("")); !slices.Equal(got, []string{guidProcess, guidView}) {
		t.Errorf("AllDownstreamDFS() = %v", got)
	}
	if got := guids(r.UpstreamAssets(guidView)); !slices.Equal(got, []string{guidTable}) {
		t.Errorf("UpstreamAssets() = %v", got)
	}
	if got := guids(r.UpstreamProcesses(guidView)); !slices.Equal(got, []string{guidProcess}) {
		t.Errorf("UpstreamProcesses() = %v", got)
	}
	if _, ok := r.Entity(guidView); !ok {
		t.Error("Entity() missing view")
	}
	if r.Graph() != r.Graph() {
		t.Error("Graph() rebuilt on each call")
	}
}

func TestResponseGraphOrderIsStable(t *testing.T) {
	build := func() *Response {
		r := &Response{BaseEntityGUID: "b", GUIDEntityMap: model.EntityMap{}}
		for _, id := range []string{"p6", "p2", "p4", "p1", "p5", "p3"} {
			r.GUIDEntityMap[id] = &model.Process{EntityHeader: model.EntityHeader{TypeName: model.TypeProcess, GUID: id}}
		}
		r.GUIDEntityMap["t1"] = &model.Table{EntityHeader: model.EntityHeader{TypeName: model.TypeTable, GUID: "t1"}}
		r.Relations = []Relation{{FromEntityID: "t1", ToEntityID: "p3"}}
		return r
	}

	want := []string{"b", "t1", "p3", "p1", "p2", "p4", "p5", "p6"}
	first := build()
	if got := first.Graph().Nodes(); !slices.Equal(got, want) {
		t.Fatalf("Nodes() = %v, want %v", got, want)
	}
	if !first.Graph().IsProcess("p6") || first.Graph().IsProcess("t1") {
		t.Error("process flags not set from entity types")
	}
	dot := ToDOT(first)
	for i := 0; i < 20; i++ {
		r := build()
		if got := r.Graph().Nodes(); !slices.Equal(got, want) {
			t.Fatalf("build %d: Nodes() = %v, want %v", i, got, want)
		}
		if got := ToDOT(r); got != dot {
			t.Fatalf("build %d: ToDOT() differs:\n%s\nvs\n%s", i, got, dot)
		}
	}
}

func TestMarkProcessDoesNotAddNode(t *testing.T) {
	g := NewGraph()
	g.MarkProcess("p")
	if g.Has("p") || g.Len() != 0 {
		t.Errorf("MarkProcess added a node: %v", g.Nodes())
	}
	g.AddEdge("a", "p")
	if !g.IsProcess("p") {
		t.Error("flag lost once the node was added")
	}
}

func TestResponseGraphConcurrent(t *testing.T) {
	r := decodeResponse(t)
	var wg sync.WaitGroup
	graphs := make([]*Graph, 8)
	for i := range graphs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			graphs[i] = r.Graph()
		}()
	}
	wg.Wait()
	for i, g := range graphs {
		if g != graphs[0] {
			t.Fatalf("goroutine %d got a different graph", i)
		}
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"default", NewRequest(guidTable), false},
		{"bad guid", NewRequest("abc"), true},
		{"zero depth", Request{GUID: guidTable, Direction: model.LineageBoth}, true},
		{"bad direction", Request{GUID: guidTable, Depth: 1, Direction: "SIDEWAYS"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Validate() code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestFluentLineage(t *testing.T) {
	req, err := NewFluentLineage(guidTable).
		Direction(model.Upstream).
		Size(50).
		WhereAssets(TypeFilter(model.TypeTable), ActiveFilter()).
		IncludeInTraversal(Filter("connectorName", OpEquals, "snowflake")).
		IncludeOnResults(fields.Name, fields.OwnerUsers).
		ToRequest()
	if err != nil {
		t.Fatalf("ToRequest() error: %v", err)
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got := string(data)
	for _, want := range []string{
		`"direction":"UPSTREAM"`,
		`"size":50`,
		`"entityFilters":{"condition":"AND","criterion":[{"attributeName":"__typeName","operator":"eq","attributeValue":"Table"}`,
		`"entityTraversalFilters":{"condition":"AND"`,
		`"attributes":["name","ownerUsers"]`,
		`"excludeMeanings":true`,
		`"excludeClassifications":true`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("request %s missing %s", got, want)
		}
	}
}

func TestFluentLineageInvalid(t *testing.T) {
	if _, err := NewFluentLineage(guidTable).Size(0).ToRequest(); err == nil {
		t.Error("expected error for size 0")
	}
	if _, err := NewFluentLineage(guidTable).Size(MaxListSize + 1).ToRequest(); err == nil {
		t.Error("expected error for oversized page")
	}
	if _, err := NewFluentLineage("").ToRequest(); err == nil {
		t.Error("expected error for empty guid")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(decodeResponse(t))

	for _, want := range []string{
		"digraph lineage {",
		"rankdir=LR;",
		fmt.Sprintf("%q -> %q;", guidTable, guidProcess),
		fmt.Sprintf("%q -> %q;", guidProcess, guidView),
		`label="ORDERS\nTable"`,
		"shape=ellipse",
		"penwidth=2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}

func ExampleGraph_AllDownstreamAssetsDFS() {
	g := NewGraph()
	g.AddEdge("raw", "load")
	g.AddEdge("load", "staging")
	g.AddEdge("staging", "transform")
	g.AddEdge("transform", "mart")
	g.MarkProcess("load")
	g.MarkProcess("transform")

	fmt.Println(g.AllDownstreamAssetsDFS("raw"))
	// Output: [staging mart]
}
