package atlan_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/lineage"
	"github.com/matzehuels/atlan-go/pkg/model"
)

const (
	sourceGUID  = "11111111-1111-1111-1111-111111111111"
	processGUID = "22222222-2222-2222-2222-222222222222"
	targetGUID  = "33333333-3333-3333-3333-333333333333"
)

func TestLineageGet(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	srv.SetLineage(sourceGUID, map[string]any{
		"baseEntityGuid":   sourceGUID,
		"lineageDirection": "BOTH",
		"lineageDepth":     lineage.DefaultDepth,
		"guidEntityMap": map[string]any{
			sourceGUID:  map[string]any{"typeName": "Table", "guid": sourceGUID, "attributes": map[string]any{"name": "RAW"}},
			processGUID: map[string]any{"typeName": "Process", "guid": processGUID, "attributes": map[string]any{"name": "dbt run"}},
			targetGUID:  map[string]any{"typeName": "View", "guid": targetGUID, "attributes": map[string]any{"name": "CLEAN"}},
		},
		"relations": []map[string]string{
			{"fromEntityId": sourceGUID, "toEntityId": processGUID},
			{"fromEntityId": processGUID, "toEntityId": targetGUID},
		},
	})

	resp, err := c.Lineage.Get(ctx, lineage.NewRequest(sourceGUID))
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	down := resp.DownstreamAssets("")
	if len(down) != 1 || down[0].Header().GUID != targetGUID {
		t.Errorf("DownstreamAssets() = %v", down)
	}
	if _, ok := resp.Entity(targetGUID); !ok {
		t.Error("target missing from entity map")
	}

	_, err = c.Lineage.Get(ctx, lineage.NewRequest(targetGUID))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(no lineage) error = %v, want NOT_FOUND", err)
	}
}

func TestLineageList(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	var related []model.Entity
	for i := range 5 {
		tbl := newTable(t, fmt.Sprintf("DOWN%d", i))
		tbl.GUID = fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i)
		related = append(related, tbl)
	}
	srv.SetLineageList(sourceGUID, related...)

	req, err := lineage.NewFluentLineage(sourceGUID).Size(2).ToRequest()
	if err != nil {
		t.Fatal(err)
	}
	p, err := c.Lineage.List(ctx, *req)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(p.Current()) != 2 {
		t.Errorf("first page = %d, want 2", len(p.Current()))
	}
	all, err := p.Collect(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 || p.Total() != 5 {
		t.Errorf("Collect() = %d entities, total %d; want 5", len(all), p.Total())
	}
	if n := srv.Calls("POST /api/meta/lineage/list"); n != 3 {
		t.Errorf("lineage list calls = %d, want 3", n)
	}

	if _, err := c.Lineage.List(ctx, lineage.ListRequest{GUID: sourceGUID}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("List(invalid) error = %v", err)
	}
}
