package snapshot

import (
	"bytes"
	"context"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

func table(t *testing.T, guid, name string, edit func(*model.Table)) model.Entity {
	t.Helper()
	tbl, err := model.NewTable(name, "default/snowflake/1700000000/DB/SCHEMA")
	if err != nil {
		t.Fatal(err)
	}
	tbl.GUID = guid
	tbl.Status = model.StatusActive
	if edit != nil {
		edit(tbl)
	}
	return tbl
}

func TestFromEntities(t *testing.T) {
	s := FromEntities("nightly", []model.Entity{
		table(t, "g2", "ORDERS", func(tb *model.Table) {
			tb.Attrs().OwnerUsers = []string{"zoe", "adam"}
			tb.Classifications = []model.AtlanTag{{TypeName: "tagBhashed"}, {TypeName: "tagAhashed"}}
		}),
		table(t, "g1", "CUSTOMERS", nil),
		table(t, "", "UNSAVED", nil),
	})

	if s.ID == "" || s.Name != "nightly" || s.Count != 2 {
		t.Fatalf("FromEntities() = %+v", s)
	}
	if s.Records[0].Name != "CUSTOMERS" || s.Records[1].Name != "ORDERS" {
		t.Errorf("records not ordered by qualified name: %v, %v", s.Records[0].Name, s.Records[1].Name)
	}
	orders := s.Records[1]
	if !slices.Equal(orders.OwnerUsers, []string{"adam", "zoe"}) {
		t.Errorf("OwnerUsers = %v", orders.OwnerUsers)
	}
	if !slices.Equal(orders.AtlanTags, []string{"tagAhashed", "tagBhashed"}) {
		t.Errorf("AtlanTags = %v", orders.AtlanTags)
	}
}

func TestDiff(t *testing.T) {
	before := FromEntities("a", []model.Entity{
		table(t, "g1", "CUSTOMERS", nil),
		table(t, "g2", "ORDERS", nil),
		table(t, "g3", "LEGACY", nil),
	})
	after := FromEntities("b", []model.Entity{
		table(t, "g1", "CUSTOMERS", func(tb *model.Table) { tb.UpdateTime = 42 }),
		table(t, "g2", "ORDERS", func(tb *model.Table) {
			model.SetCertificate(tb, model.CertificateVerified, "")
			tb.Attrs().OwnerGroups = []string{"finance"}
		}),
		table(t, "g4", "PAYMENTS", nil),
	})

	c := Diff(before, after)
	if len(c.Added) != 1 || c.Added[0].GUID != "g4" {
		t.Errorf("Added = %v", c.Added)
	}
	if len(c.Removed) != 1 || c.Removed[0].GUID != "g3" {
		t.Errorf("Removed = %v", c.Removed)
	}
	if len(c.Changed) != 1 {
		t.Fatalf("Changed = %v, want only ORDERS", c.Changed)
	}
	if got := c.Changed[0].Fields; !slices.Equal(got, []string{"certificateStatus", "ownerGroups"}) {
		t.Errorf("Fields = %v", got)
	}
	if !Diff(after, after).Empty() {
		t.Error("Diff(s, s) is not empty")
	}
}

func TestYAML(t *testing.T) {
	s := FromEntities("nightly", []model.Entity{table(t, "g1", "CUSTOMERS", nil)})
	var buf bytes.Buffer
	if err := s.WriteYAML(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadYAML(&buf)
	if err != nil {
		t.Fatalf("ReadYAML() error: %v", err)
	}
	if got.ID != s.ID || got.Count != 1 || got.Records[0].QualifiedName != s.Records[0].QualifiedName {
		t.Errorf("ReadYAML() = %+v", got)
	}
	if _, err := ReadYAML(bytes.NewBufferString("name: x\n")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ReadYAML(no id) error = %v", err)
	}
}

// testStore runs the Store contract against s.
func testStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first := FromEntities("nightly", []model.Entity{table(t, "g1", "CUSTOMERS", nil)})
	first.TakenAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := FromEntities("nightly", nil)
	second.TakenAt = first.TakenAt.Add(24 * time.Hour)
	other := FromEntities("release", nil)
	other.TakenAt = first.TakenAt.Add(-time.Hour)

	for _, snap := range []*Snapshot{first, second, other} {
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	got, err := s.Load(ctx, first.ID)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got.Records) != 1 || got.Records[0].GUID != "g1" {
		t.Errorf("Load() records = %v", got.Records)
	}
	if _, err := s.Load(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load(missing) error = %v", err)
	}

	sums, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, sum := range sums {
		ids = append(ids, sum.ID)
	}
	if !slices.Equal(ids, []string{second.ID, first.ID, other.ID}) {
		t.Errorf("List() ids = %v, want most recent first", ids)
	}

	for ref, want := range map[string]string{
		first.ID:     first.ID,
		first.ID[:8]: first.ID,
		"nightly":    second.ID,
		"release":    other.ID,
	} {
		snap, err := Resolve(ctx, s, ref)
		if err != nil || snap.ID != want {
			t.Errorf("Resolve(%q) = %v, %v; want %s", ref, snap, err, want)
		}
	}
	if _, err := Resolve(ctx, s, "weekly"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Resolve(unknown) error = %v", err)
	}

	if err := s.Delete(ctx, other.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, other.ID); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(again) error = %v", err)
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	testStore(t, s)

	if err := s.Save(context.Background(), &Snapshot{ID: "../escape"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(bad id) error = %v", err)
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ATLAN_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ATLAN_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{URI: uri, Database: "atlan_test", Collection: "snapshots_" + time.Now().Format("150405.000000")})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close()
	})
	testStore(t, s)
}

func TestNewMongoStoreConfig(t *testing.T) {
	_, err := NewMongoStore(context.Background(), MongoConfig{URI: "mongodb://localhost"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewMongoStore(no database) error = %v", err)
	}
}
