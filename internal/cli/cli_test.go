package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/atlan-go/pkg/atlantest"
	"github.com/matzehuels/atlan-go/pkg/config"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/lineage"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/snapshot"
)

const schemaQN = "default/snowflake/1700000000/DB/SALES"

// quiet discards status output for the rest of the test.
func quiet(t *testing.T) {
	t.Helper()
	prev := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = prev })
}

// tenant starts a fake tenant and points the environment at it, with
// config and cache directories private to the test.
func tenant(t *testing.T) *atlantest.Server {
	t.Helper()
	quiet(t)
	srv := atlantest.New(t)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("ATLAN_BASE_URL", srv.URL)
	t.Setenv("ATLAN_API_KEY", atlantest.APIKey)
	t.Setenv(config.EnvProfile, "")
	t.Setenv(envRedisAddr, "")
	t.Setenv(envSnapshotMongoURI, "")
	return srv
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("atlan %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func addTable(t *testing.T, srv *atlantest.Server, name string, cert model.CertificateStatus) string {
	t.Helper()
	tbl, err := model.NewTable(name, schemaQN)
	if err != nil {
		t.Fatal(err)
	}
	tbl.Attrs().CertificateStatus = cert
	return srv.AddEntity(tbl)
}

func TestOutputFormat(t *testing.T) {
	tenant(t)
	_, err := execute(t, "roles", "-o", "xml")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
}

func TestWriteYAMLNumbers(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"count": 3, "ratio": 0.5, "name": "orders"}
	if err := writeYAML(&buf, v); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"count: 3\n", "ratio: 0.5\n", "name: orders\n"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("yaml output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestConfigCommands(t *testing.T) {
	quiet(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("ATLAN_BASE_URL", "")
	t.Setenv("ATLAN_API_KEY", "")
	t.Setenv(config.EnvProfile, "")

	mustExecute(t, "--config", path, "config", "set", "Prod", "--url", "https://acme.atlan.com", "--api-key", "prod-key-0123456789")
	mustExecute(t, "--config", path, "config", "set", "dev", "--url", "https://dev.atlan.com", "--api-key", "dev-key-0123456789")

	f, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Default != "prod" {
		t.Errorf("default = %q, want the first profile", f.Default)
	}

	mustExecute(t, "--config", path, "config", "use", "dev")
	out := mustExecute(t, "--config", path, "config", "show", "-o", "json")
	var views []profileView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(views) != 2 || views[0].Name != "dev" || !views[0].Default {
		t.Fatalf("profiles = %+v", views)
	}
	if strings.Contains(out, "prod-key-0123456789") {
		t.Error("config show printed an unmasked key")
	}

	if _, err := execute(t, "--config", path, "config", "use", "staging"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("use unknown profile: err = %v, want NOT_FOUND", err)
	}
	if _, err := execute(t, "--config", path, "config", "set", "bad", "--url", "ftp://x", "--api-key", "k"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("set bad url: err = %v, want INVALID_CONFIG", err)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "****"},
		{"short", "****"},
		{"abcd0123456789wxyz", "abcd…wxyz"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWhoami(t *testing.T) {
	srv := tenant(t)
	srv.SetCurrentUser(model.UserMinimalResponse{Username: "jdoe", Email: "jdoe@acme.com"})

	out := mustExecute(t, "whoami", "-o", "json")
	var id identity
	if err := json.Unmarshal([]byte(out), &id); err != nil {
		t.Fatal(err)
	}
	if id.User == nil || id.User.Username != "jdoe" || id.BaseURL != srv.URL {
		t.Errorf("identity = %+v", id)
	}

	srv.APIKey = "other"
	if _, err := execute(t, "whoami"); !errors.Is(err, errors.ErrCodeAuthentication) {
		t.Errorf("wrong key: err = %v, want AUTHENTICATION", err)
	}
}

func TestAssetCommands(t *testing.T) {
	srv := tenant(t)
	orders := addTable(t, srv, "ORDERS", model.CertificateVerified)
	addTable(t, srv, "CUSTOMERS", model.CertificateDraft)
	addTable(t, srv, "RETURNS", model.CertificateVerified)

	out := mustExecute(t, "asset", "search", "-t", "Table", "--certificate", "verified", "-o", "json")
	var found []map[string]any
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(found) != 2 {
		t.Errorf("found %d verified tables, want 2", len(found))
	}

	out = mustExecute(t, "asset", "search", "-t", "Table", "--limit", "1", "-o", "json")
	if err := json.Unmarshal([]byte(out), &found); err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 {
		t.Errorf("--limit 1 returned %d assets", len(found))
	}

	if _, err := execute(t, "asset", "search", "--certificate", "gold"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad certificate: err = %v, want INVALID_INPUT", err)
	}

	out = mustExecute(t, "asset", "get", orders)
	if !strings.Contains(out, "ORDERS") || !strings.Contains(out, schemaQN+"/ORDERS") {
		t.Errorf("asset get output:\n%s", out)
	}
	out = mustExecute(t, "asset", "get", "-t", "Table", "-q", schemaQN+"/ORDERS", "-o", "yaml")
	if !strings.Contains(out, "guid: "+orders) {
		t.Errorf("asset get yaml:\n%s", out)
	}
	if _, err := execute(t, "asset", "get"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("get without ref: err = %v, want INVALID_INPUT", err)
	}

	mustExecute(t, "asset", "certify", "deprecated", "-t", "Table", "-q", schemaQN+"/ORDERS", "--name", "ORDERS", "-m", "replaced")
	e, _ := srv.Entity(orders)
	if got := e["attributes"].(map[string]any)["certificateStatus"]; got != string(model.CertificateDeprecated) {
		t.Errorf("certificate after certify = %v", got)
	}

	mustExecute(t, "asset", "delete", orders)
	e, _ = srv.Entity(orders)
	if e["status"] != string(model.StatusDeleted) {
		t.Errorf("status after delete = %v", e["status"])
	}
	mustExecute(t, "asset", "restore", orders)
	e, _ = srv.Entity(orders)
	if e["status"] != string(model.StatusActive) {
		t.Errorf("status after restore = %v", e["status"])
	}
	if _, err := execute(t, "asset", "delete", "--mode", "shred", orders); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad delete mode: err = %v, want INVALID_INPUT", err)
	}
}

func TestLineageCommands(t *testing.T) {
	srv := tenant(t)
	src := addTable(t, srv, "RAW", "")
	dst := addTable(t, srv, "CLEAN", "")
	const proc = "0f0f0f0f-0000-4000-8000-000000000001"

	srv.SetLineage(src, map[string]any{
		"baseEntityGuid":   src,
		"lineageDirection": "BOTH",
		"guidEntityMap": map[string]any{
			src:  map[string]any{"typeName": "Table", "guid": src, "attributes": map[string]any{"name": "RAW", "qualifiedName": schemaQN + "/RAW"}},
			proc: map[string]any{"typeName": "Process", "guid": proc, "attributes": map[string]any{"name": "etl", "qualifiedName": "etl"}},
			dst:  map[string]any{"typeName": "Table", "guid": dst, "attributes": map[string]any{"name": "CLEAN", "qualifiedName": schemaQN + "/CLEAN"}},
		},
		"relations": []lineage.Relation{
			{FromEntityID: src, ToEntityID: proc},
			{FromEntityID: proc, ToEntityID: dst},
		},
	})

	out := mustExecute(t, "lineage", "graph", src, "-o", "json")
	var rows []lineageRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(rows) != 1 || rows[0].GUID != dst || rows[0].Direction != "downstream" {
		t.Errorf("rows = %+v", rows)
	}

	out = mustExecute(t, "lineage", "graph", src, "--with-process", "-o", "json")
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("with processes: %d rows, want 2", len(rows))
	}

	out = mustExecute(t, "lineage", "graph", src, "--dot")
	if !strings.HasPrefix(out, "digraph lineage {") || !strings.Contains(out, "shape=ellipse") {
		t.Errorf("dot output:\n%s", out)
	}

	if _, err := execute(t, "lineage", "graph", src, "--direction", "sideways"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad direction: err = %v, want INVALID_INPUT", err)
	}
}

func TestUserAndGroupCommands(t *testing.T) {
	srv := tenant(t)
	srv.AddRole(model.AtlanRole{ID: "role-member", Name: "$member"})
	srv.AddRole(model.AtlanRole{ID: "role-admin", Name: "$admin"})
	jdoe := srv.AddUser(model.AtlanUser{Username: "jdoe", Email: "jdoe@acme.com", FirstName: "Jane", LastName: "Doe"})
	srv.AddUser(model.AtlanUser{Username: "asmith", Email: "asmith@acme.com"})
	g, _ := model.NewGroup("Data Stewards", "")
	srv.AddGroup(*g, jdoe)

	out := mustExecute(t, "users", "list", "-o", "json")
	var users []model.AtlanUser
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Errorf("listed %d users, want 2", len(users))
	}

	out = mustExecute(t, "users", "get", "jdoe")
	if !strings.Contains(out, "Jane Doe") || !strings.Contains(out, "Data Stewards") {
		t.Errorf("users get output:\n%s", out)
	}

	out = mustExecute(t, "groups", "members", "Data Stewards", "-o", "json")
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Username != "jdoe" {
		t.Errorf("members = %+v", users)
	}

	out = mustExecute(t, "roles", "-o", "json")
	var roles []model.AtlanRole
	if err := json.Unmarshal([]byte(out), &roles); err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 || roles[0].Name != "$admin" {
		t.Errorf("roles = %+v", roles)
	}

	if _, err := execute(t, "users", "invite", "new@acme.com", "--role", "owner"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad role: err = %v, want INVALID_INPUT", err)
	}
}

func TestTagsCommand(t *testing.T) {
	srv := tenant(t)
	srv.AddTagDef("PII")
	srv.AddTagDef("Confidential")

	out := mustExecute(t, "tags", "-o", "json")
	var defs []model.AtlanTagDef
	if err := json.Unmarshal([]byte(out), &defs); err != nil {
		t.Fatal(err)
	}
	if len(defs) != 2 || defs[0].DisplayName != "Confidential" {
		t.Errorf("tags = %+v", defs)
	}
}

func TestSnapshotCommands(t *testing.T) {
	srv := tenant(t)
	addTable(t, srv, "ORDERS", model.CertificateVerified)
	addTable(t, srv, "CUSTOMERS", "")

	mustExecute(t, "snapshot", "take", "before", "-t", "Table")
	mustExecute(t, "asset", "certify", "draft", "-t", "Table", "-q", schemaQN+"/CUSTOMERS", "--name", "CUSTOMERS")
	addTable(t, srv, "RETURNS", "")
	mustExecute(t, "snapshot", "take", "after", "-t", "Table")

	out := mustExecute(t, "snapshot", "list", "-o", "json")
	var sums []snapshot.Summary
	if err := json.Unmarshal([]byte(out), &sums); err != nil {
		t.Fatal(err)
	}
	if len(sums) != 2 || sums[0].Name != "after" || sums[0].Count != 3 {
		t.Fatalf("summaries = %+v", sums)
	}

	out = mustExecute(t, "snapshot", "diff", "before", "after", "-o", "json")
	var changes snapshot.Changes
	if err := json.Unmarshal([]byte(out), &changes); err != nil {
		t.Fatal(err)
	}
	if len(changes.Added) != 1 || changes.Added[0].Name != "RETURNS" {
		t.Errorf("added = %+v", changes.Added)
	}
	if len(changes.Changed) != 1 || changes.Changed[0].Fields[0] != "certificateStatus" {
		t.Errorf("changed = %+v", changes.Changed)
	}

	out = mustExecute(t, "snapshot", "diff", "before", "after")
	if !strings.Contains(out, schemaQN+"/RETURNS") || !strings.Contains(out, "certificateStatus") {
		t.Errorf("diff output:\n%s", out)
	}

	file := filepath.Join(t.TempDir(), "before.yaml")
	mustExecute(t, "snapshot", "export", "before", "-f", file)
	mustExecute(t, "snapshot", "delete", "before")
	if _, err := execute(t, "snapshot", "diff", "before", "after"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("diff deleted snapshot: err = %v, want NOT_FOUND", err)
	}
	mustExecute(t, "snapshot", "import", file)
	mustExecute(t, "snapshot", "diff", "before", "after")

	if _, err := os.Stat(file); err != nil {
		t.Errorf("export file: %v", err)
	}
}
