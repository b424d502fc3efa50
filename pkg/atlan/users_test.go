package atlan_test

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/matzehuels/atlan-go/pkg/atlan"
	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

func seedRoles(srv interface{ AddRole(model.AtlanRole) }) {
	srv.AddRole(model.AtlanRole{ID: "role-admin", Name: string(model.RoleAdmin)})
	srv.AddRole(model.AtlanRole{ID: "role-member", Name: string(model.RoleMember)})
	srv.AddRole(model.AtlanRole{ID: "role-guest", Name: string(model.RoleGuest)})
}

func TestUsersList(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	for i := range 7 {
		srv.AddUser(model.AtlanUser{Username: fmt.Sprintf("user%d", i), Email: fmt.Sprintf("user%d@acme.com", i)})
	}
	srv.AddUser(model.AtlanUser{Username: "jdoe", Email: "jane.doe@example.org", FirstName: "Jane", LastName: "Doe"})

	p := c.Users.List(atlan.ListOptions{Limit: 3})
	var pages int
	for p.Next(ctx) {
		pages++
	}
	if err := p.Err(); err != nil {
		t.Fatal(err)
	}
	if pages != 3 || p.Total() != 8 {
		t.Errorf("pages = %d, total = %d; want 3 and 8", pages, p.Total())
	}

	u, err := c.Users.GetByUsername(ctx, "jdoe")
	if err != nil {
		t.Fatalf("GetByUsername() error: %v", err)
	}
	if u.FullName() != "Jane Doe" {
		t.Errorf("FullName() = %q", u.FullName())
	}
	if _, err := c.Users.GetByUsername(ctx, "nobody"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByUsername(missing) error = %v", err)
	}

	matches, err := c.Users.GetByEmail(ctx, "ACME.com")
	if err != nil {
		t.Fatalf("GetByEmail() error: %v", err)
	}
	if len(matches) != 7 {
		t.Errorf("GetByEmail() = %d users, want 7", len(matches))
	}
}

func TestUsersCreateAndChangeRole(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	seedRoles(srv)

	err := c.Users.Create(ctx,
		atlan.Invite{Email: "new@acme.com", Role: model.RoleMember},
		atlan.Invite{Email: "guest@acme.com", Role: model.RoleGuest},
	)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	u, err := c.Users.GetByUsername(ctx, "new@acme.com")
	if err != nil {
		t.Fatal(err)
	}
	if u.WorkspaceRole != string(model.RoleMember) {
		t.Errorf("WorkspaceRole = %q", u.WorkspaceRole)
	}

	if err := c.Users.ChangeRole(ctx, u.ID, model.RoleAdmin); err != nil {
		t.Fatalf("ChangeRole() error: %v", err)
	}
	if stored, _ := srv.User(u.ID); stored.WorkspaceRole != string(model.RoleAdmin) {
		t.Errorf("role after change = %q", stored.WorkspaceRole)
	}

	if err := c.Users.Create(ctx, atlan.Invite{Email: "x@acme.com", Role: "$owner"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Create(invalid role) error = %v", err)
	}
	if err := c.Users.Create(ctx); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Create() with no users error = %v", err)
	}
	if n := srv.Calls("GET /api/service/roles"); n != 1 {
		t.Errorf("role listings = %d, want 1", n)
	}
}

func TestUsersUpdateAndGroups(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	id := srv.AddUser(model.AtlanUser{Username: "jdoe"})
	g1 := srv.AddGroup(model.AtlanGroup{Name: "data_team"})
	g2 := srv.AddGroup(model.AtlanGroup{Name: "finance"})

	u, err := c.Users.Update(ctx, id, model.AtlanUser{FirstName: "Jane"})
	if err != nil || u.FirstName != "Jane" {
		t.Fatalf("Update() = %v, %v", u, err)
	}
	if err := c.Users.AddToGroups(ctx, id, g1, g2); err != nil {
		t.Fatalf("AddToGroups() error: %v", err)
	}
	groups, err := c.Users.GetGroups(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Errorf("GetGroups() = %d groups, want 2", len(groups))
	}

	me := model.UserMinimalResponse{Username: "jdoe", Email: "jane@acme.com"}
	srv.SetCurrentUser(me)
	cur, err := c.Users.GetCurrent(ctx)
	if err != nil || cur.Username != "jdoe" {
		t.Errorf("GetCurrent() = %v, %v", cur, err)
	}
}

func TestGroups(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()
	alice := srv.AddUser(model.AtlanUser{Username: "alice"})
	bob := srv.AddUser(model.AtlanUser{Username: "bob"})

	g, err := model.NewGroup("Data Stewards", "Owns data quality")
	if err != nil {
		t.Fatal(err)
	}
	resp, err := c.Groups.Create(ctx, *g, alice, bob)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	for _, u := range []string{alice, bob} {
		if !resp.Users[u].Success() {
			t.Errorf("user %s not added: %+v", u, resp.Users[u])
		}
	}
	if _, err := c.Groups.Create(ctx, *g); !errors.Is(err, errors.ErrCodeConflict) {
		t.Errorf("Create(duplicate) error = %v, want CONFLICT", err)
	}

	found, err := c.Groups.GetByName(ctx, "stewards")
	if err != nil || len(found) != 1 || found[0].ID != resp.Group {
		t.Fatalf("GetByName() = %v, %v", found, err)
	}

	members, err := c.Groups.GetMembers(resp.Group, atlan.ListOptions{Limit: 1}).Collect(ctx)
	if err != nil || len(members) != 2 {
		t.Fatalf("GetMembers() = %v, %v", members, err)
	}
	if err := c.Groups.RemoveUsers(ctx, resp.Group, bob); err != nil {
		t.Fatal(err)
	}
	if got := srv.Members(resp.Group); !slices.Equal(got, []string{alice}) {
		t.Errorf("members after remove = %v", got)
	}

	id, err := c.GroupCache.IDForAlias(ctx, "Data Stewards")
	if err != nil || id != resp.Group {
		t.Errorf("IDForAlias() = %q, %v", id, err)
	}
	if name, err := c.GroupCache.NameForID(ctx, resp.Group); err != nil || name != "data_stewards" {
		t.Errorf("NameForID() = %q, %v", name, err)
	}

	found[0].Attributes.Description = []string{"Stewardship"}
	if err := c.Groups.Update(ctx, found[0]); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if err := c.Groups.Update(ctx, model.AtlanGroup{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Update(no id) error = %v", err)
	}
	if err := c.Groups.Purge(ctx, resp.Group); err != nil {
		t.Fatalf("Purge() error: %v", err)
	}
	if err := c.Groups.Purge(ctx, resp.Group); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Purge(again) error = %v, want NOT_FOUND", err)
	}
}

func TestTypeDefsAndRolesAreCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, srv := newTestClient(t, atlan.WithCache(fc))
	ctx := context.Background()
	srv.AddTagDef("PII")
	seedRoles(srv)

	for range 3 {
		defs, err := c.TypeDefs.Get(ctx, model.TypeDefAtlanTag)
		if err != nil {
			t.Fatal(err)
		}
		if len(defs.AtlanTagDefs) != 1 {
			t.Fatalf("AtlanTagDefs = %d, want 1", len(defs.AtlanTagDefs))
		}
		if _, err := c.Roles.GetAll(ctx, false); err != nil {
			t.Fatal(err)
		}
	}
	if n := srv.Calls("GET /api/meta/types/typedefs"); n != 1 {
		t.Errorf("typedef calls = %d, want 1", n)
	}
	if n := srv.Calls("GET /api/service/roles"); n != 1 {
		t.Errorf("role calls = %d, want 1", n)
	}

	if _, err := c.TypeDefs.Refresh(ctx, model.TypeDefAtlanTag); err != nil {
		t.Fatal(err)
	}
	if n := srv.Calls("GET /api/meta/types/typedefs"); n != 2 {
		t.Errorf("typedef calls after refresh = %d, want 2", n)
	}

	id, err := c.RoleCache.IDForName(ctx, string(model.RoleGuest))
	if err != nil || id != "role-guest" {
		t.Errorf("RoleCache.IDForName() = %q, %v", id, err)
	}
}
