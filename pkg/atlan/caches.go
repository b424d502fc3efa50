package atlan

import (
	"context"
	"sync"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// lookup maps names to ids and back. It loads lazily and reloads when a
// name or id is missing, at most once per key until the next Refresh.
type lookup struct {
	kind string
	load func(ctx context.Context, refresh bool) (map[string]string, error)

	mu      sync.RWMutex
	loaded  bool
	byName  map[string]string
	byID    map[string]string
	missing map[lookupKey]struct{}
}

type lookupKey struct {
	key    string
	byName bool
}

func (l *lookup) refresh(ctx context.Context, force bool) error {
	return l.reload(ctx, force, true)
}

func (l *lookup) reload(ctx context.Context, force, reset bool) error {
	names, err := l.load(ctx, force)
	if err != nil {
		return err
	}
	byID := make(map[string]string, len(names))
	for name, id := range names {
		byID[id] = name
	}
	l.mu.Lock()
	l.byName, l.byID, l.loaded = names, byID, true
	if reset || l.missing == nil {
		l.missing = map[lookupKey]struct{}{}
	}
	l.mu.Unlock()
	return nil
}

func (l *lookup) get(ctx context.Context, key string, byName bool) (string, error) {
	mk := lookupKey{key, byName}
	read := func() (v string, ok, loaded, known bool) {
		l.mu.RLock()
		defer l.mu.RUnlock()
		m := l.byID
		if byName {
			m = l.byName
		}
		v, ok = m[key]
		_, missing := l.missing[mk]
		return v, ok, l.loaded, missing
	}
	notFound := func() error {
		return errors.New(errors.ErrCodeNotFound, "unknown %s %q", l.kind, key)
	}

	v, ok, loaded, missing := read()
	if ok {
		return v, nil
	}
	if missing {
		return "", notFound()
	}
	if err := l.reload(ctx, loaded, false); err != nil {
		return "", err
	}
	if v, ok, _, _ = read(); ok {
		return v, nil
	}
	if loaded {
		l.mu.Lock()
		l.missing[mk] = struct{}{}
		l.mu.Unlock()
	}
	return "", notFound()
}

// TagCache translates Atlan tag display names to the hashed ids the API
// uses, and back.
type TagCache struct{ l lookup }

func newTagCache(s *TypeDefService) *TagCache {
	return &TagCache{l: lookup{kind: "Atlan tag", load: func(ctx context.Context, refresh bool) (map[string]string, error) {
		resp, err := s.get(ctx, model.TypeDefAtlanTag, refresh)
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(resp.AtlanTagDefs))
		for _, d := range resp.AtlanTagDefs {
			m[d.DisplayName] = d.Name
		}
		return m, nil
	}}}
}

// IDForName returns the hashed id of the tag shown as name.
func (c *TagCache) IDForName(ctx context.Context, name string) (string, error) {
	return c.l.get(ctx, name, true)
}

// NameForID returns the display name of the tag with hashed id.
func (c *TagCache) NameForID(ctx context.Context, id string) (string, error) {
	return c.l.get(ctx, id, false)
}

// Refresh reloads the tag definitions from the server.
func (c *TagCache) Refresh(ctx context.Context) error { return c.l.refresh(ctx, true) }

// RoleCache translates role names such as $admin to role ids.
type RoleCache struct{ l lookup }

func newRoleCache(s *RoleService) *RoleCache {
	return &RoleCache{l: lookup{kind: "role", load: func(ctx context.Context, refresh bool) (map[string]string, error) {
		roles, err := s.GetAll(ctx, refresh)
		if err != nil {
			return nil, err
		}
		m := make(map[string]string, len(roles))
		for _, r := range roles {
			m[r.Name] = r.ID
		}
		return m, nil
	}}}
}

func (c *RoleCache) IDForName(ctx context.Context, name string) (string, error) {
	return c.l.get(ctx, name, true)
}

func (c *RoleCache) NameForID(ctx context.Context, id string) (string, error) {
	return c.l.get(ctx, id, false)
}

func (c *RoleCache) Refresh(ctx context.Context) error { return c.l.refresh(ctx, true) }

// GroupCache translates internal group names to ids. Groups are not
// persisted in the response cache; they are listed on first use.
type GroupCache struct {
	l       lookup
	aliases lookup
}

func newGroupCache(s *GroupService) *GroupCache {
	groups := func(ctx context.Context) ([]model.AtlanGroup, error) {
		return s.List(ListOptions{Limit: 100}).Collect(ctx)
	}
	return &GroupCache{
		l: lookup{kind: "group", load: func(ctx context.Context, _ bool) (map[string]string, error) {
			all, err := groups(ctx)
			if err != nil {
				return nil, err
			}
			m := make(map[string]string, len(all))
			for _, g := range all {
				m[g.Name] = g.ID
			}
			return m, nil
		}},
		aliases: lookup{kind: "group alias", load: func(ctx context.Context, _ bool) (map[string]string, error) {
			all, err := groups(ctx)
			if err != nil {
				return nil, err
			}
			m := make(map[string]string, len(all))
			for _, g := range all {
				m[g.Alias()] = g.ID
			}
			return m, nil
		}},
	}
}

// IDForName returns the id of the group with internal name.
func (c *GroupCache) IDForName(ctx context.Context, name string) (string, error) {
	return c.l.get(ctx, name, true)
}

// IDForAlias returns the id of the group shown as alias.
func (c *GroupCache) IDForAlias(ctx context.Context, alias string) (string, error) {
	return c.aliases.get(ctx, alias, true)
}

// NameForID returns the internal name of group id.
func (c *GroupCache) NameForID(ctx context.Context, id string) (string, error) {
	return c.l.get(ctx, id, false)
}

func (c *GroupCache) Refresh(ctx context.Context) error {
	if err := c.l.refresh(ctx, true); err != nil {
		return err
	}
	return c.aliases.refresh(ctx, true)
}
