package atlan

import (
	"context"
	"net/url"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// TypeDefService reads type definitions. Results are cached per category.
type TypeDefService struct {
	api *api.Client
}

// Get returns the type definitions of category, or all when it is empty.
func (s *TypeDefService) Get(ctx context.Context, category model.TypeDefCategory) (*model.TypeDefResponse, error) {
	return s.get(ctx, category, false)
}

// Refresh is like Get but bypasses the cache.
func (s *TypeDefService) Refresh(ctx context.Context, category model.TypeDefCategory) (*model.TypeDefResponse, error) {
	return s.get(ctx, category, true)
}

func (s *TypeDefService) get(ctx context.Context, category model.TypeDefCategory, refresh bool) (*model.TypeDefResponse, error) {
	var req api.Request
	if category != "" {
		req.Query = url.Values{"type": {category.Query()}}
	}
	key := s.api.Keyer().TypeDefKey(category.Query())

	var resp model.TypeDefResponse
	err := s.api.Cached(ctx, key, refresh, &resp, func() error {
		return s.api.Call(ctx, api.GetAllTypeDefs, req, &resp)
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RoleService reads workspace roles.
type RoleService struct {
	api *api.Client
}

// List pages through roles matching opts.
func (s *RoleService) List(opts ListOptions) *Pager[model.AtlanRole] {
	return NewPager("roles", opts.limit(), func(ctx context.Context, offset, limit int) (Page[model.AtlanRole], error) {
		var resp model.RoleResponse
		if err := s.api.Call(ctx, api.GetRoles, api.Request{Query: opts.query(offset, limit)}, &resp); err != nil {
			return Page[model.AtlanRole]{}, err
		}
		total := resp.FilterRecord
		if total == 0 {
			total = resp.TotalRecord
		}
		return Page[model.AtlanRole]{Items: resp.Records, Total: total, More: hasMore(offset, len(resp.Records), total)}, nil
	})
}

// GetAll returns every role. The list is cached.
func (s *RoleService) GetAll(ctx context.Context, refresh bool) ([]model.AtlanRole, error) {
	key := s.api.Keyer().LookupKey("roles", cache.LookupKeyOpts{})
	var roles []model.AtlanRole
	err := s.api.Cached(ctx, key, refresh, &roles, func() error {
		all, err := s.List(ListOptions{Limit: 100}).Collect(ctx)
		roles = all
		return err
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}
