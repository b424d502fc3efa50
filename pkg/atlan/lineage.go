package atlan

import (
	"context"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/lineage"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// LineageService retrieves lineage.
type LineageService struct {
	api *api.Client
}

// Get returns the lineage graph around req.GUID.
func (s *LineageService) Get(ctx context.Context, req lineage.Request) (*lineage.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp lineage.Response
	if err := s.api.Call(ctx, api.GetLineage, api.Request{Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List pages through the assets in lineage of req.GUID. The first page is
// fetched before List returns.
func (s *LineageService) List(ctx context.Context, req lineage.ListRequest) (*Pager[model.Entity], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	first := req.From
	fetch := func(ctx context.Context, offset, limit int) (Page[model.Entity], error) {
		page := req
		page.From = first + offset
		page.Size = limit
		var resp lineage.ListResponse
		if err := s.api.Call(ctx, api.GetLineageList, api.Request{Body: page}, &resp); err != nil {
			return Page[model.Entity]{}, err
		}
		return Page[model.Entity]{Items: resp.Entities, Total: resp.EntityCount, More: resp.HasMore}, nil
	}

	p := NewPager("lineage", req.Size, fetch).
		dedupBy(func(e model.Entity) string { return e.Header().GUID })
	p.Next(ctx)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return p, nil
}
