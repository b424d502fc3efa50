package atlan

import (
	"context"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// GroupService manages groups and their members.
type GroupService struct {
	api *api.Client
}

// List pages through all groups matching opts.
func (s *GroupService) List(opts ListOptions) *Pager[model.AtlanGroup] {
	return NewPager("groups", opts.limit(), func(ctx context.Context, offset, limit int) (Page[model.AtlanGroup], error) {
		var resp model.GroupResponse
		if err := s.api.Call(ctx, api.GetGroups, api.Request{Query: opts.query(offset, limit)}, &resp); err != nil {
			return Page[model.AtlanGroup]{}, err
		}
		total := resp.FilterRecord
		if total == 0 {
			total = resp.TotalRecord
		}
		return Page[model.AtlanGroup]{Items: resp.Records, Total: total, More: hasMore(offset, len(resp.Records), total)}, nil
	})
}

// GetByName returns groups whose alias contains alias, case-insensitively.
func (s *GroupService) GetByName(ctx context.Context, alias string) ([]model.AtlanGroup, error) {
	if alias == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "group alias cannot be empty")
	}
	filter := Filter(map[string]any{"$and": []any{
		map[string]any{"alias": map[string]string{"$ilike": "%" + alias + "%"}},
	}})
	return s.List(ListOptions{Filter: filter}).Collect(ctx)
}

// Create creates group with the given initial members.
func (s *GroupService) Create(ctx context.Context, group model.AtlanGroup, userIDs ...string) (*model.CreateGroupResponse, error) {
	req := model.CreateGroupRequest{Group: group, Users: userIDs}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp model.CreateGroupResponse
	if err := s.api.Call(ctx, api.CreateGroup, api.Request{Body: req}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Update stores changes to an existing group.
func (s *GroupService) Update(ctx context.Context, group model.AtlanGroup) error {
	if group.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "group has no id")
	}
	return s.api.Call(ctx, api.UpdateGroup, api.Request{
		PathParams: map[string]string{"id": group.ID},
		Body:       group,
	}, nil)
}

// Purge deletes a group permanently.
func (s *GroupService) Purge(ctx context.Context, id string) error {
	return s.api.Call(ctx, api.DeleteGroup, api.Request{PathParams: map[string]string{"id": id}}, nil)
}

// GetMembers pages through the users of group id.
func (s *GroupService) GetMembers(id string, opts ListOptions) *Pager[model.AtlanUser] {
	return NewPager("members", opts.limit(), func(ctx context.Context, offset, limit int) (Page[model.AtlanUser], error) {
		var resp model.UserResponse
		err := s.api.Call(ctx, api.GetGroupMembers, api.Request{
			PathParams: map[string]string{"id": id},
			Query:      opts.query(offset, limit),
		}, &resp)
		if err != nil {
			return Page[model.AtlanUser]{}, err
		}
		return userPage(offset, resp), nil
	})
}

// RemoveUsers removes users from group id.
func (s *GroupService) RemoveUsers(ctx context.Context, id string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no users given")
	}
	return s.api.Call(ctx, api.RemoveFromGroup, api.Request{
		PathParams: map[string]string{"id": id},
		Body:       model.RemoveFromGroupRequest{Users: userIDs},
	}, nil)
}
