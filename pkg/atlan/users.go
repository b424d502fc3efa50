package atlan

import (
	"context"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// UserService manages the users of a tenant.
type UserService struct {
	api   *api.Client
	roles *RoleCache
}

// Get returns one page of users.
func (s *UserService) Get(ctx context.Context, opts ListOptions, offset int) (*model.UserResponse, error) {
	var resp model.UserResponse
	if err := s.api.Call(ctx, api.GetUsers, api.Request{Query: opts.query(offset, opts.limit())}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List pages through all users matching opts.
func (s *UserService) List(opts ListOptions) *Pager[model.AtlanUser] {
	return NewPager("users", opts.limit(), func(ctx context.Context, offset, limit int) (Page[model.AtlanUser], error) {
		var resp model.UserResponse
		if err := s.api.Call(ctx, api.GetUsers, api.Request{Query: opts.query(offset, limit)}, &resp); err != nil {
			return Page[model.AtlanUser]{}, err
		}
		return userPage(offset, resp), nil
	})
}

func userPage(offset int, resp model.UserResponse) Page[model.AtlanUser] {
	total := resp.FilterRecord
	if total == 0 {
		total = resp.TotalRecord
	}
	return Page[model.AtlanUser]{Items: resp.Records, Total: total, More: hasMore(offset, len(resp.Records), total)}
}

// GetByUsername returns the user with exactly this username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.AtlanUser, error) {
	if username == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "username cannot be empty")
	}
	resp, err := s.Get(ctx, ListOptions{Limit: 5, Filter: Filter(map[string]string{"username": username})}, 0)
	if err != nil {
		return nil, err
	}
	for _, u := range resp.Records {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "user %q not found", username)
}

// GetByEmail returns users whose email contains email, case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) ([]model.AtlanUser, error) {
	if email == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "email cannot be empty")
	}
	filter := Filter(map[string]any{"email": map[string]string{"$ilike": "%" + email + "%"}})
	return s.List(ListOptions{Filter: filter}).Collect(ctx)
}

// GetCurrent returns the user that owns the API key.
func (s *UserService) GetCurrent(ctx context.Context) (*model.UserMinimalResponse, error) {
	var resp model.UserMinimalResponse
	if err := s.api.Call(ctx, api.GetCurrentUser, api.Request{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Invite is a user to create.
type Invite struct {
	Email string
	Role  model.WorkspaceRole
}

// Create invites users, resolving workspace roles to their ids.
func (s *UserService) Create(ctx context.Context, invites ...Invite) error {
	req := model.CreateUserRequest{}
	for _, inv := range invites {
		if !inv.Role.Valid() {
			return errors.New(errors.ErrCodeInvalidInput, "invalid workspace role %q for %s", inv.Role, inv.Email)
		}
		id, err := s.roles.IDForName(ctx, inv.Role.String())
		if err != nil {
			return err
		}
		req.Users = append(req.Users, model.NewUser{Email: inv.Email, RoleName: inv.Role.String(), RoleID: id})
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.api.Call(ctx, api.CreateUsers, api.Request{Body: req}, nil)
}

// Update changes the profile of user id and returns the stored user.
func (s *UserService) Update(ctx context.Context, id string, user model.AtlanUser) (*model.AtlanUser, error) {
	var resp model.AtlanUser
	err := s.api.Call(ctx, api.UpdateUser, api.Request{
		PathParams: map[string]string{"id": id},
		Body:       user,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChangeRole sets the workspace role of user id.
func (s *UserService) ChangeRole(ctx context.Context, id string, role model.WorkspaceRole) error {
	if !role.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid workspace role %q", role)
	}
	roleID, err := s.roles.IDForName(ctx, role.String())
	if err != nil {
		return err
	}
	return s.api.Call(ctx, api.ChangeUserRole, api.Request{
		PathParams: map[string]string{"id": id},
		Body:       model.ChangeRoleRequest{RoleID: roleID},
	}, nil)
}

// AddToGroups adds user id to the groups with the given ids.
func (s *UserService) AddToGroups(ctx context.Context, id string, groupIDs ...string) error {
	if len(groupIDs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no groups given")
	}
	return s.api.Call(ctx, api.AddUserToGroups, api.Request{
		PathParams: map[string]string{"id": id},
		Body:       model.AddToGroupsRequest{Groups: groupIDs},
	}, nil)
}

// GetGroups returns the groups user id belongs to.
func (s *UserService) GetGroups(ctx context.Context, id string) ([]model.AtlanGroup, error) {
	var resp model.GroupResponse
	if err := s.api.Call(ctx, api.GetUserGroups, api.Request{PathParams: map[string]string{"id": id}}, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
