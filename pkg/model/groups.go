package model

import (
	"strings"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// GroupAttributes are the descriptive attributes of a group.
// The server returns every value as a list.
type GroupAttributes struct {
	Alias       []string `json:"alias,omitempty"`
	Description []string `json:"description,omitempty"`
	IsDefault   []string `json:"isDefault,omitempty"`
	CreatedBy   []string `json:"createdBy,omitempty"`
	Channels    []string `json:"channels,omitempty"`
}

// AtlanGroup is a group of users.
type AtlanGroup struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name,omitempty"`
	Path       string           `json:"path,omitempty"`
	Roles      []string         `json:"roles,omitempty"`
	UserCount  int              `json:"userCount,omitempty"`
	Personas   []UserPersona    `json:"personas,omitempty"`
	Attributes *GroupAttributes `json:"attributes,omitempty"`
}

func first(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Alias returns the human-readable group name.
func (g AtlanGroup) Alias() string {
	if g.Attributes == nil {
		return ""
	}
	return first(g.Attributes.Alias)
}

// Description returns the group description.
func (g AtlanGroup) Description() string {
	if g.Attributes == nil {
		return ""
	}
	return first(g.Attributes.Description)
}

// IsDefault reports whether new users join the group automatically.
func (g AtlanGroup) IsDefault() bool {
	return g.Attributes != nil && first(g.Attributes.IsDefault) == "true"
}

// GenerateGroupName derives the internal group name from its alias.
func GenerateGroupName(alias string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(alias)), " ", "_")
}

// NewGroup builds a group to be created from its alias.
func NewGroup(alias, description string) (*AtlanGroup, error) {
	if err := required("alias", alias); err != nil {
		return nil, err
	}
	attrs := &GroupAttributes{Alias: []string{alias}}
	if description != "" {
		attrs.Description = []string{description}
	}
	return &AtlanGroup{Name: GenerateGroupName(alias), Attributes: attrs}, nil
}

// GroupResponse is one page of groups.
type GroupResponse struct {
	TotalRecord  int          `json:"totalRecord"`
	FilterRecord int          `json:"filterRecord"`
	Records      []AtlanGroup `json:"records"`
}

// CreateGroupRequest creates a group with optional initial members.
type CreateGroupRequest struct {
	Group AtlanGroup `json:"group"`
	Users []string   `json:"users,omitempty"`
}

// Validate checks the group has a name and alias.
func (r CreateGroupRequest) Validate() error {
	if r.Group.Name == "" || r.Group.Alias() == "" {
		return errors.New(errors.ErrCodeInvalidInput, "group needs a name and alias")
	}
	return nil
}

// UserStatus is the result of adding one user to a new group.
type UserStatus struct {
	Status        int    `json:"status"`
	StatusMessage string `json:"statusMessage,omitempty"`
}

// Success reports whether the user was added.
func (s UserStatus) Success() bool { return s.Status >= 200 && s.Status < 300 }

// CreateGroupResponse holds the new group id and per-user results.
type CreateGroupResponse struct {
	Group string                `json:"group"`
	Users map[string]UserStatus `json:"users,omitempty"`
}

// RemoveFromGroupRequest removes users from a group by user id.
type RemoveFromGroupRequest struct {
	Users []string `json:"users"`
}
