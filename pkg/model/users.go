package model

import (
	"strings"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// UserAttributes are the profile attributes stored for a user.
// The server returns every value as a list.
type UserAttributes struct {
	Designation      []string `json:"designation,omitempty"`
	ProfileRole      []string `json:"profileRole,omitempty"`
	ProfileRoleOther []string `json:"profileRoleOther,omitempty"`
	Slack            []string `json:"slack,omitempty"`
	InviteSentAt     []string `json:"invitedAt,omitempty"`
	InvitedBy        []string `json:"invitedBy,omitempty"`
}

// UserPersona is a persona a user belongs to.
type UserPersona struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// AtlanUser is a user of the tenant.
type AtlanUser struct {
	ID               string          `json:"id,omitempty"`
	Username         string          `json:"username,omitempty"`
	FirstName        string          `json:"firstName,omitempty"`
	LastName         string          `json:"lastName,omitempty"`
	Email            string          `json:"email,omitempty"`
	EmailVerified    bool            `json:"emailVerified,omitempty"`
	Enabled          bool            `json:"enabled,omitempty"`
	CreatedTimestamp int64           `json:"createdTimestamp,omitempty"`
	LastLoginTime    int64           `json:"lastLoginTime,omitempty"`
	GroupCount       int             `json:"groupCount,omitempty"`
	WorkspaceRole    string          `json:"workspaceRole,omitempty"`
	Roles            []string        `json:"roles,omitempty"`
	DefaultRoles     []string        `json:"defaultRoles,omitempty"`
	Personas         []UserPersona   `json:"personas,omitempty"`
	Attributes       *UserAttributes `json:"attributes,omitempty"`
}

// FullName joins first and last name.
func (u AtlanUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserResponse is one page of users.
type UserResponse struct {
	TotalRecord  int         `json:"totalRecord"`
	FilterRecord int         `json:"filterRecord"`
	Records      []AtlanUser `json:"records"`
}

// NewUser is one entry of a create-users request.
type NewUser struct {
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
	RoleID   string `json:"roleId"`
}

// CreateUserRequest invites users to the tenant.
type CreateUserRequest struct {
	Users []NewUser `json:"users"`
}

// Validate checks that every user has an email and a role.
func (r CreateUserRequest) Validate() error {
	if len(r.Users) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no users to create")
	}
	for _, u := range r.Users {
		if !strings.Contains(u.Email, "@") {
			return errors.New(errors.ErrCodeInvalidInput, "invalid email %q", u.Email)
		}
		if u.RoleID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "user %s has no role", u.Email)
		}
	}
	return nil
}

// UserMinimalResponse describes the user an API token belongs to.
type UserMinimalResponse struct {
	ID            string   `json:"id,omitempty"`
	Username      string   `json:"username"`
	Email         string   `json:"email,omitempty"`
	FirstName     string   `json:"firstName,omitempty"`
	LastName      string   `json:"lastName,omitempty"`
	EmailVerified bool     `json:"emailVerified,omitempty"`
	Enabled       bool     `json:"enabled,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	GroupCount    int      `json:"groupCount,omitempty"`
}

// AddToGroupsRequest adds a user to groups by group id.
type AddToGroupsRequest struct {
	Groups []string `json:"groups"`
}

// ChangeRoleRequest sets a user's workspace role.
type ChangeRoleRequest struct {
	RoleID string `json:"roleId"`
}
