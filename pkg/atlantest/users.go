package atlantest

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/atlan-go/pkg/model"
)

// AddUser stores u, generating an id when missing.
func (s *Server) AddUser(u model.AtlanUser) string {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()
	return u.ID
}

// AddGroup stores g with the given member ids, generating an id when missing.
func (s *Server) AddGroup(g model.AtlanGroup, memberIDs ...string) string {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.groups = append(s.groups, g)
	s.members[g.ID] = memberIDs
	s.mu.Unlock()
	return g.ID
}

// AddRole stores r.
func (s *Server) AddRole(r model.AtlanRole) {
	s.mu.Lock()
	s.roles = append(s.roles, r)
	s.mu.Unlock()
}

// SetCurrentUser sets the user returned for the API key.
func (s *Server) SetCurrentUser(u model.UserMinimalResponse) {
	s.mu.Lock()
	s.current = u
	s.mu.Unlock()
}

// User returns the stored user id.
func (s *Server) User(id string) (model.AtlanUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(id)
	if i < 0 {
		return model.AtlanUser{}, false
	}
	return s.users[i], true
}

// Members returns the member ids of group id.
func (s *Server) Members(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.members[id])
}

func (s *Server) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u model.AtlanUser) bool { return u.ID == id })
}

func (s *Server) groupIndex(id string) int {
	return slices.IndexFunc(s.groups, func(g model.AtlanGroup) bool { return g.ID == id })
}

func userFields(u model.AtlanUser) map[string]string {
	return map[string]string{
		"id":        u.ID,
		"username":  u.Username,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
	}
}

func groupFields(g model.AtlanGroup) map[string]string {
	return map[string]string{"id": g.ID, "name": g.Name, "alias": g.Alias()}
}

type listPage[T any] struct {
	TotalRecord  int `json:"totalRecord"`
	FilterRecord int `json:"filterRecord"`
	Records      []T `json:"records"`
}

func list[T any](r *http.Request, all []T, fields func(T) map[string]string) listPage[T] {
	filter := parseFilter(r)
	matched := make([]T, 0, len(all))
	for _, v := range all {
		if filter == nil || matchFilter(filter, fields(v)) {
			matched = append(matched, v)
		}
	}
	offset, limit := paging(r)
	return listPage[T]{TotalRecord: len(all), FilterRecord: len(matched), Records: window(matched, offset, limit)}
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := list(r, s.users, userFields)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createUsers(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, nu := range req.Users {
		if !slices.ContainsFunc(s.roles, func(role model.AtlanRole) bool { return role.ID == nu.RoleID }) {
			writeError(w, http.StatusBadRequest, "ATLAN-JAVA-400-000", "unknown role "+nu.RoleID)
			return
		}
		s.users = append(s.users, model.AtlanUser{
			ID:            uuid.NewString(),
			Username:      nu.Email,
			Email:         nu.Email,
			WorkspaceRole: nu.RoleName,
		})
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) currentUser(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	u := s.current
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var in model.AtlanUser
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "ATLAN-JAVA-404-000", "user not found")
		return
	}
	u := &s.users[i]
	if in.FirstName != "" {
		u.FirstName = in.FirstName
	}
	if in.LastName != "" {
		u.LastName = in.LastName
	}
	if in.Attributes != nil {
		u.Attributes = in.Attributes
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) userGroups(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	var groups []model.AtlanGroup
	for _, g := range s.groups {
		if slices.Contains(s.members[g.ID], id) {
			groups = append(groups, g)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, listPage[model.AtlanGroup]{TotalRecord: len(groups), FilterRecord: len(groups), Records: groups})
}

func (s *Server) addUserToGroups(w http.ResponseWriter, r *http.Request) {
	var req model.AddToGroupsRequest
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range req.Groups {
		if s.groupIndex(g) < 0 {
			writeError(w, http.StatusNotFound, "ATLAN-JAVA-404-000", "group "+g+" not found")
			return
		}
		if !slices.Contains(s.members[g], id) {
			s.members[g] = append(s.members[g], id)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changeRole(w http.ResponseWriter, r *http.Request) {
	var req model.ChangeRoleRequest
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndex(chi.URLParam(r, "id"))
	j := slices.IndexFunc(s.roles, func(role model.AtlanRole) bool { return role.ID == req.RoleID })
	if i < 0 || j < 0 {
		writeError(w, http.StatusNotFound, "ATLAN-JAVA-404-000", "user or role not found")
		return
	}
	s.users[i].WorkspaceRole = s.roles[j].Name
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := list(r, s.roles, func(role model.AtlanRole) map[string]string {
		return map[string]string{"id": role.ID, "name": role.Name}
	})
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := list(r, s.groups, groupFields)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var req model.CreateGroupRequest
	if !decode(w, r, &req) {
		return
	}
	g := req.Group
	g.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.ContainsFunc(s.groups, func(o model.AtlanGroup) bool { return o.Name == g.Name }) {
		writeError(w, http.StatusConflict, "ATLAN-JAVA-409-000", "group "+g.Name+" already exists")
		return
	}
	s.groups = append(s.groups, g)
	statuses := map[string]model.UserStatus{}
	for _, u := range req.Users {
		if s.userIndex(u) < 0 {
			statuses[u] = model.UserStatus{Status: http.StatusNotFound, StatusMessage: "user not found"}
			continue
		}
		s.members[g.ID] = append(s.members[g.ID], u)
		statuses[u] = model.UserStatus{Status: http.StatusOK}
	}
	writeJSON(w, http.StatusOK, model.CreateGroupResponse{Group: g.ID, Users: statuses})
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	var in model.AtlanGroup
	if !decode(w, r, &in) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.groupIndex(chi.URLParam(r, "id"))
	if i < 0 {
		writeError(w, http.StatusNotFound, "ATLAN-JAVA-404-000", "group not found")
		return
	}
	if in.Attributes != nil {
		s.groups[i].Attributes = in.Attributes
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.groupIndex(id)
	if i < 0 {
		writeError(w, http.StatusNotFound, "ATLAN-JAVA-404-000", "group not found")
		return
	}
	s.groups = slices.Delete(s.groups, i, i+1)
	delete(s.members, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) groupMembers(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	var users []model.AtlanUser
	for _, m := range s.members[id] {
		if i := s.userIndex(m); i >= 0 {
			users = append(users, s.users[i])
		}
	}
	page := list(r, users, userFields)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) removeMembers(w http.ResponseWriter, r *http.Request) {
	var req model.RemoveFromGroupRequest
	if !decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[id] = slices.DeleteFunc(s.members[id], func(m string) bool {
		return slices.Contains(req.Users, m)
	})
	w.WriteHeader(http.StatusNoContent)
}
