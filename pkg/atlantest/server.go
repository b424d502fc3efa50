package atlantest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/atlan-go/pkg/model"
)

// APIKey is the token the server accepts unless overridden.
const APIKey = "test-api-key"

// Server is a fake Atlan tenant. Create one with [New]; it is closed when
// the test ends.
type Server struct {
	*httptest.Server
	APIKey string

	mu       sync.Mutex
	entities map[string]map[string]any
	tagDefs  []model.AtlanTagDef
	users    []model.AtlanUser
	groups   []model.AtlanGroup
	members  map[string][]string
	roles    []model.AtlanRole
	current  model.UserMinimalResponse
	lineage  map[string]json.RawMessage
	related  map[string][]map[string]any
	calls    map[string]int
	failures []int
}

// New starts a fake tenant for t.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		APIKey:   APIKey,
		entities: map[string]map[string]any{},
		members:  map[string][]string{},
		lineage:  map[string]json.RawMessage{},
		related:  map[string][]map[string]any{},
		calls:    map[string]int{},
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.count, s.auth, s.inject)

	r.Route("/api/meta", func(r chi.Router) {
		r.Get("/entity/guid/{guid}", s.getEntityByGUID)
		r.Get("/entity/uniqueAttribute/type/{typeName}", s.getEntityByQN)
		r.Post("/entity/bulk", s.saveEntities)
		r.Delete("/entity/bulk", s.deleteEntities)
		r.Post("/entity/restore/bulk", s.restoreEntities)
		r.Post("/entity/uniqueAttribute/type/{typeName}/classifications", s.addTags)
		r.Delete("/entity/uniqueAttribute/type/{typeName}/classification/{tagName}", s.removeTag)
		r.Post("/search/indexsearch", s.indexSearch)
		r.Post("/lineage/getlineage", s.getLineage)
		r.Post("/lineage/list", s.listLineage)
		r.Get("/types/typedefs", s.getTypeDefs)
	})

	r.Route("/api/service", func(r chi.Router) {
		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUsers)
		r.Get("/users/current", s.currentUser)
		r.Post("/users/{id}", s.updateUser)
		r.Get("/users/{id}/groups", s.userGroups)
		r.Post("/users/{id}/groups", s.addUserToGroups)
		r.Post("/users/{id}/roles/update", s.changeRole)
		r.Get("/roles", s.listRoles)
		r.Get("/groups", s.listGroups)
		r.Post("/groups", s.createGroup)
		r.Post("/groups/{id}", s.updateGroup)
		r.Post("/groups/{id}/delete", s.deleteGroup)
		r.Get("/groups/{id}/members", s.groupMembers)
		r.Post("/groups/{id}/members/remove", s.removeMembers)
	})
	return r
}

// Calls returns how often the route "METHOD /pattern" was served, e.g.
// Calls("GET /api/meta/types/typedefs").
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next requests fail with the given statuses, in order.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		s.mu.Lock()
		s.calls[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.APIKey != "" && r.Header.Get("Authorization") != "Bearer "+s.APIKey {
			writeError(w, http.StatusUnauthorized, "ATLAN-JAVA-401-000", "invalid API token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var status int
		if len(s.failures) > 0 {
			status, s.failures = s.failures[0], s.failures[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "ATLAN-TEST-"+strconv.Itoa(status), http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]string{"errorCode": code, "errorMessage": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "ATLAN-JAVA-400-000", err.Error())
		return false
	}
	return true
}

// paging reads limit and offset query parameters.
func paging(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}
	return offset, limit
}

func window[T any](items []T, from, size int) []T {
	if from >= len(items) {
		return []T{}
	}
	return items[from:min(from+size, len(items))]
}

// matchFilter evaluates the subset of the listing filter language the SDK
// sends: "$and" lists, exact values and {"$ilike": "%x%"}.
func matchFilter(filter map[string]any, fields map[string]string) bool {
	for k, v := range filter {
		switch {
		case k == "$and":
			list, _ := v.([]any)
			for _, sub := range list {
				m, _ := sub.(map[string]any)
				if !matchFilter(m, fields) {
					return false
				}
			}
		default:
			switch cond := v.(type) {
			case string:
				if fields[k] != cond {
					return false
				}
			case map[string]any:
				pattern, _ := cond["$ilike"].(string)
				needle := strings.ToLower(strings.Trim(pattern, "%"))
				if !strings.Contains(strings.ToLower(fields[k]), needle) {
					return false
				}
			}
		}
	}
	return true
}

func parseFilter(r *http.Request) map[string]any {
	raw := r.URL.Query().Get("filter")
	if raw == "" {
		return nil
	}
	var f map[string]any
	_ = json.Unmarshal([]byte(raw), &f)
	return f
}
