package atlantest

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/atlan-go/pkg/model"
)

// AddEntity stores e and returns its GUID. A missing or placeholder GUID
// is replaced by a generated one.
func (s *Server) AddEntity(e model.Entity) string {
	data, err := json.Marshal(e)
	if err != nil {
		panic(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		panic(err)
	}
	guid, _ := m["guid"].(string)
	if guid == "" || strings.HasPrefix(guid, "-") {
		guid = uuid.NewString()
		m["guid"] = guid
	}
	if _, ok := m["status"]; !ok {
		m["status"] = string(model.StatusActive)
	}
	s.mu.Lock()
	s.entities[guid] = m
	s.mu.Unlock()
	return guid
}

// Entity returns the stored JSON object of guid.
func (s *Server) Entity(guid string) (map[string]any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.entities[guid]
	if !ok {
		return nil, false
	}
	return maps.Clone(m), true
}

func attrs(m map[string]any) map[string]any {
	a, _ := m["attributes"].(map[string]any)
	if a == nil {
		a = map[string]any{}
		m["attributes"] = a
	}
	return a
}

func qualifiedName(m map[string]any) string {
	qn, _ := attrs(m)["qualifiedName"].(string)
	return qn
}

// findByQN must be called with s.mu held.
func (s *Server) findByQN(typeName, qn string) (string, map[string]any) {
	for guid, m := range s.entities {
		if m["typeName"] == typeName && qualifiedName(m) == qn {
			return guid, m
		}
	}
	return "", nil
}

func header(m map[string]any) map[string]any {
	a := attrs(m)
	return map[string]any{
		"typeName": m["typeName"],
		"guid":     m["guid"],
		"status":   m["status"],
		"attributes": map[string]any{
			"name":          a["name"],
			"qualifiedName": a["qualifiedName"],
		},
	}
}

func (s *Server) getEntityByGUID(w http.ResponseWriter, r *http.Request) {
	m, ok := s.Entity(chi.URLParam(r, "guid"))
	if !ok {
		writeError(w, http.StatusNotFound, "ATLAS-404-00-005", "Given instance guid is invalid/not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity": m, "referredEntities": map[string]any{}})
}

func (s *Server) getEntityByQN(w http.ResponseWriter, r *http.Request) {
	qn := r.URL.Query().Get("attr:qualifiedName")
	s.mu.Lock()
	_, m := s.findByQN(chi.URLParam(r, "typeName"), qn)
	if m != nil {
		m = maps.Clone(m)
	}
	s.mu.Unlock()
	if m == nil {
		writeError(w, http.StatusNotFound, "ATLAS-404-00-009", "Instance with unique attribute "+qn+" does not exist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entity": m})
}

func (s *Server) saveEntities(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Entities []map[string]any `json:"entities"`
	}
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var created, updated []map[string]any
	assignments := map[string]string{}
	for _, in := range req.Entities {
		typeName, _ := in["typeName"].(string)
		if _, existing := s.findByQN(typeName, qualifiedName(in)); existing != nil {
			dst := attrs(existing)
			for k, v := range attrs(in) {
				if v == nil {
					delete(dst, k)
				} else {
					dst[k] = v
				}
			}
			updated = append(updated, header(existing))
			continue
		}
		guid := uuid.NewString()
		if old, _ := in["guid"].(string); strings.HasPrefix(old, "-") {
			assignments[old] = guid
		}
		in["guid"] = guid
		if _, ok := in["status"]; !ok {
			in["status"] = string(model.StatusActive)
		}
		s.entities[guid] = in
		created = append(created, header(in))
	}

	mutated := map[string]any{}
	if len(created) > 0 {
		mutated["CREATE"] = created
	}
	if len(updated) > 0 {
		mutated["UPDATE"] = updated
	}
	writeJSON(w, http.StatusOK, map[string]any{"mutatedEntities": mutated, "guidAssignments": assignments})
}

func (s *Server) deleteEntities(w http.ResponseWriter, r *http.Request) {
	guids := r.URL.Query()["guid"]
	kind := model.DeleteType(r.URL.Query().Get("deleteType"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range guids {
		if _, ok := s.entities[g]; !ok {
			writeError(w, http.StatusNotFound, "ATLAS-404-00-005", "guid "+g+" not found")
			return
		}
	}
	var deleted []map[string]any
	for _, g := range guids {
		m := s.entities[g]
		if kind == model.DeleteSoft || kind == "" {
			m["status"] = string(model.StatusDeleted)
		} else {
			delete(s.entities, g)
		}
		deleted = append(deleted, header(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"mutatedEntities": map[string]any{"DELETE": deleted}})
}

func (s *Server) restoreEntities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var restored []map[string]any
	for _, g := range r.URL.Query()["guid"] {
		m, ok := s.entities[g]
		if !ok {
			writeError(w, http.StatusNotFound, "ATLAS-404-00-005", "guid "+g+" not found")
			return
		}
		m["status"] = string(model.StatusActive)
		restored = append(restored, header(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"mutatedEntities": map[string]any{"UPDATE": restored}})
}

func (s *Server) addTags(w http.ResponseWriter, r *http.Request) {
	var tags []map[string]any
	if !decode(w, r, &tags) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	guid, m := s.findByQN(chi.URLParam(r, "typeName"), r.URL.Query().Get("attr:qualifiedName"))
	if m == nil {
		writeError(w, http.StatusNotFound, "ATLAS-404-00-009", "asset not found")
		return
	}
	existing, _ := m["classifications"].([]any)
	for _, t := range tags {
		t["entityGuid"] = guid
		existing = append(existing, t)
	}
	m["classifications"] = existing
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tagName")
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.findByQN(chi.URLParam(r, "typeName"), r.URL.Query().Get("attr:qualifiedName"))
	if m == nil {
		writeError(w, http.StatusNotFound, "ATLAS-404-00-009", "asset not found")
		return
	}
	existing, _ := m["classifications"].([]any)
	kept := slices.DeleteFunc(slices.Clone(existing), func(v any) bool {
		c, _ := v.(map[string]any)
		return c["typeName"] == tag
	})
	if len(kept) == len(existing) {
		writeError(w, http.StatusBadRequest, "ATLAS-400-00-06D", "tag "+tag+" is not associated with the asset")
		return
	}
	m["classifications"] = kept
	w.WriteHeader(http.StatusNoContent)
}

// indexSearch supports term filters in bool.filter/must and sorts by GUID.
func (s *Server) indexSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DSL struct {
			From  int            `json:"from"`
			Size  int            `json:"size"`
			Query map[string]any `json:"query"`
		} `json:"dsl"`
	}
	if !decode(w, r, &req) {
		return
	}
	terms := collectTerms(req.DSL.Query)

	s.mu.Lock()
	var hits []map[string]any
	for _, m := range s.entities {
		if matchTerms(m, terms) {
			hits = append(hits, maps.Clone(m))
		}
	}
	s.mu.Unlock()
	slices.SortFunc(hits, func(a, b map[string]any) int {
		return strings.Compare(a["guid"].(string), b["guid"].(string))
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"approximateCount": len(hits),
		"entities":         window(hits, req.DSL.From, req.DSL.Size),
	})
}

type term struct {
	field string
	value any
}

func collectTerms(q map[string]any) []term {
	var out []term
	if t, ok := q["term"].(map[string]any); ok {
		for field, v := range t {
			body, _ := v.(map[string]any)
			out = append(out, term{field: field, value: body["value"]})
		}
	}
	if b, ok := q["bool"].(map[string]any); ok {
		for _, clause := range []string{"filter", "must"} {
			list, _ := b[clause].([]any)
			for _, sub := range list {
				m, _ := sub.(map[string]any)
				out = append(out, collectTerms(m)...)
			}
		}
	}
	return out
}

func matchTerms(m map[string]any, terms []term) bool {
	for _, t := range terms {
		if entityField(m, t.field) != t.value {
			return false
		}
	}
	return true
}

func entityField(m map[string]any, field string) any {
	switch field {
	case "__typeName.keyword":
		return m["typeName"]
	case "__state":
		return m["status"]
	case "__guid":
		return m["guid"]
	}
	return attrs(m)[strings.TrimSuffix(field, ".keyword")]
}
