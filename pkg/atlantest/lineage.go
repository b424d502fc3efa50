package atlantest

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/atlan-go/pkg/model"
)

// SetLineage makes getlineage for guid return resp, which must marshal
// to a lineage response.
func (s *Server) SetLineage(guid string, resp any) {
	data, err := json.Marshal(resp)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	s.lineage[guid] = data
	s.mu.Unlock()
}

// SetLineageList makes the lineage list of guid return entities, in order.
func (s *Server) SetLineageList(guid string, entities ...model.Entity) {
	list := make([]map[string]any, 0, len(entities))
	for _, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			panic(err)
		}
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			panic(err)
		}
		list = append(list, m)
	}
	s.mu.Lock()
	s.related[guid] = list
	s.mu.Unlock()
}

func (s *Server) getLineage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GUID string `json:"guid"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	data, ok := s.lineage[req.GUID]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "ATLAS-404-00-005", "no lineage for "+req.GUID)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) listLineage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GUID string `json:"guid"`
		From int    `json:"from"`
		Size int    `json:"size"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	all := s.related[req.GUID]
	s.mu.Unlock()
	page := window(all, req.From, req.Size)
	writeJSON(w, http.StatusOK, map[string]any{
		"entities":    page,
		"hasMore":     req.From+len(page) < len(all),
		"entityCount": len(all),
	})
}

// AddTagDef registers an Atlan tag and returns its hashed id.
func (s *Server) AddTagDef(displayName string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := "tag" + string(rune('A'+len(s.tagDefs))) + "hashed"
	def := model.AtlanTagDef{}
	def.Name = id
	def.DisplayName = displayName
	def.Category = model.TypeDefAtlanTag
	s.tagDefs = append(s.tagDefs, def)
	return id
}

func (s *Server) getTypeDefs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defs := append([]model.AtlanTagDef(nil), s.tagDefs...)
	s.mu.Unlock()
	resp := model.TypeDefResponse{}
	switch r.URL.Query().Get("type") {
	case "", model.TypeDefAtlanTag.Query():
		resp.AtlanTagDefs = defs
	}
	writeJSON(w, http.StatusOK, resp)
}
