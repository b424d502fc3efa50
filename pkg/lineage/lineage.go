package lineage

import (
	"slices"
	"sync"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// DefaultDepth asks the server for the whole lineage.
const DefaultDepth = 1000000

// Request is the body of a graph lineage call.
type Request struct {
	GUID                string                       `json:"guid"`
	Depth               int                          `json:"depth"`
	Direction           model.LegacyLineageDirection `json:"direction"`
	HideProcess         bool                         `json:"hideProcess"`
	AllowDeletedProcess bool                         `json:"allowDeletedProcess"`
}

// NewRequest returns a request for the full lineage of guid in both
// directions, including processes.
func NewRequest(guid string) Request {
	return Request{GUID: guid, Depth: DefaultDepth, Direction: model.LineageBoth}
}

// Validate checks the request before it is sent.
func (r Request) Validate() error {
	if err := errors.ValidateGUID(r.GUID); err != nil {
		return err
	}
	if r.Depth < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "lineage depth must be positive")
	}
	if !r.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid lineage direction %q", r.Direction)
	}
	return nil
}

// Relation is one edge of a graph lineage response.
type Relation struct {
	FromEntityID   string `json:"fromEntityId"`
	ToEntityID     string `json:"toEntityId"`
	RelationshipID string `json:"relationshipId,omitempty"`
}

// Response is the result of a graph lineage call.
type Response struct {
	BaseEntityGUID   string                       `json:"baseEntityGuid"`
	LineageDirection model.LegacyLineageDirection `json:"lineageDirection"`
	LineageDepth     int                          `json:"lineageDepth"`
	GUIDEntityMap    model.EntityMap              `json:"guidEntityMap"`
	Relations        []Relation                   `json:"relations"`

	graphOnce sync.Once
	graph     *Graph
}

// Graph builds (once) the adjacency graph of the response. Nodes follow the
// base entity and then the relations in order; entities without relations
// come last, sorted by GUID. Entities whose type is a process type are
// marked as processes. Graph is safe to call from several goroutines.
func (r *Response) Graph() *Graph {
	r.graphOnce.Do(func() {
		g := NewGraph()
		if r.BaseEntityGUID != "" {
			g.AddNode(r.BaseEntityGUID)
		}
		for _, rel := range r.Relations {
			g.AddEdge(rel.FromEntityID, rel.ToEntityID)
		}
		ids := make([]string, 0, len(r.GUIDEntityMap))
		for guid := range r.GUIDEntityMap {
			ids = append(ids, guid)
		}
		slices.Sort(ids)
		for _, guid := range ids {
			g.AddNode(guid)
			if model.IsProcess(r.GUIDEntityMap[guid].Header().TypeName) {
				g.MarkProcess(guid)
			}
		}
		r.graph = g
	})
	return r.graph
}

// Entity returns the entity for guid from the response.
func (r *Response) Entity(guid string) (model.Entity, bool) {
	e, ok := r.GUIDEntityMap[guid]
	return e, ok
}

// Entities resolves guids to entities, skipping unknown ones.
func (r *Response) Entities(guids []string) []model.Entity {
	out := make([]model.Entity, 0, len(guids))
	for _, guid := range guids {
		if e, ok := r.GUIDEntityMap[guid]; ok {
			out = append(out, e)
		}
	}
	return out
}

func (r *Response) start(guid string) string {
	if guid == "" {
		return r.BaseEntityGUID
	}
	return guid
}

// AllUpstreamDFS returns all upstream entities (assets and processes) of
// guid, or of the base entity when guid is empty.
func (r *Response) AllUpstreamDFS(guid string) []model.Entity {
	return r.Entities(r.Graph().AllUpstreamDFS(r.start(guid)))
}

// AllDownstreamDFS returns all downstream entities of guid.
func (r *Response) AllDownstreamDFS(guid string) []model.Entity {
	return r.Entities(r.Graph().AllDownstreamDFS(r.start(guid)))
}

// AllUpstreamAssetsDFS returns all upstream assets of guid, without processes.
func (r *Response) AllUpstreamAssetsDFS(guid string) []model.Entity {
	return r.Entities(r.Graph().AllUpstreamAssetsDFS(r.start(guid)))
}

// AllDownstreamAssetsDFS returns all downstream assets of guid, without processes.
func (r *Response) AllDownstreamAssetsDFS(guid string) []model.Entity {
	return r.Entities(r.Graph().AllDownstreamAssetsDFS(r.start(guid)))
}

// UpstreamAssets returns the assets directly upstream of guid.
func (r *Response) UpstreamAssets(guid string) []model.Entity {
	return r.Entities(r.Graph().UpstreamAssets(r.start(guid)))
}

// DownstreamAssets returns the assets directly downstream of guid.
func (r *Response) DownstreamAssets(guid string) []model.Entity {
	return r.Entities(r.Graph().DownstreamAssets(r.start(guid)))
}

// UpstreamProcesses returns the processes directly feeding guid.
func (r *Response) UpstreamProcesses(guid string) []model.Entity {
	return r.Entities(r.Graph().UpstreamProcesses(r.start(guid)))
}

// DownstreamProcesses returns the processes directly reading from guid.
func (r *Response) DownstreamProcesses(guid string) []model.Entity {
	return r.Entities(r.Graph().DownstreamProcesses(r.start(guid)))
}
