package model

import "slices"

// BulkRequest is the payload of a bulk upsert.
type BulkRequest struct {
	Entities []Entity `json:"entities"`
}

// MutatedEntities groups the entities touched by a mutation by operation.
type MutatedEntities struct {
	Create        EntityList `json:"CREATE,omitempty"`
	Update        EntityList `json:"UPDATE,omitempty"`
	PartialUpdate EntityList `json:"PARTIAL_UPDATE,omitempty"`
	Delete        EntityList `json:"DELETE,omitempty"`
}

// AssetMutationResponse is returned by save, delete and restore calls.
type AssetMutationResponse struct {
	MutatedEntities *MutatedEntities  `json:"mutatedEntities,omitempty"`
	GUIDAssignments map[string]string `json:"guidAssignments,omitempty"`
}

func filterType(list EntityList, typeName string) []Entity {
	if typeName == "" {
		return list
	}
	var out []Entity
	for _, e := range list {
		if e.Header().TypeName == typeName {
			out = append(out, e)
		}
	}
	return out
}

// AssetsCreated returns the created entities of typeName, or all when empty.
func (r *AssetMutationResponse) AssetsCreated(typeName string) []Entity {
	if r == nil || r.MutatedEntities == nil {
		return nil
	}
	return filterType(r.MutatedEntities.Create, typeName)
}

// AssetsUpdated returns updated and partially updated entities of typeName.
func (r *AssetMutationResponse) AssetsUpdated(typeName string) []Entity {
	if r == nil || r.MutatedEntities == nil {
		return nil
	}
	return slices.Concat(filterType(r.MutatedEntities.Update, typeName), filterType(r.MutatedEntities.PartialUpdate, typeName))
}

// AssetsDeleted returns the deleted entities of typeName, or all when empty.
func (r *AssetMutationResponse) AssetsDeleted(typeName string) []Entity {
	if r == nil || r.MutatedEntities == nil {
		return nil
	}
	return filterType(r.MutatedEntities.Delete, typeName)
}

// AssignedGUID returns the real GUID for a placeholder sent in the request.
func (r *AssetMutationResponse) AssignedGUID(placeholder string) (string, bool) {
	if r == nil {
		return "", false
	}
	guid, ok := r.GUIDAssignments[placeholder]
	return guid, ok
}
