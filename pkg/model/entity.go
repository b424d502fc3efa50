package model

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// Entity is implemented by every asset type.
type Entity interface {
	Header() *EntityHeader
	Attrs() *AssetAttributes
}

// EntityHeader holds the system-managed fields shared by all entities.
// Embedded in asset structs so the fields appear at the top level of the JSON.
type EntityHeader struct {
	TypeName        string       `json:"typeName"`
	GUID            string       `json:"guid,omitempty"`
	Status          EntityStatus `json:"status,omitempty"`
	CreatedBy       string       `json:"createdBy,omitempty"`
	UpdatedBy       string       `json:"updatedBy,omitempty"`
	CreateTime      int64        `json:"createTime,omitempty"`
	UpdateTime      int64        `json:"updateTime,omitempty"`
	Classifications []AtlanTag   `json:"classifications,omitempty"`
	MeaningNames    []string     `json:"meaningNames,omitempty"`
	Meanings        []Meaning    `json:"meanings,omitempty"`
	Labels          []string     `json:"labels,omitempty"`
	DisplayText     string       `json:"displayText,omitempty"`
}

// Header returns h. Asset types get it by embedding.
func (h *EntityHeader) Header() *EntityHeader { return h }

// IsPlaceholder reports whether the GUID is a creation placeholder.
func (h *EntityHeader) IsPlaceholder() bool { return strings.HasPrefix(h.GUID, "-") }

// AssetAttributes are the attributes shared by every asset.
type AssetAttributes struct {
	Name                     string            `json:"name,omitempty"`
	QualifiedName            string            `json:"qualifiedName,omitempty"`
	DisplayName              string            `json:"displayName,omitempty"`
	Description              string            `json:"description,omitempty"`
	UserDescription          string            `json:"userDescription,omitempty"`
	CertificateStatus        CertificateStatus `json:"certificateStatus,omitempty"`
	CertificateStatusMessage string            `json:"certificateStatusMessage,omitempty"`
	CertificateUpdatedBy     string            `json:"certificateUpdatedBy,omitempty"`
	CertificateUpdatedAt     int64             `json:"certificateUpdatedAt,omitempty"`
	AnnouncementTitle        string            `json:"announcementTitle,omitempty"`
	AnnouncementMessage      string            `json:"announcementMessage,omitempty"`
	AnnouncementType         AnnouncementType  `json:"announcementType,omitempty"`
	OwnerUsers               []string          `json:"ownerUsers,omitempty"`
	OwnerGroups              []string          `json:"ownerGroups,omitempty"`
	AdminUsers               []string          `json:"adminUsers,omitempty"`
	AdminGroups              []string          `json:"adminGroups,omitempty"`
	ConnectorName            string            `json:"connectorName,omitempty"`
	ConnectionQualifiedName  string            `json:"connectionQualifiedName,omitempty"`
}

// AtlanTag is a classification attached to an entity.
// TypeName is the hashed internal name; the display name lives in the typedef.
type AtlanTag struct {
	TypeName                          string `json:"typeName"`
	EntityGUID                        string `json:"entityGuid,omitempty"`
	EntityStatus                      string `json:"entityStatus,omitempty"`
	Propagate                         bool   `json:"propagate"`
	RemovePropagationsOnEntityDelete  bool   `json:"removePropagationsOnEntityDelete"`
	RestrictPropagationThroughLineage bool   `json:"restrictPropagationThroughLineage"`
}

// Meaning is a glossary term assigned to an entity.
type Meaning struct {
	TermGUID     string `json:"termGuid"`
	RelationGUID string `json:"relationGuid,omitempty"`
	DisplayText  string `json:"displayText,omitempty"`
	Confidence   int    `json:"confidence,omitempty"`
}

// UniqueAttributes identifies an entity by qualified name.
type UniqueAttributes struct {
	QualifiedName string `json:"qualifiedName"`
}

// Reference points at another entity, either by GUID or by qualified name.
type Reference struct {
	TypeName         string            `json:"typeName"`
	GUID             string            `json:"guid,omitempty"`
	UniqueAttributes *UniqueAttributes `json:"uniqueAttributes,omitempty"`
	DisplayText      string            `json:"displayText,omitempty"`
}

// RefByGUID creates a reference to an entity by GUID.
func RefByGUID(typeName, guid string) Reference {
	return Reference{TypeName: typeName, GUID: guid}
}

// RefByQualifiedName creates a reference to an entity by qualified name.
func RefByQualifiedName(typeName, qn string) Reference {
	return Reference{TypeName: typeName, UniqueAttributes: &UniqueAttributes{QualifiedName: qn}}
}

// RefTo references e by GUID when it has one, otherwise by qualified name.
// Placeholder GUIDs are kept so that entities created in the same request
// can refer to each other.
func RefTo(e Entity) Reference {
	h, a := e.Header(), e.Attrs()
	if h.GUID != "" {
		return Reference{TypeName: h.TypeName, GUID: h.GUID}
	}
	return RefByQualifiedName(h.TypeName, a.QualifiedName)
}

// QualifiedName returns the referenced qualified name, if known.
func (r Reference) QualifiedName() string {
	if r.UniqueAttributes != nil {
		return r.UniqueAttributes.QualifiedName
	}
	return ""
}

var placeholderSeq atomic.Int64

// NewPlaceholderGUID returns a negative-number GUID used to link entities
// before the server assigns real GUIDs. Placeholders are unique within the
// process.
func NewPlaceholderGUID() string {
	return fmt.Sprintf("-%d", placeholderSeq.Add(1))
}

// =============================================================================
// Type registry
// =============================================================================

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Entity{}
)

// RegisterType makes DecodeEntity produce values from newFn for typeName.
// Registering a name twice replaces the constructor.
func RegisterType(typeName string, newFn func() Entity) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[typeName] = newFn
}

// NewEntity returns an empty entity for typeName, falling back to
// *GenericAsset for types without a dedicated struct.
func NewEntity(typeName string) Entity {
	registryMu.RLock()
	newFn, ok := registry[typeName]
	registryMu.RUnlock()
	if !ok {
		return &GenericAsset{EntityHeader: EntityHeader{TypeName: typeName}}
	}
	e := newFn()
	e.Header().TypeName = typeName
	return e
}

// DecodeEntity decodes a single entity JSON object into its typed struct.
func DecodeEntity(data []byte) (Entity, error) {
	var peek struct {
		TypeName string `json:"typeName"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPI, err, "decode entity")
	}
	if peek.TypeName == "" {
		return nil, errors.New(errors.ErrCodeAPI, "decode entity: missing typeName")
	}
	e := NewEntity(peek.TypeName)
	if err := json.Unmarshal(data, e); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAPI, err, "decode %s", peek.TypeName)
	}
	return e, nil
}

// EntityList is a JSON array of polymorphic entities.
type EntityList []Entity

// UnmarshalJSON decodes each element with DecodeEntity.
func (l *EntityList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(EntityList, 0, len(raws))
	for _, raw := range raws {
		e, err := DecodeEntity(raw)
		if err != nil {
			return err
		}
		out = append(out, e)
	}
	*l = out
	return nil
}

// EntityMap is a JSON object of GUID to polymorphic entity.
type EntityMap map[string]Entity

// UnmarshalJSON decodes each value with DecodeEntity.
func (m *EntityMap) UnmarshalJSON(data []byte) error {
	var raws map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(EntityMap, len(raws))
	for guid, raw := range raws {
		e, err := DecodeEntity(raw)
		if err != nil {
			return err
		}
		out[guid] = e
	}
	*m = out
	return nil
}

// As returns e as T when the dynamic type matches.
func As[T Entity](e Entity) (T, bool) {
	t, ok := e.(T)
	return t, ok
}

// =============================================================================
// GenericAsset
// =============================================================================

// GenericAsset is used for types without a dedicated struct and for partial
// updates. Attributes outside AssetAttributes are kept in Other; a nil value
// in Other is sent as JSON null, which clears the attribute on the server.
type GenericAsset struct {
	EntityHeader
	Attributes AssetAttributes
	Other      map[string]any
}

func (g *GenericAsset) Attrs() *AssetAttributes { return &g.Attributes }

// Attr returns a raw attribute from Other.
func (g *GenericAsset) Attr(name string) (any, bool) {
	v, ok := g.Other[name]
	return v, ok
}

// SetAttr sets an attribute outside the common set.
func (g *GenericAsset) SetAttr(name string, v any) {
	if g.Other == nil {
		g.Other = map[string]any{}
	}
	g.Other[name] = v
}

// SetNull marks attributes to be cleared on save.
func (g *GenericAsset) SetNull(names ...string) {
	for _, n := range names {
		g.SetAttr(n, nil)
	}
}

type genericWire struct {
	EntityHeader
	Attributes map[string]any `json:"attributes"`
}

func (g GenericAsset) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(g.Attributes)
	if err != nil {
		return nil, err
	}
	attrs := map[string]any{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, err
	}
	for k, v := range g.Other {
		attrs[k] = v
	}
	return json.Marshal(genericWire{EntityHeader: g.EntityHeader, Attributes: attrs})
}

func (g *GenericAsset) UnmarshalJSON(data []byte) error {
	var wire struct {
		EntityHeader
		Attributes json.RawMessage `json:"attributes"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	g.EntityHeader = wire.EntityHeader
	g.Attributes = AssetAttributes{}
	g.Other = nil
	if len(wire.Attributes) == 0 || string(wire.Attributes) == "null" {
		return nil
	}
	if err := json.Unmarshal(wire.Attributes, &g.Attributes); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(wire.Attributes, &all); err != nil {
		return err
	}
	known := commonAttributeNames()
	for k, v := range all {
		if _, ok := known[k]; !ok {
			g.SetAttr(k, v)
		}
	}
	return nil
}

var commonAttributeNames = sync.OnceValue(func() map[string]struct{} {
	names := map[string]struct{}{}
	t := reflect.TypeOf(AssetAttributes{})
	for i := range t.NumField() {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		names[tag] = struct{}{}
	}
	return names
})
