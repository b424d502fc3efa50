package model

// AtlanRole is a workspace role.
type AtlanRole struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ClientRole  bool   `json:"clientRole,omitempty"`
	Level       string `json:"level,omitempty"`
	MemberCount string `json:"memberCount,omitempty"`
	UserCount   int    `json:"userCount,omitempty"`
}

// RoleResponse is one page of roles.
type RoleResponse struct {
	TotalRecord  int         `json:"totalRecord"`
	FilterRecord int         `json:"filterRecord"`
	Records      []AtlanRole `json:"records"`
}

// TypeDefCategory selects a kind of type definition.
type TypeDefCategory string

const (
	TypeDefAtlanTag       TypeDefCategory = "CLASSIFICATION"
	TypeDefEnum           TypeDefCategory = "ENUM"
	TypeDefStruct         TypeDefCategory = "STRUCT"
	TypeDefEntity         TypeDefCategory = "ENTITY"
	TypeDefRelationship   TypeDefCategory = "RELATIONSHIP"
	TypeDefCustomMetadata TypeDefCategory = "BUSINESS_METADATA"
)

// Query returns the value of the type query parameter for c.
func (c TypeDefCategory) Query() string {
	switch c {
	case TypeDefAtlanTag:
		return "classification"
	case TypeDefCustomMetadata:
		return "business_metadata"
	default:
		return string(c)
	}
}

// AttributeDef describes one attribute of a type.
type AttributeDef struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName,omitempty"`
	TypeName    string            `json:"typeName"`
	Description string            `json:"description,omitempty"`
	IsOptional  bool              `json:"isOptional"`
	Cardinality string            `json:"cardinality,omitempty"`
	IsUnique    bool              `json:"isUnique,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
}

// TypeDef holds the fields common to every type definition.
type TypeDef struct {
	Category      TypeDefCategory `json:"category,omitempty"`
	GUID          string          `json:"guid,omitempty"`
	Name          string          `json:"name"`
	DisplayName   string          `json:"displayName,omitempty"`
	Description   string          `json:"description,omitempty"`
	ServiceType   string          `json:"serviceType,omitempty"`
	TypeVersion   string          `json:"typeVersion,omitempty"`
	CreatedBy     string          `json:"createdBy,omitempty"`
	UpdatedBy     string          `json:"updatedBy,omitempty"`
	CreateTime    int64           `json:"createTime,omitempty"`
	UpdateTime    int64           `json:"updateTime,omitempty"`
	AttributeDefs []AttributeDef  `json:"attributeDefs,omitempty"`
}

// AtlanTagDef defines an Atlan tag. Name is a hashed id and DisplayName
// is what users see.
type AtlanTagDef struct {
	TypeDef
	SuperTypes  []string          `json:"superTypes,omitempty"`
	EntityTypes []string          `json:"entityTypes,omitempty"`
	Options     map[string]string `json:"options,omitempty"`
}

// EnumElementDef is one value of an enum.
type EnumElementDef struct {
	Value       string `json:"value"`
	Ordinal     int    `json:"ordinal"`
	Description string `json:"description,omitempty"`
}

type EnumDef struct {
	TypeDef
	ElementDefs []EnumElementDef `json:"elementDefs"`
}

// Values returns the enum values in ordinal order as received.
func (e EnumDef) Values() []string {
	out := make([]string, len(e.ElementDefs))
	for i, el := range e.ElementDefs {
		out[i] = el.Value
	}
	return out
}

type StructDef struct {
	TypeDef
}

type EntityDef struct {
	TypeDef
	SuperTypes []string `json:"superTypes,omitempty"`
	SubTypes   []string `json:"subTypes,omitempty"`
}

type RelationshipEndDef struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	IsContainer bool   `json:"isContainer"`
	Cardinality string `json:"cardinality,omitempty"`
}

type RelationshipDef struct {
	TypeDef
	RelationshipCategory string             `json:"relationshipCategory,omitempty"`
	EndDef1              RelationshipEndDef `json:"endDef1"`
	EndDef2              RelationshipEndDef `json:"endDef2"`
}

// CustomMetadataDef defines a custom metadata set.
type CustomMetadataDef struct {
	TypeDef
	Options map[string]string `json:"options,omitempty"`
}

// TypeDefResponse is the result of a typedefs call.
type TypeDefResponse struct {
	EnumDefs           []EnumDef           `json:"enumDefs,omitempty"`
	StructDefs         []StructDef         `json:"structDefs,omitempty"`
	AtlanTagDefs       []AtlanTagDef       `json:"classificationDefs,omitempty"`
	EntityDefs         []EntityDef         `json:"entityDefs,omitempty"`
	RelationshipDefs   []RelationshipDef   `json:"relationshipDefs,omitempty"`
	CustomMetadataDefs []CustomMetadataDef `json:"businessMetadataDefs,omitempty"`
}

// Len returns the total number of definitions.
func (r TypeDefResponse) Len() int {
	return len(r.EnumDefs) + len(r.StructDefs) + len(r.AtlanTagDefs) +
		len(r.EntityDefs) + len(r.RelationshipDefs) + len(r.CustomMetadataDefs)
}
