package model

// Type names of the assets with dedicated structs.
const (
	TypeConnection       = "Connection"
	TypeDatabase         = "Database"
	TypeSchema           = "Schema"
	TypeTable            = "Table"
	TypeView             = "View"
	TypeColumn           = "Column"
	TypeProcess          = "Process"
	TypeGlossary         = "AtlasGlossary"
	TypeGlossaryTerm     = "AtlasGlossaryTerm"
	TypeGlossaryCategory = "AtlasGlossaryCategory"
	TypePersona          = "Persona"
	TypePurpose          = "Purpose"
	TypeAuthPolicy       = "AuthPolicy"
)

func init() {
	RegisterType(TypeConnection, func() Entity { return &Connection{} })
	RegisterType(TypeDatabase, func() Entity { return &Database{} })
	RegisterType(TypeSchema, func() Entity { return &Schema{} })
	RegisterType(TypeTable, func() Entity { return &Table{} })
	RegisterType(TypeView, func() Entity { return &View{} })
	RegisterType(TypeColumn, func() Entity { return &Column{} })
	RegisterType(TypeProcess, func() Entity { return &Process{} })
	RegisterType(TypeGlossary, func() Entity { return &Glossary{} })
	RegisterType(TypeGlossaryTerm, func() Entity { return &GlossaryTerm{} })
	RegisterType(TypeGlossaryCategory, func() Entity { return &GlossaryCategory{} })
	RegisterType(TypePersona, func() Entity { return &Persona{} })
	RegisterType(TypePurpose, func() Entity { return &Purpose{} })
	RegisterType(TypeAuthPolicy, func() Entity { return &AuthPolicy{} })
}

// IsProcess reports whether typeName is a lineage process type.
func IsProcess(typeName string) bool {
	switch typeName {
	case TypeProcess, "ColumnProcess", "BIProcess", "DbtProcess", "DbtColumnProcess", "SparkJob", "AirflowTask":
		return true
	}
	return false
}

// =============================================================================
// Connections and SQL assets
// =============================================================================

type ConnectionAttributes struct {
	AssetAttributes
	Category          ConnectionCategory `json:"category,omitempty"`
	Host              string             `json:"host,omitempty"`
	Port              int                `json:"port,omitempty"`
	AdminRoles        []string           `json:"adminRoles,omitempty"`
	AllowQuery        *bool              `json:"allowQuery,omitempty"`
	AllowQueryPreview *bool              `json:"allowQueryPreview,omitempty"`
}

// Connection is the root of every connector-scoped asset hierarchy.
type Connection struct {
	EntityHeader
	Attributes ConnectionAttributes `json:"attributes"`
}

func (c *Connection) Attrs() *AssetAttributes { return &c.Attributes.AssetAttributes }

// SQLAttributes locate an asset inside its database and schema.
type SQLAttributes struct {
	DatabaseName          string `json:"databaseName,omitempty"`
	DatabaseQualifiedName string `json:"databaseQualifiedName,omitempty"`
	SchemaName            string `json:"schemaName,omitempty"`
	SchemaQualifiedName   string `json:"schemaQualifiedName,omitempty"`
	TableName             string `json:"tableName,omitempty"`
	TableQualifiedName    string `json:"tableQualifiedName,omitempty"`
	ViewName              string `json:"viewName,omitempty"`
	ViewQualifiedName     string `json:"viewQualifiedName,omitempty"`
}

type DatabaseAttributes struct {
	AssetAttributes
	SchemaCount int `json:"schemaCount,omitempty"`
}

type Database struct {
	EntityHeader
	Attributes DatabaseAttributes `json:"attributes"`
}

func (d *Database) Attrs() *AssetAttributes { return &d.Attributes.AssetAttributes }

type SchemaAttributes struct {
	AssetAttributes
	SQLAttributes
	TableCount int        `json:"tableCount,omitempty"`
	ViewCount  int        `json:"viewsCount,omitempty"`
	Database   *Reference `json:"database,omitempty"`
}

type Schema struct {
	EntityHeader
	Attributes SchemaAttributes `json:"attributes"`
}

func (s *Schema) Attrs() *AssetAttributes { return &s.Attributes.AssetAttributes }

type TableAttributes struct {
	AssetAttributes
	SQLAttributes
	ColumnCount int64      `json:"columnCount,omitempty"`
	RowCount    int64      `json:"rowCount,omitempty"`
	SizeBytes   int64      `json:"sizeBytes,omitempty"`
	Schema      *Reference `json:"atlanSchema,omitempty"`
}

type Table struct {
	EntityHeader
	Attributes TableAttributes `json:"attributes"`
}

func (t *Table) Attrs() *AssetAttributes { return &t.Attributes.AssetAttributes }

type ViewAttributes struct {
	AssetAttributes
	SQLAttributes
	ColumnCount int64      `json:"columnCount,omitempty"`
	Definition  string     `json:"definition,omitempty"`
	Schema      *Reference `json:"atlanSchema,omitempty"`
}

type View struct {
	EntityHeader
	Attributes ViewAttributes `json:"attributes"`
}

func (v *View) Attrs() *AssetAttributes { return &v.Attributes.AssetAttributes }

type ColumnAttributes struct {
	AssetAttributes
	SQLAttributes
	Order      int        `json:"order,omitempty"`
	DataType   string     `json:"dataType,omitempty"`
	IsNullable *bool      `json:"isNullable,omitempty"`
	IsPrimary  *bool      `json:"isPrimary,omitempty"`
	Table      *Reference `json:"table,omitempty"`
	View       *Reference `json:"view,omitempty"`
}

type Column struct {
	EntityHeader
	Attributes ColumnAttributes `json:"attributes"`
}

func (c *Column) Attrs() *AssetAttributes { return &c.Attributes.AssetAttributes }

// =============================================================================
// Lineage
// =============================================================================

type ProcessAttributes struct {
	AssetAttributes
	Inputs  []Reference `json:"inputs,omitempty"`
	Outputs []Reference `json:"outputs,omitempty"`
	Code    string      `json:"code,omitempty"`
	SQL     string      `json:"sql,omitempty"`
	AST     string      `json:"ast,omitempty"`
}

// Process links input assets to output assets in lineage.
type Process struct {
	EntityHeader
	Attributes ProcessAttributes `json:"attributes"`
}

func (p *Process) Attrs() *AssetAttributes { return &p.Attributes.AssetAttributes }

// =============================================================================
// Glossary
// =============================================================================

type GlossaryAttributes struct {
	AssetAttributes
	ShortDescription string `json:"shortDescription,omitempty"`
	LongDescription  string `json:"longDescription,omitempty"`
	Language         string `json:"language,omitempty"`
}

type Glossary struct {
	EntityHeader
	Attributes GlossaryAttributes `json:"attributes"`
}

func (g *Glossary) Attrs() *AssetAttributes { return &g.Attributes.AssetAttributes }

type GlossaryTermAttributes struct {
	AssetAttributes
	ShortDescription string      `json:"shortDescription,omitempty"`
	LongDescription  string      `json:"longDescription,omitempty"`
	Abbreviation     string      `json:"abbreviation,omitempty"`
	Examples         []string    `json:"examples,omitempty"`
	Anchor           *Reference  `json:"anchor,omitempty"`
	Categories       []Reference `json:"categories,omitempty"`
}

type GlossaryTerm struct {
	EntityHeader
	Attributes GlossaryTermAttributes `json:"attributes"`
}

func (g *GlossaryTerm) Attrs() *AssetAttributes { return &g.Attributes.AssetAttributes }

type GlossaryCategoryAttributes struct {
	AssetAttributes
	ShortDescription string     `json:"shortDescription,omitempty"`
	LongDescription  string     `json:"longDescription,omitempty"`
	Anchor           *Reference `json:"anchor,omitempty"`
	ParentCategory   *Reference `json:"parentCategory,omitempty"`
}

type GlossaryCategory struct {
	EntityHeader
	Attributes GlossaryCategoryAttributes `json:"attributes"`
}

func (g *GlossaryCategory) Attrs() *AssetAttributes { return &g.Attributes.AssetAttributes }

// =============================================================================
// Access control
// =============================================================================

type AccessControlAttributes struct {
	AssetAttributes
	IsAccessControlEnabled  *bool       `json:"isAccessControlEnabled,omitempty"`
	DenyCustomMetadataGUIDs []string    `json:"denyCustomMetadataGuids,omitempty"`
	DenyAssetTabs           []string    `json:"denyAssetTabs,omitempty"`
	Policies                []Reference `json:"policies,omitempty"`
}

type PersonaAttributes struct {
	AccessControlAttributes
	PersonaGroups []string `json:"personaGroups,omitempty"`
	PersonaUsers  []string `json:"personaUsers,omitempty"`
	RoleID        string   `json:"roleId,omitempty"`
}

// Persona grants a set of users and groups access to assets.
type Persona struct {
	EntityHeader
	Attributes PersonaAttributes `json:"attributes"`
}

func (p *Persona) Attrs() *AssetAttributes { return &p.Attributes.AssetAttributes }

type PurposeAttributes struct {
	AccessControlAttributes
	PurposeAtlanTags []string `json:"purposeClassifications,omitempty"`
}

// Purpose grants access to assets carrying specific Atlan tags.
type Purpose struct {
	EntityHeader
	Attributes PurposeAttributes `json:"attributes"`
}

func (p *Purpose) Attrs() *AssetAttributes { return &p.Attributes.AssetAttributes }

type AuthPolicyAttributes struct {
	AssetAttributes
	PolicyType             AuthPolicyType     `json:"policyType,omitempty"`
	PolicyCategory         AuthPolicyCategory `json:"policyCategory,omitempty"`
	PolicySubCategory      string             `json:"policySubCategory,omitempty"`
	PolicyServiceName      string             `json:"policyServiceName,omitempty"`
	PolicyResourceCategory string             `json:"policyResourceCategory,omitempty"`
	PolicyActions          []string           `json:"policyActions,omitempty"`
	PolicyResources        []string           `json:"policyResources,omitempty"`
	PolicyUsers            []string           `json:"policyUsers,omitempty"`
	PolicyGroups           []string           `json:"policyGroups,omitempty"`
	PolicyRoles            []string           `json:"policyRoles,omitempty"`
	PolicyMaskType         string             `json:"policyMaskType,omitempty"`
	AccessControl          *Reference         `json:"accessControl,omitempty"`
}

// AuthPolicy is a single rule inside a persona or purpose.
type AuthPolicy struct {
	EntityHeader
	Attributes AuthPolicyAttributes `json:"attributes"`
}

func (p *AuthPolicy) Attrs() *AssetAttributes { return &p.Attributes.AssetAttributes }
