// Package fields is the catalog of searchable asset attributes.
package fields

import "github.com/matzehuels/atlan-go/pkg/search"

// Common to all assets.
var (
	TypeName            = search.NewKeywordField("typeName", "__typeName.keyword")
	SuperTypeNames      = search.NewKeywordField("superTypeNames", "__superTypeNames.keyword")
	GUID                = search.NewKeywordField("guid", "__guid")
	Status              = search.NewKeywordField("status", "__state")
	CreatedBy           = search.NewKeywordField("createdBy", "__createdBy")
	UpdatedBy           = search.NewKeywordField("updatedBy", "__modifiedBy")
	CreateTime          = search.NewNumericField("createTime", "__timestamp")
	UpdateTime          = search.NewNumericField("updateTime", "__modificationTimestamp")
	AtlanTags           = search.NewKeywordField("classificationNames", "__traitNames")
	PropagatedAtlanTags = search.NewKeywordField("classificationNames", "__propagatedTraitNames")
	AssignedTerms       = search.NewKeywordField("meanings", "__meanings")
	HasLineage          = search.NewBooleanField("__hasLineage", "__hasLineage")

	Name                    = search.NewKeywordTextField("name", "name.keyword", "name")
	QualifiedName           = search.NewKeywordTextField("qualifiedName", "qualifiedName", "qualifiedName.text")
	DisplayName             = search.NewKeywordTextField("displayName", "displayName.keyword", "displayName")
	Description             = search.NewKeywordTextField("description", "description.keyword", "description")
	UserDescription         = search.NewKeywordTextField("userDescription", "userDescription.keyword", "userDescription")
	CertificateStatus       = search.NewKeywordTextField("certificateStatus", "certificateStatus", "certificateStatus.text")
	CertificateUpdatedAt    = search.NewNumericField("certificateUpdatedAt", "certificateUpdatedAt")
	AnnouncementType        = search.NewKeywordField("announcementType", "announcementType")
	AnnouncementTitle       = search.NewKeywordField("announcementTitle", "announcementTitle")
	OwnerUsers              = search.NewKeywordField("ownerUsers", "ownerUsers")
	OwnerGroups             = search.NewKeywordField("ownerGroups", "ownerGroups")
	ConnectorName           = search.NewKeywordField("connectorName", "connectorName")
	ConnectionQualifiedName = search.NewKeywordTextField("connectionQualifiedName", "connectionQualifiedName", "connectionQualifiedName.text")
	PopularityScore         = search.NewNumericField("popularityScore", "popularityScore")
)

// SQL assets.
var (
	DatabaseName          = search.NewKeywordTextField("databaseName", "databaseName.keyword", "databaseName")
	DatabaseQualifiedName = search.NewKeywordField("databaseQualifiedName", "databaseQualifiedName")
	SchemaName            = search.NewKeywordTextField("schemaName", "schemaName.keyword", "schemaName")
	SchemaQualifiedName   = search.NewKeywordField("schemaQualifiedName", "schemaQualifiedName")
	TableName             = search.NewKeywordTextField("tableName", "tableName.keyword", "tableName")
	TableQualifiedName    = search.NewKeywordField("tableQualifiedName", "tableQualifiedName")
	ViewName              = search.NewKeywordTextField("viewName", "viewName.keyword", "viewName")
	ViewQualifiedName     = search.NewKeywordField("viewQualifiedName", "viewQualifiedName")
	QueryCount            = search.NewNumericField("queryCount", "queryCount")
)

// Connections.
var (
	Category    = search.NewKeywordField("category", "category")
	Host        = search.NewKeywordField("host", "host")
	AdminUsers  = search.NewKeywordField("adminUsers", "adminUsers")
	AdminGroups = search.NewKeywordField("adminGroups", "adminGroups")
	AdminRoles  = search.NewKeywordField("adminRoles", "adminRoles")
)

// Tables and views.
var (
	RowCount    = search.NewNumericField("rowCount", "rowCount")
	ColumnCount = search.NewNumericField("columnCount", "columnCount")
	SizeBytes   = search.NewNumericField("sizeBytes", "sizeBytes")
	Columns     = search.RelationField{Name: "columns"}
	Schema      = search.RelationField{Name: "atlanSchema"}
)

// Columns.
var (
	DataType   = search.NewKeywordTextField("dataType", "dataType", "dataType.text")
	Order      = search.NewNumericField("order", "order")
	IsNullable = search.NewBooleanField("isNullable", "isNullable")
	IsPrimary  = search.NewBooleanField("isPrimary", "isPrimary")
	Table      = search.RelationField{Name: "table"}
	View       = search.RelationField{Name: "view"}
)

// Processes.
var (
	Inputs  = search.RelationField{Name: "inputs"}
	Outputs = search.RelationField{Name: "outputs"}
	SQL     = search.NewKeywordField("sql", "sql")
)

// Glossary.
var (
	Anchor     = search.RelationField{Name: "anchor"}
	Categories = search.RelationField{Name: "categories"}
	Terms      = search.RelationField{Name: "terms"}
)
