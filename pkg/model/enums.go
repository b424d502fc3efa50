package model

import (
	"slices"
	"strings"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// parseEnum matches s case-insensitively against values.
func parseEnum[T ~string](kind, s string, values []T) (T, error) {
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	var zero T
	return zero, errors.New(errors.ErrCodeInvalidInput, "unknown %s %q", kind, s)
}

// EntityStatus is the lifecycle state of an asset.
type EntityStatus string

const (
	StatusActive  EntityStatus = "ACTIVE"
	StatusDeleted EntityStatus = "DELETED"
	StatusPurged  EntityStatus = "PURGED"
)

var entityStatuses = []EntityStatus{StatusActive, StatusDeleted, StatusPurged}

func (s EntityStatus) String() string { return string(s) }
func (s EntityStatus) Valid() bool    { return slices.Contains(entityStatuses, s) }

// ParseEntityStatus parses a status name.
func ParseEntityStatus(s string) (EntityStatus, error) {
	return parseEnum("entity status", s, entityStatuses)
}

// CertificateStatus is the certification applied to an asset.
type CertificateStatus string

const (
	CertificateDraft      CertificateStatus = "DRAFT"
	CertificateVerified   CertificateStatus = "VERIFIED"
	CertificateDeprecated CertificateStatus = "DEPRECATED"
)

var certificateStatuses = []CertificateStatus{CertificateDraft, CertificateVerified, CertificateDeprecated}

func (s CertificateStatus) String() string { return string(s) }
func (s CertificateStatus) Valid() bool    { return slices.Contains(certificateStatuses, s) }

// ParseCertificateStatus parses a certificate name such as "verified".
func ParseCertificateStatus(s string) (CertificateStatus, error) {
	return parseEnum("certificate status", s, certificateStatuses)
}

// DeleteType controls how assets are removed.
// SOFT archives (restorable), HARD and PURGE remove permanently.
type DeleteType string

const (
	DeleteSoft  DeleteType = "SOFT"
	DeleteHard  DeleteType = "HARD"
	DeletePurge DeleteType = "PURGE"
)

var deleteTypes = []DeleteType{DeleteSoft, DeleteHard, DeletePurge}

func (d DeleteType) String() string { return string(d) }
func (d DeleteType) Valid() bool    { return slices.Contains(deleteTypes, d) }

// ParseDeleteType parses a delete type name.
func ParseDeleteType(s string) (DeleteType, error) {
	return parseEnum("delete type", s, deleteTypes)
}

// AnnouncementType is the severity of an announcement banner.
type AnnouncementType string

const (
	AnnouncementInformation AnnouncementType = "information"
	AnnouncementWarning     AnnouncementType = "warning"
	AnnouncementIssue       AnnouncementType = "issue"
)

var announcementTypes = []AnnouncementType{AnnouncementInformation, AnnouncementWarning, AnnouncementIssue}

func (a AnnouncementType) String() string { return string(a) }
func (a AnnouncementType) Valid() bool    { return slices.Contains(announcementTypes, a) }

// ParseAnnouncementType parses an announcement type name.
func ParseAnnouncementType(s string) (AnnouncementType, error) {
	return parseEnum("announcement type", s, announcementTypes)
}

// ConnectionCategory groups connectors by the kind of system they connect to.
type ConnectionCategory string

const (
	CategoryWarehouse   ConnectionCategory = "warehouse"
	CategoryDatabase    ConnectionCategory = "database"
	CategoryBI          ConnectionCategory = "bi"
	CategoryObjectStore ConnectionCategory = "ObjectStore"
	CategorySaaS        ConnectionCategory = "SaaS"
	CategoryLake        ConnectionCategory = "lake"
	CategoryQueryEngine ConnectionCategory = "queryengine"
	CategoryELT         ConnectionCategory = "elt"
	CategoryEventBus    ConnectionCategory = "eventbus"
	CategoryCustom      ConnectionCategory = "custom"
)

// ConnectorType identifies the source system of a connection.
type ConnectorType string

const (
	ConnectorSnowflake  ConnectorType = "snowflake"
	ConnectorPostgres   ConnectorType = "postgres"
	ConnectorMySQL      ConnectorType = "mysql"
	ConnectorOracle     ConnectorType = "oracle"
	ConnectorMSSQL      ConnectorType = "mssql"
	ConnectorRedshift   ConnectorType = "redshift"
	ConnectorBigQuery   ConnectorType = "bigquery"
	ConnectorDatabricks ConnectorType = "databricks"
	ConnectorAthena     ConnectorType = "athena"
	ConnectorPresto     ConnectorType = "presto"
	ConnectorTrino      ConnectorType = "trino"
	ConnectorHive       ConnectorType = "hive"
	ConnectorGlue       ConnectorType = "glue"
	ConnectorS3         ConnectorType = "s3"
	ConnectorGCS        ConnectorType = "gcs"
	ConnectorADLS       ConnectorType = "adls"
	ConnectorTableau    ConnectorType = "tableau"
	ConnectorLooker     ConnectorType = "looker"
	ConnectorPowerBI    ConnectorType = "powerbi"
	ConnectorMetabase   ConnectorType = "metabase"
	ConnectorSalesforce ConnectorType = "salesforce"
	ConnectorDBT        ConnectorType = "dbt"
	ConnectorFivetran   ConnectorType = "fivetran"
	ConnectorAirflow    ConnectorType = "airflow"
	ConnectorKafka      ConnectorType = "kafka"
	ConnectorAPI        ConnectorType = "api"
)

var connectorCategories = map[ConnectorType]ConnectionCategory{
	ConnectorSnowflake:  CategoryWarehouse,
	ConnectorPostgres:   CategoryDatabase,
	ConnectorMySQL:      CategoryDatabase,
	ConnectorOracle:     CategoryDatabase,
	ConnectorMSSQL:      CategoryDatabase,
	ConnectorRedshift:   CategoryWarehouse,
	ConnectorBigQuery:   CategoryWarehouse,
	ConnectorDatabricks: CategoryLake,
	ConnectorAthena:     CategoryQueryEngine,
	ConnectorPresto:     CategoryQueryEngine,
	ConnectorTrino:      CategoryQueryEngine,
	ConnectorHive:       CategoryQueryEngine,
	ConnectorGlue:       CategoryLake,
	ConnectorS3:         CategoryObjectStore,
	ConnectorGCS:        CategoryObjectStore,
	ConnectorADLS:       CategoryObjectStore,
	ConnectorTableau:    CategoryBI,
	ConnectorLooker:     CategoryBI,
	ConnectorPowerBI:    CategoryBI,
	ConnectorMetabase:   CategoryBI,
	ConnectorSalesforce: CategorySaaS,
	ConnectorDBT:        CategoryELT,
	ConnectorFivetran:   CategoryELT,
	ConnectorAirflow:    CategoryELT,
	ConnectorKafka:      CategoryEventBus,
	ConnectorAPI:        CategoryCustom,
}

func (c ConnectorType) String() string { return string(c) }

// Valid reports whether c is a known connector.
func (c ConnectorType) Valid() bool {
	_, ok := connectorCategories[c]
	return ok
}

// Category returns the connection category of c, or CategoryCustom if unknown.
func (c ConnectorType) Category() ConnectionCategory {
	if cat, ok := connectorCategories[c]; ok {
		return cat
	}
	return CategoryCustom
}

// ParseConnectorType parses a connector name.
func ParseConnectorType(s string) (ConnectorType, error) {
	c := ConnectorType(strings.ToLower(s))
	if !c.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown connector type %q", s)
	}
	return c, nil
}

// ConnectorFromQualifiedName extracts the connector from a qualified name of
// the form default/{connector}/{epoch}/...
func ConnectorFromQualifiedName(qn string) (ConnectorType, error) {
	parts := strings.Split(qn, "/")
	if len(parts) < 3 || parts[0] != "default" || parts[1] == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "qualified name %q is not connection-scoped", qn)
	}
	return ParseConnectorType(parts[1])
}

// AuthPolicyType is the effect of an access policy.
type AuthPolicyType string

const (
	PolicyAllow           AuthPolicyType = "allow"
	PolicyDeny            AuthPolicyType = "deny"
	PolicyAllowExceptions AuthPolicyType = "allowExceptions"
	PolicyDenyExceptions  AuthPolicyType = "denyExceptions"
	PolicyDataMask        AuthPolicyType = "dataMask"
)

// AuthPolicyCategory is the kind of object that owns a policy.
type AuthPolicyCategory string

const (
	PolicyCategoryBootstrap AuthPolicyCategory = "bootstrap"
	PolicyCategoryPersona   AuthPolicyCategory = "persona"
	PolicyCategoryPurpose   AuthPolicyCategory = "purpose"
)

// PersonaMetadataAction is an action a persona grants on asset metadata.
type PersonaMetadataAction string

const (
	PersonaAssetRead       PersonaMetadataAction = "persona-asset-read"
	PersonaAssetUpdate     PersonaMetadataAction = "persona-asset-update"
	PersonaAPICreate       PersonaMetadataAction = "persona-api-create"
	PersonaAPIDelete       PersonaMetadataAction = "persona-api-delete"
	PersonaBusinessUpdate  PersonaMetadataAction = "persona-business-update-metadata"
	PersonaEntityAddTag    PersonaMetadataAction = "persona-entity-add-classification"
	PersonaEntityRemoveTag PersonaMetadataAction = "persona-entity-remove-classification"
	PersonaAddTerms        PersonaMetadataAction = "persona-add-terms"
	PersonaRemoveTerms     PersonaMetadataAction = "persona-remove-terms"
)

// PersonaGlossaryAction is an action a persona grants on glossary objects.
type PersonaGlossaryAction string

const (
	PersonaGlossaryCreate PersonaGlossaryAction = "persona-glossary-create"
	PersonaGlossaryRead   PersonaGlossaryAction = "persona-glossary-read"
	PersonaGlossaryUpdate PersonaGlossaryAction = "persona-glossary-update"
	PersonaGlossaryDelete PersonaGlossaryAction = "persona-glossary-delete"
)

// PurposeMetadataAction is an action a purpose grants on tagged assets.
type PurposeMetadataAction string

const (
	PurposeAssetRead   PurposeMetadataAction = "entity-read"
	PurposeAssetUpdate PurposeMetadataAction = "entity-update"
	PurposeAddTag      PurposeMetadataAction = "entity-add-classification"
	PurposeRemoveTag   PurposeMetadataAction = "entity-remove-classification"
)

// DataAction is an action on the data of an asset (queries, previews).
type DataAction string

const (
	DataSelect DataAction = "select"
)

// WorkspaceRole is the tenant-wide role of a user.
type WorkspaceRole string

const (
	RoleAdmin  WorkspaceRole = "$admin"
	RoleMember WorkspaceRole = "$member"
	RoleGuest  WorkspaceRole = "$guest"
)

var workspaceRoles = []WorkspaceRole{RoleAdmin, RoleMember, RoleGuest}

func (r WorkspaceRole) String() string { return string(r) }
func (r WorkspaceRole) Valid() bool    { return slices.Contains(workspaceRoles, r) }

// ParseWorkspaceRole accepts "admin" or "$admin".
func ParseWorkspaceRole(s string) (WorkspaceRole, error) {
	if !strings.HasPrefix(s, "$") {
		s = "$" + s
	}
	return parseEnum("workspace role", s, workspaceRoles)
}

// LineageDirection is the direction of a lineage list request.
type LineageDirection string

const (
	Upstream   LineageDirection = "UPSTREAM"
	Downstream LineageDirection = "DOWNSTREAM"
)

var lineageDirections = []LineageDirection{Upstream, Downstream}

func (d LineageDirection) String() string { return string(d) }
func (d LineageDirection) Valid() bool    { return slices.Contains(lineageDirections, d) }

// ParseLineageDirection parses "upstream" or "downstream".
func ParseLineageDirection(s string) (LineageDirection, error) {
	return parseEnum("lineage direction", s, lineageDirections)
}

// LegacyLineageDirection is the direction used by the graph lineage endpoint.
type LegacyLineageDirection string

const (
	LineageInput  LegacyLineageDirection = "INPUT"
	LineageOutput LegacyLineageDirection = "OUTPUT"
	LineageBoth   LegacyLineageDirection = "BOTH"
)

var legacyDirections = []LegacyLineageDirection{LineageInput, LineageOutput, LineageBoth}

func (d LegacyLineageDirection) String() string { return string(d) }
func (d LegacyLineageDirection) Valid() bool    { return slices.Contains(legacyDirections, d) }

// ParseLegacyLineageDirection parses "input", "output" or "both".
func ParseLegacyLineageDirection(s string) (LegacyLineageDirection, error) {
	return parseEnum("lineage direction", s, legacyDirections)
}

// SortOrder is the direction of a search sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)
