package api

import "net/http"

// Endpoint describes one REST route.
type Endpoint struct {
	Method string
	Path   string // relative to the tenant base URL, may contain {placeholders}
}

const (
	metaPrefix    = "/api/meta"
	servicePrefix = "/api/service"
)

// Asset endpoints.
var (
	GetEntityByGUID       = Endpoint{http.MethodGet, metaPrefix + "/entity/guid/{guid}"}
	GetEntityByUniqueAttr = Endpoint{http.MethodGet, metaPrefix + "/entity/uniqueAttribute/type/{typeName}"}
	BulkUpdateEntities    = Endpoint{http.MethodPost, metaPrefix + "/entity/bulk"}
	DeleteEntitiesByGUIDs = Endpoint{http.MethodDelete, metaPrefix + "/entity/bulk"}
	RestoreEntities       = Endpoint{http.MethodPost, metaPrefix + "/entity/restore/bulk"}
	AddTagsByUniqueAttr   = Endpoint{http.MethodPost, metaPrefix + "/entity/uniqueAttribute/type/{typeName}/classifications"}
	DeleteTagByUniqueAttr = Endpoint{http.MethodDelete, metaPrefix + "/entity/uniqueAttribute/type/{typeName}/classification/{tagName}"}
	IndexSearch           = Endpoint{http.MethodPost, metaPrefix + "/search/indexsearch"}
)

// Lineage endpoints.
var (
	GetLineage     = Endpoint{http.MethodPost, metaPrefix + "/lineage/getlineage"}
	GetLineageList = Endpoint{http.MethodPost, metaPrefix + "/lineage/list"}
)

// Type definition endpoints.
var (
	GetAllTypeDefs = Endpoint{http.MethodGet, metaPrefix + "/types/typedefs"}
)

// User, group and role endpoints.
var (
	GetUsers        = Endpoint{http.MethodGet, servicePrefix + "/users"}
	CreateUsers     = Endpoint{http.MethodPost, servicePrefix + "/users"}
	UpdateUser      = Endpoint{http.MethodPost, servicePrefix + "/users/{id}"}
	GetUserGroups   = Endpoint{http.MethodGet, servicePrefix + "/users/{id}/groups"}
	AddUserToGroups = Endpoint{http.MethodPost, servicePrefix + "/users/{id}/groups"}
	ChangeUserRole  = Endpoint{http.MethodPost, servicePrefix + "/users/{id}/roles/update"}
	GetCurrentUser  = Endpoint{http.MethodGet, servicePrefix + "/users/current"}
	GetRoles        = Endpoint{http.MethodGet, servicePrefix + "/roles"}
	GetGroups       = Endpoint{http.MethodGet, servicePrefix + "/groups"}
	CreateGroup     = Endpoint{http.MethodPost, servicePrefix + "/groups"}
	UpdateGroup     = Endpoint{http.MethodPost, servicePrefix + "/groups/{id}"}
	DeleteGroup     = Endpoint{http.MethodPost, servicePrefix + "/groups/{id}/delete"}
	GetGroupMembers = Endpoint{http.MethodGet, servicePrefix + "/groups/{id}/members"}
	RemoveFromGroup = Endpoint{http.MethodPost, servicePrefix + "/groups/{id}/members/remove"}
)
