// Package model defines the typed data model of the Atlan API.
//
// Assets are Go structs that embed [EntityHeader] for the system fields and
// carry a typed Attributes struct, so they marshal to exactly the JSON the
// API expects:
//
//	t, err := model.NewTable("ORDERS", "default/snowflake/1700000000/DB/SALES")
//	if err != nil {
//	    return err
//	}
//	model.SetCertificate(t, model.CertificateVerified, "")
//
// Responses are decoded polymorphically with [DecodeEntity] and [EntityList]:
// registered type names become their struct, anything else a [GenericAsset]
// that keeps unknown attributes.
//
// Creators such as [NewConnection] and [NewTable] follow the qualified name
// conventions of the platform and assign placeholder GUIDs, so entities
// created together in one request can reference each other.
//
// The package also holds users, groups, roles, type definitions and the
// enum types used throughout the SDK.
package model
