package model

import (
	"github.com/matzehuels/atlan-go/pkg/errors"
)

// Updater returns a minimal asset for a partial update of the asset with
// the given type and qualified name. Only attributes set on the result are
// sent; everything else on the server is left untouched.
func Updater(typeName, qualifiedName, name string) (*GenericAsset, error) {
	if err := errors.ValidateTypeName(typeName); err != nil {
		return nil, err
	}
	if err := errors.ValidateQualifiedName(qualifiedName); err != nil {
		return nil, err
	}
	if err := required("name", name); err != nil {
		return nil, err
	}
	g := &GenericAsset{EntityHeader: EntityHeader{TypeName: typeName}}
	g.Attributes.QualifiedName = qualifiedName
	g.Attributes.Name = name
	return g, nil
}

// Trim reduces e to the fields needed to identify it in an update:
// type name, GUID, name and qualified name.
func Trim(e Entity) *GenericAsset {
	h, a := e.Header(), e.Attrs()
	g := &GenericAsset{EntityHeader: EntityHeader{TypeName: h.TypeName, GUID: h.GUID}}
	g.Attributes.Name = a.Name
	g.Attributes.QualifiedName = a.QualifiedName
	return g
}

// SetCertificate sets the certificate status and optional message.
func SetCertificate(e Entity, status CertificateStatus, message string) error {
	if !status.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid certificate status %q", status)
	}
	a := e.Attrs()
	a.CertificateStatus = status
	a.CertificateStatusMessage = message
	return nil
}

// RemoveCertificate clears the certificate when g is saved.
func RemoveCertificate(g *GenericAsset) {
	g.Attributes.CertificateStatus = ""
	g.Attributes.CertificateStatusMessage = ""
	g.SetNull("certificateStatus", "certificateStatusMessage")
}

// SetAnnouncement sets the announcement banner on e.
func SetAnnouncement(e Entity, typ AnnouncementType, title, message string) error {
	if !typ.Valid() {
		return errors.New(errors.ErrCodeInvalidInput, "invalid announcement type %q", typ)
	}
	if err := required("announcement title", title); err != nil {
		return err
	}
	a := e.Attrs()
	a.AnnouncementType = typ
	a.AnnouncementTitle = title
	a.AnnouncementMessage = message
	return nil
}

// RemoveAnnouncement clears the announcement when g is saved.
func RemoveAnnouncement(g *GenericAsset) {
	g.Attributes.AnnouncementType = ""
	g.Attributes.AnnouncementTitle = ""
	g.Attributes.AnnouncementMessage = ""
	g.SetNull("announcementType", "announcementTitle", "announcementMessage")
}

// SetOwners replaces the owners of e.
func SetOwners(e Entity, users, groups []string) {
	a := e.Attrs()
	a.OwnerUsers = users
	a.OwnerGroups = groups
}

// AtlanTagNames returns the internal names of the tags directly on e.
func AtlanTagNames(e Entity) []string {
	tags := e.Header().Classifications
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.TypeName)
	}
	return names
}

// DisplayName returns the display name of e, falling back to its name.
func DisplayName(e Entity) string {
	if a := e.Attrs(); a.DisplayName != "" {
		return a.DisplayName
	}
	return e.Attrs().Name
}
