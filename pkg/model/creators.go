package model

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/atlan-go/pkg/errors"
)

// now is replaced in tests.
var now = time.Now

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s is required", field)
	}
	return nil
}

func newHeader(typeName string) EntityHeader {
	return EntityHeader{TypeName: typeName, GUID: NewPlaceholderGUID()}
}

// qnParent returns the qualified name with its last n segments removed.
func qnParent(qn string, n int) string {
	parts := strings.Split(qn, "/")
	if len(parts) <= n {
		return ""
	}
	return strings.Join(parts[:len(parts)-n], "/")
}

func qnLast(qn string) string {
	return qn[strings.LastIndex(qn, "/")+1:]
}

// NewConnection creates a connection to be saved. At least one admin user,
// group or role is required. The qualified name is
// default/{connector}/{epoch seconds}.
func NewConnection(name string, connector ConnectorType, adminUsers, adminGroups, adminRoles []string) (*Connection, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if !connector.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown connector type %q", connector)
	}
	if len(adminUsers)+len(adminGroups)+len(adminRoles) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a connection needs at least one admin user, group or role")
	}
	c := &Connection{EntityHeader: newHeader(TypeConnection)}
	c.Attributes.Name = name
	c.Attributes.QualifiedName = fmt.Sprintf("default/%s/%d", connector, now().Unix())
	c.Attributes.ConnectorName = string(connector)
	c.Attributes.Category = connector.Category()
	c.Attributes.AdminUsers = adminUsers
	c.Attributes.AdminGroups = adminGroups
	c.Attributes.AdminRoles = adminRoles
	return c, nil
}

// NewDatabase creates a database inside the connection connectionQN.
func NewDatabase(name, connectionQN string) (*Database, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	connector, err := ConnectorFromQualifiedName(connectionQN)
	if err != nil {
		return nil, err
	}
	d := &Database{EntityHeader: newHeader(TypeDatabase)}
	d.Attributes.Name = name
	d.Attributes.QualifiedName = connectionQN + "/" + name
	d.Attributes.ConnectorName = string(connector)
	d.Attributes.ConnectionQualifiedName = connectionQN
	return d, nil
}

// NewSchema creates a schema inside the database databaseQN.
func NewSchema(name, databaseQN string) (*Schema, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	connector, err := ConnectorFromQualifiedName(databaseQN)
	if err != nil {
		return nil, err
	}
	s := &Schema{EntityHeader: newHeader(TypeSchema)}
	s.Attributes.Name = name
	s.Attributes.QualifiedName = databaseQN + "/" + name
	s.Attributes.ConnectorName = string(connector)
	s.Attributes.ConnectionQualifiedName = qnParent(databaseQN, 1)
	s.Attributes.DatabaseName = qnLast(databaseQN)
	s.Attributes.DatabaseQualifiedName = databaseQN
	ref := RefByQualifiedName(TypeDatabase, databaseQN)
	s.Attributes.Database = &ref
	return s, nil
}

func sqlLocation(schemaQN string) (SQLAttributes, string, error) {
	connector, err := ConnectorFromQualifiedName(schemaQN)
	if err != nil {
		return SQLAttributes{}, "", err
	}
	dbQN := qnParent(schemaQN, 1)
	return SQLAttributes{
		DatabaseName:          qnLast(dbQN),
		DatabaseQualifiedName: dbQN,
		SchemaName:            qnLast(schemaQN),
		SchemaQualifiedName:   schemaQN,
	}, string(connector), nil
}

// NewTable creates a table inside the schema schemaQN.
func NewTable(name, schemaQN string) (*Table, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	loc, connector, err := sqlLocation(schemaQN)
	if err != nil {
		return nil, err
	}
	t := &Table{EntityHeader: newHeader(TypeTable)}
	t.Attributes.Name = name
	t.Attributes.QualifiedName = schemaQN + "/" + name
	t.Attributes.ConnectorName = connector
	t.Attributes.ConnectionQualifiedName = qnParent(schemaQN, 2)
	t.Attributes.SQLAttributes = loc
	ref := RefByQualifiedName(TypeSchema, schemaQN)
	t.Attributes.Schema = &ref
	return t, nil
}

// NewView creates a view inside the schema schemaQN.
func NewView(name, schemaQN string) (*View, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	loc, connector, err := sqlLocation(schemaQN)
	if err != nil {
		return nil, err
	}
	v := &View{EntityHeader: newHeader(TypeView)}
	v.Attributes.Name = name
	v.Attributes.QualifiedName = schemaQN + "/" + name
	v.Attributes.ConnectorName = connector
	v.Attributes.ConnectionQualifiedName = qnParent(schemaQN, 2)
	v.Attributes.SQLAttributes = loc
	ref := RefByQualifiedName(TypeSchema, schemaQN)
	v.Attributes.Schema = &ref
	return v, nil
}

// NewColumn creates a column in the table or view parentQN.
// parentType must be TypeTable or TypeView; order is 1-based.
func NewColumn(name, parentType, parentQN string, order int) (*Column, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if parentType != TypeTable && parentType != TypeView {
		return nil, errors.New(errors.ErrCodeInvalidInput, "column parent must be %s or %s, got %q", TypeTable, TypeView, parentType)
	}
	if order < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "column order must be positive")
	}
	loc, connector, err := sqlLocation(qnParent(parentQN, 1))
	if err != nil {
		return nil, err
	}
	c := &Column{EntityHeader: newHeader(TypeColumn)}
	c.Attributes.Name = name
	c.Attributes.QualifiedName = parentQN + "/" + name
	c.Attributes.ConnectorName = connector
	c.Attributes.ConnectionQualifiedName = qnParent(parentQN, 3)
	c.Attributes.Order = order
	c.Attributes.SQLAttributes = loc
	ref := RefByQualifiedName(parentType, parentQN)
	if parentType == TypeTable {
		c.Attributes.TableName = qnLast(parentQN)
		c.Attributes.TableQualifiedName = parentQN
		c.Attributes.Table = &ref
	} else {
		c.Attributes.ViewName = qnLast(parentQN)
		c.Attributes.ViewQualifiedName = parentQN
		c.Attributes.View = &ref
	}
	return c, nil
}

// NewProcess creates a lineage process in connectionQN linking inputs to
// outputs. When processID is empty the qualified name ends in a hash of the
// input and output references, so recreating the same process is idempotent.
func NewProcess(name, connectionQN, processID string, inputs, outputs []Reference) (*Process, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	connector, err := ConnectorFromQualifiedName(connectionQN)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 && len(outputs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a process needs at least one input or output")
	}
	if processID == "" {
		processID = processHash(inputs, outputs)
	}
	p := &Process{EntityHeader: newHeader(TypeProcess)}
	p.Attributes.Name = name
	p.Attributes.QualifiedName = connectionQN + "/" + processID
	p.Attributes.ConnectorName = string(connector)
	p.Attributes.ConnectionQualifiedName = connectionQN
	p.Attributes.Inputs = inputs
	p.Attributes.Outputs = outputs
	return p, nil
}

func processHash(inputs, outputs []Reference) string {
	key := func(refs []Reference) []string {
		out := make([]string, len(refs))
		for i, r := range refs {
			id := r.GUID
			if qn := r.QualifiedName(); qn != "" {
				id = qn
			}
			out[i] = r.TypeName + ":" + id
		}
		slices.Sort(out)
		return out
	}
	var b strings.Builder
	for _, s := range key(inputs) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString("->\n")
	for _, s := range key(outputs) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// NewGlossary creates a glossary. The qualified name is generated and may
// be replaced by the server.
func NewGlossary(name string) (*Glossary, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	g := &Glossary{EntityHeader: newHeader(TypeGlossary)}
	g.Attributes.Name = name
	g.Attributes.QualifiedName = uuid.NewString()
	return g, nil
}

// NewGlossaryTerm creates a term anchored in the glossary with glossaryGUID.
func NewGlossaryTerm(name, glossaryGUID string) (*GlossaryTerm, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if err := errors.ValidateGUID(glossaryGUID); err != nil {
		return nil, err
	}
	t := &GlossaryTerm{EntityHeader: newHeader(TypeGlossaryTerm)}
	t.Attributes.Name = name
	t.Attributes.QualifiedName = uuid.NewString()
	anchor := RefByGUID(TypeGlossary, glossaryGUID)
	t.Attributes.Anchor = &anchor
	return t, nil
}

// NewGlossaryCategory creates a category anchored in the glossary with
// glossaryGUID, optionally nested under parent.
func NewGlossaryCategory(name, glossaryGUID string, parent *Reference) (*GlossaryCategory, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if err := errors.ValidateGUID(glossaryGUID); err != nil {
		return nil, err
	}
	c := &GlossaryCategory{EntityHeader: newHeader(TypeGlossaryCategory)}
	c.Attributes.Name = name
	c.Attributes.QualifiedName = uuid.NewString()
	anchor := RefByGUID(TypeGlossary, glossaryGUID)
	c.Attributes.Anchor = &anchor
	c.Attributes.ParentCategory = parent
	return c, nil
}

// NewPersona creates an enabled persona.
func NewPersona(name string) (*Persona, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	enabled := true
	p := &Persona{EntityHeader: newHeader(TypePersona)}
	p.Attributes.Name = name
	p.Attributes.DisplayName = name
	p.Attributes.QualifiedName = name
	p.Attributes.IsAccessControlEnabled = &enabled
	return p, nil
}

// NewPurpose creates an enabled purpose over assets tagged with any of
// atlanTags (internal tag names).
func NewPurpose(name string, atlanTags []string) (*Purpose, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if len(atlanTags) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a purpose needs at least one Atlan tag")
	}
	enabled := true
	p := &Purpose{EntityHeader: newHeader(TypePurpose)}
	p.Attributes.Name = name
	p.Attributes.DisplayName = name
	p.Attributes.QualifiedName = name
	p.Attributes.IsAccessControlEnabled = &enabled
	p.Attributes.PurposeAtlanTags = atlanTags
	return p, nil
}

// NewPersonaMetadataPolicy creates an allow policy granting actions on the
// assets under resources (qualified name prefixes) in connectionQN.
func NewPersonaMetadataPolicy(name, personaGUID, connectionQN string, actions []PersonaMetadataAction, resources []string) (*AuthPolicy, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if err := errors.ValidateGUID(personaGUID); err != nil {
		return nil, err
	}
	if err := errors.ValidateQualifiedName(connectionQN); err != nil {
		return nil, err
	}
	if len(actions) == 0 || len(resources) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a metadata policy needs actions and resources")
	}
	p := newPolicy(name, PolicyCategoryPersona, "metadata", RefByGUID(TypePersona, personaGUID))
	p.Attributes.ConnectionQualifiedName = connectionQN
	for _, a := range actions {
		p.Attributes.PolicyActions = append(p.Attributes.PolicyActions, string(a))
	}
	for _, r := range resources {
		p.Attributes.PolicyResources = append(p.Attributes.PolicyResources, "entity:"+r)
	}
	p.Attributes.PolicyResourceCategory = "CUSTOM"
	return p, nil
}

// NewPurposeMetadataPolicy creates an allow policy granting actions on
// tagged assets to the given users, groups, or everyone when allUsers is set.
func NewPurposeMetadataPolicy(name, purposeGUID string, actions []PurposeMetadataAction, users, groups []string, allUsers bool) (*AuthPolicy, error) {
	if err := required("name", name); err != nil {
		return nil, err
	}
	if err := errors.ValidateGUID(purposeGUID); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a metadata policy needs actions")
	}
	if !allUsers && len(users)+len(groups) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a purpose policy needs users, groups or allUsers")
	}
	p := newPolicy(name, PolicyCategoryPurpose, "metadata", RefByGUID(TypePurpose, purposeGUID))
	for _, a := range actions {
		p.Attributes.PolicyActions = append(p.Attributes.PolicyActions, string(a))
	}
	p.Attributes.PolicyResourceCategory = "TAG"
	if allUsers {
		p.Attributes.PolicyGroups = []string{"public"}
	} else {
		p.Attributes.PolicyUsers = users
		p.Attributes.PolicyGroups = groups
	}
	return p, nil
}

func newPolicy(name string, category AuthPolicyCategory, sub string, owner Reference) *AuthPolicy {
	p := &AuthPolicy{EntityHeader: newHeader(TypeAuthPolicy)}
	p.Attributes.Name = name
	p.Attributes.DisplayName = name
	p.Attributes.QualifiedName = name
	p.Attributes.PolicyType = PolicyAllow
	p.Attributes.PolicyCategory = category
	p.Attributes.PolicySubCategory = sub
	p.Attributes.PolicyServiceName = "atlas"
	p.Attributes.AccessControl = &owner
	return p
}
