package snapshot

import (
	"cmp"
	"slices"
	"strings"
)

// Change is an asset present in both snapshots with differing fields.
type Change struct {
	Before Record   `json:"before" yaml:"before"`
	After  Record   `json:"after" yaml:"after"`
	Fields []string `json:"fields" yaml:"fields"`
}

// Changes is the difference between two snapshots.
type Changes struct {
	Added   []Record `json:"added,omitempty" yaml:"added,omitempty"`
	Removed []Record `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed []Change `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Empty reports whether the snapshots were identical.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two snapshots by asset GUID. Results are ordered by
// qualified name. UpdateTime alone does not count as a change.
func Diff(before, after *Snapshot) Changes {
	old := make(map[string]Record, len(before.Records))
	for _, r := range before.Records {
		old[r.GUID] = r
	}

	var c Changes
	seen := make(map[string]bool, len(after.Records))
	for _, r := range after.Records {
		seen[r.GUID] = true
		prev, ok := old[r.GUID]
		if !ok {
			c.Added = append(c.Added, r)
			continue
		}
		if fields := changedFields(prev, r); len(fields) > 0 {
			c.Changed = append(c.Changed, Change{Before: prev, After: r, Fields: fields})
		}
	}
	for _, r := range before.Records {
		if !seen[r.GUID] {
			c.Removed = append(c.Removed, r)
		}
	}

	byQN := func(a, b Record) int {
		return cmp.Or(strings.Compare(a.QualifiedName, b.QualifiedName), strings.Compare(a.GUID, b.GUID))
	}
	slices.SortFunc(c.Added, byQN)
	slices.SortFunc(c.Removed, byQN)
	slices.SortFunc(c.Changed, func(a, b Change) int { return byQN(a.After, b.After) })
	return c
}

func changedFields(a, b Record) []string {
	var fields []string
	diff := func(name string, changed bool) {
		if changed {
			fields = append(fields, name)
		}
	}
	diff("typeName", a.TypeName != b.TypeName)
	diff("qualifiedName", a.QualifiedName != b.QualifiedName)
	diff("name", a.Name != b.Name)
	diff("status", a.Status != b.Status)
	diff("certificateStatus", a.CertificateStatus != b.CertificateStatus)
	diff("description", a.Description != b.Description)
	diff("ownerUsers", !slices.Equal(a.OwnerUsers, b.OwnerUsers))
	diff("ownerGroups", !slices.Equal(a.OwnerGroups, b.OwnerGroups))
	diff("atlanTags", !slices.Equal(a.AtlanTags, b.AtlanTags))
	return fields
}
