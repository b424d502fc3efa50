package snapshot

import (
	"cmp"
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// Record is the part of an asset a snapshot keeps.
type Record struct {
	GUID              string   `json:"guid" bson:"guid" yaml:"guid"`
	TypeName          string   `json:"typeName" bson:"type_name" yaml:"typeName"`
	QualifiedName     string   `json:"qualifiedName" bson:"qualified_name" yaml:"qualifiedName"`
	Name              string   `json:"name,omitempty" bson:"name,omitempty" yaml:"name,omitempty"`
	Status            string   `json:"status,omitempty" bson:"status,omitempty" yaml:"status,omitempty"`
	CertificateStatus string   `json:"certificateStatus,omitempty" bson:"certificate_status,omitempty" yaml:"certificateStatus,omitempty"`
	Description       string   `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	OwnerUsers        []string `json:"ownerUsers,omitempty" bson:"owner_users,omitempty" yaml:"ownerUsers,omitempty"`
	OwnerGroups       []string `json:"ownerGroups,omitempty" bson:"owner_groups,omitempty" yaml:"ownerGroups,omitempty"`
	AtlanTags         []string `json:"atlanTags,omitempty" bson:"atlan_tags,omitempty" yaml:"atlanTags,omitempty"`
	UpdateTime        int64    `json:"updateTime,omitempty" bson:"update_time,omitempty" yaml:"updateTime,omitempty"`
}

// RecordOf projects e onto a Record. Owner and tag lists are sorted so
// that records compare independently of server ordering.
func RecordOf(e model.Entity) Record {
	h, a := e.Header(), e.Attrs()
	r := Record{
		GUID:              h.GUID,
		TypeName:          h.TypeName,
		QualifiedName:     a.QualifiedName,
		Name:              model.DisplayName(e),
		Status:            string(h.Status),
		CertificateStatus: string(a.CertificateStatus),
		Description:       cmp.Or(a.UserDescription, a.Description),
		OwnerUsers:        sorted(a.OwnerUsers),
		OwnerGroups:       sorted(a.OwnerGroups),
		UpdateTime:        h.UpdateTime,
	}
	for _, t := range h.Classifications {
		r.AtlanTags = append(r.AtlanTags, t.TypeName)
	}
	r.AtlanTags = sorted(r.AtlanTags)
	return r
}

func sorted(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return slices.Sorted(slices.Values(s))
}

// Snapshot is the state of a set of assets at one point in time.
type Snapshot struct {
	ID      string    `json:"id" bson:"_id" yaml:"id"`
	Name    string    `json:"name" bson:"name" yaml:"name"`
	Query   string    `json:"query,omitempty" bson:"query,omitempty" yaml:"query,omitempty"`
	TakenAt time.Time `json:"takenAt" bson:"taken_at" yaml:"takenAt"`
	Count   int       `json:"count" bson:"count" yaml:"count"`
	Records []Record  `json:"records" bson:"records" yaml:"records"`
}

// FromEntities builds a named snapshot of entities, ordered by qualified
// name. Entities without a GUID are skipped.
func FromEntities(name string, entities []model.Entity) *Snapshot {
	s := &Snapshot{ID: uuid.NewString(), Name: name, TakenAt: time.Now().UTC()}
	for _, e := range entities {
		if e.Header().GUID == "" {
			continue
		}
		s.Records = append(s.Records, RecordOf(e))
	}
	slices.SortFunc(s.Records, func(a, b Record) int {
		return cmp.Or(strings.Compare(a.QualifiedName, b.QualifiedName), strings.Compare(a.GUID, b.GUID))
	})
	s.Count = len(s.Records)
	return s
}

// Summary describes a stored snapshot without its records.
type Summary struct {
	ID      string    `json:"id" bson:"_id" yaml:"id"`
	Name    string    `json:"name" bson:"name" yaml:"name"`
	TakenAt time.Time `json:"takenAt" bson:"taken_at" yaml:"takenAt"`
	Count   int       `json:"count" bson:"count" yaml:"count"`
}

// Summary returns s without its records.
func (s *Snapshot) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name, TakenAt: s.TakenAt, Count: s.Count}
}

// WriteYAML writes s as a YAML document.
func (s *Snapshot) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML reads a snapshot written by WriteYAML.
func ReadYAML(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode snapshot")
	}
	if s.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot has no id")
	}
	s.Count = len(s.Records)
	return &s, nil
}

// Store persists snapshots.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	// Load returns a NOT_FOUND error when no snapshot has the id.
	Load(ctx context.Context, id string) (*Snapshot, error)
	// List returns summaries, most recent first.
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func sortSummaries(sums []Summary) {
	slices.SortFunc(sums, func(a, b Summary) int {
		return cmp.Or(b.TakenAt.Compare(a.TakenAt), strings.Compare(a.ID, b.ID))
	})
}

// Resolve loads the snapshot ref refers to: an id, a unique id prefix of
// at least four characters, or a name, in which case the most recent
// snapshot of that name wins.
func Resolve(ctx context.Context, store Store, ref string) (*Snapshot, error) {
	sums, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	var byPrefix []string
	for _, s := range sums {
		if s.ID == ref {
			return store.Load(ctx, s.ID)
		}
		if len(ref) >= 4 && strings.HasPrefix(s.ID, ref) {
			byPrefix = append(byPrefix, s.ID)
		}
	}
	switch len(byPrefix) {
	case 1:
		return store.Load(ctx, byPrefix[0])
	case 0:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot id prefix %q is ambiguous", ref)
	}
	// sums are most recent first
	for _, s := range sums {
		if s.Name == ref {
			return store.Load(ctx, s.ID)
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no snapshot %q", ref)
}
