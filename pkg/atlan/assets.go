package atlan

import (
	"context"
	"encoding/json"
	"net/url"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/atlan-go/pkg/api"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/search"
	"github.com/matzehuels/atlan-go/pkg/search/fields"
)

// maxParallelGets bounds GetByGUIDs fan-out.
const maxParallelGets = 8

// AssetService reads, writes and searches assets.
type AssetService struct {
	api  *api.Client
	tags *TagCache
}

// GetOptions trims what a single-asset read returns.
type GetOptions struct {
	MinExtInfo          bool
	IgnoreRelationships bool
}

func (o GetOptions) query() url.Values {
	return url.Values{
		"minExtInfo":          {strconv.FormatBool(o.MinExtInfo)},
		"ignoreRelationships": {strconv.FormatBool(o.IgnoreRelationships)},
	}
}

type entityResponse struct {
	Entity           model.Entity    `json:"-"`
	ReferredEntities model.EntityMap `json:"referredEntities,omitempty"`
}

func (r *entityResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Entity           json.RawMessage `json:"entity"`
		ReferredEntities model.EntityMap `json:"referredEntities"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ReferredEntities = raw.ReferredEntities
	if len(raw.Entity) == 0 || string(raw.Entity) == "null" {
		return nil
	}
	e, err := model.DecodeEntity(raw.Entity)
	if err != nil {
		return err
	}
	r.Entity = e
	return nil
}

// GetByGUID retrieves one asset.
func (s *AssetService) GetByGUID(ctx context.Context, guid string, opts GetOptions) (model.Entity, error) {
	if err := errors.ValidateGUID(guid); err != nil {
		return nil, err
	}
	var resp entityResponse
	err := s.api.Call(ctx, api.GetEntityByGUID, api.Request{
		PathParams: map[string]string{"guid": guid},
		Query:      opts.query(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return found(resp.Entity, "asset %s", guid)
}

// GetByQualifiedName retrieves one asset by type and qualified name.
func (s *AssetService) GetByQualifiedName(ctx context.Context, typeName, qualifiedName string, opts GetOptions) (model.Entity, error) {
	if err := errors.ValidateTypeName(typeName); err != nil {
		return nil, err
	}
	if err := errors.ValidateQualifiedName(qualifiedName); err != nil {
		return nil, err
	}
	q := opts.query()
	q.Set("attr:qualifiedName", qualifiedName)

	var resp entityResponse
	err := s.api.Call(ctx, api.GetEntityByUniqueAttr, api.Request{
		PathParams: map[string]string{"typeName": typeName},
		Query:      q,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return found(resp.Entity, "%s %s", typeName, qualifiedName)
}

// Get retrieves one asset by GUID as a concrete type.
func Get[T model.Entity](ctx context.Context, c *Client, guid string) (T, error) {
	var zero T
	e, err := c.Assets.GetByGUID(ctx, guid, GetOptions{})
	if err != nil {
		return zero, err
	}
	t, ok := model.As[T](e)
	if !ok {
		return zero, errors.New(errors.ErrCodeInvalidInput, "asset %s is a %s", guid, e.Header().TypeName)
	}
	return t, nil
}

// GetByGUIDs retrieves several assets concurrently. Results keep the order
// of guids; the first failure cancels the rest.
func (s *AssetService) GetByGUIDs(ctx context.Context, guids []string, opts GetOptions) ([]model.Entity, error) {
	out := make([]model.Entity, len(guids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelGets)
	for i, guid := range guids {
		g.Go(func() error {
			e, err := s.GetByGUID(ctx, guid, opts)
			if err != nil {
				return err
			}
			out[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveOptions controls how tags and custom metadata on saved assets are
// treated.
type SaveOptions struct {
	// ReplaceAtlanTags overwrites the assets' tags with those sent.
	ReplaceAtlanTags bool
	// ReplaceCustomMetadata overwrites custom metadata with that sent.
	ReplaceCustomMetadata bool
}

// Save creates or updates assets in one bulk call. Assets are matched on
// type and qualified name; placeholder GUIDs are resolved in the response's
// GUID assignments.
func (s *AssetService) Save(ctx context.Context, opts SaveOptions, entities ...model.Entity) (*model.AssetMutationResponse, error) {
	if len(entities) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no assets to save")
	}
	for _, e := range entities {
		a := e.Attrs()
		if err := errors.ValidateTypeName(e.Header().TypeName); err != nil {
			return nil, err
		}
		if err := errors.ValidateQualifiedName(a.QualifiedName); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s %q", e.Header().TypeName, a.Name)
		}
	}

	var resp model.AssetMutationResponse
	err := s.api.Call(ctx, api.BulkUpdateEntities, api.Request{
		Query: url.Values{
			"replaceClassifications":    {strconv.FormatBool(opts.ReplaceAtlanTags)},
			"replaceBusinessAttributes": {strconv.FormatBool(opts.ReplaceCustomMetadata)},
		},
		Body: model.BulkRequest{Entities: entities},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes assets. Soft deletes archive them and can be restored.
func (s *AssetService) Delete(ctx context.Context, kind model.DeleteType, guids ...string) (*model.AssetMutationResponse, error) {
	if !kind.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid delete type %q", kind)
	}
	q, err := guidQuery(guids)
	if err != nil {
		return nil, err
	}
	q.Set("deleteType", kind.String())

	var resp model.AssetMutationResponse
	if err := s.api.Call(ctx, api.DeleteEntitiesByGUIDs, api.Request{Query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Restore reactivates soft-deleted assets.
func (s *AssetService) Restore(ctx context.Context, guids ...string) (*model.AssetMutationResponse, error) {
	q, err := guidQuery(guids)
	if err != nil {
		return nil, err
	}
	var resp model.AssetMutationResponse
	if err := s.api.Call(ctx, api.RestoreEntities, api.Request{Query: q}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func guidQuery(guids []string) (url.Values, error) {
	if len(guids) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no GUIDs given")
	}
	for _, g := range guids {
		if err := errors.ValidateGUID(g); err != nil {
			return nil, err
		}
	}
	return url.Values{"guid": slices.Clone(guids)}, nil
}

// TagOptions controls how added tags propagate.
type TagOptions struct {
	Propagate                  bool
	RemovePropagationsOnDelete bool
	RestrictLineagePropagation bool
}

type tagAssignment struct {
	TypeName                          string `json:"typeName"`
	Propagate                         bool   `json:"propagate"`
	RemovePropagationsOnEntityDelete  bool   `json:"removePropagationsOnEntityDelete"`
	RestrictPropagationThroughLineage bool   `json:"restrictPropagationThroughLineage"`
}

// AddAtlanTags adds tags by display name to the asset with the given type
// and qualified name.
func (s *AssetService) AddAtlanTags(ctx context.Context, typeName, qualifiedName string, opts TagOptions, tagNames ...string) error {
	if len(tagNames) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no tags given")
	}
	body := make([]tagAssignment, 0, len(tagNames))
	for _, name := range tagNames {
		id, err := s.tags.IDForName(ctx, name)
		if err != nil {
			return err
		}
		body = append(body, tagAssignment{
			TypeName:                          id,
			Propagate:                         opts.Propagate,
			RemovePropagationsOnEntityDelete:  opts.RemovePropagationsOnDelete,
			RestrictPropagationThroughLineage: opts.RestrictLineagePropagation,
		})
	}
	return s.api.Call(ctx, api.AddTagsByUniqueAttr, api.Request{
		PathParams: map[string]string{"typeName": typeName},
		Query:      url.Values{"attr:qualifiedName": {qualifiedName}},
		Body:       body,
	}, nil)
}

// RemoveAtlanTag removes one tag by display name.
func (s *AssetService) RemoveAtlanTag(ctx context.Context, typeName, qualifiedName, tagName string) error {
	id, err := s.tags.IDForName(ctx, tagName)
	if err != nil {
		return err
	}
	return s.api.Call(ctx, api.DeleteTagByUniqueAttr, api.Request{
		PathParams: map[string]string{"typeName": typeName, "tagName": id},
		Query:      url.Values{"attr:qualifiedName": {qualifiedName}},
	}, nil)
}

// UpdateCertificate sets the certificate of an asset and returns the
// updated asset, or nil when nothing changed.
func (s *AssetService) UpdateCertificate(ctx context.Context, typeName, qualifiedName, name string, status model.CertificateStatus, message string) (model.Entity, error) {
	u, err := model.Updater(typeName, qualifiedName, name)
	if err != nil {
		return nil, err
	}
	if err := model.SetCertificate(u, status, message); err != nil {
		return nil, err
	}
	return s.saveOne(ctx, u)
}

// RemoveCertificate clears the certificate of an asset.
func (s *AssetService) RemoveCertificate(ctx context.Context, typeName, qualifiedName, name string) (model.Entity, error) {
	u, err := model.Updater(typeName, qualifiedName, name)
	if err != nil {
		return nil, err
	}
	model.RemoveCertificate(u)
	return s.saveOne(ctx, u)
}

// UpdateAnnouncement sets the announcement of an asset.
func (s *AssetService) UpdateAnnouncement(ctx context.Context, typeName, qualifiedName, name string, typ model.AnnouncementType, title, message string) (model.Entity, error) {
	u, err := model.Updater(typeName, qualifiedName, name)
	if err != nil {
		return nil, err
	}
	if err := model.SetAnnouncement(u, typ, title, message); err != nil {
		return nil, err
	}
	return s.saveOne(ctx, u)
}

// RemoveAnnouncement clears the announcement of an asset.
func (s *AssetService) RemoveAnnouncement(ctx context.Context, typeName, qualifiedName, name string) (model.Entity, error) {
	u, err := model.Updater(typeName, qualifiedName, name)
	if err != nil {
		return nil, err
	}
	model.RemoveAnnouncement(u)
	return s.saveOne(ctx, u)
}

func (s *AssetService) saveOne(ctx context.Context, e model.Entity) (model.Entity, error) {
	resp, err := s.Save(ctx, SaveOptions{}, e)
	if err != nil {
		return nil, err
	}
	if updated := resp.AssetsUpdated(e.Header().TypeName); len(updated) > 0 {
		return updated[0], nil
	}
	return nil, nil
}

// AssetSearchResults pages through index search results. The first page is
// fetched by Search.
type AssetSearchResults struct {
	*Pager[model.Entity]

	// ApproximateCount and Aggregations come from the first page.
	ApproximateCount int64
	Aggregations     map[string]search.AggregationResult
}

// Search runs an index search and returns a pager positioned on the first
// page. A GUID sort is appended when missing so that pages are stable, and
// assets already returned on earlier pages are skipped.
func (s *AssetService) Search(ctx context.Context, req *search.IndexSearchRequest) (*AssetSearchResults, error) {
	if req == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nil search request")
	}
	if err := req.DSL.Validate(); err != nil {
		return nil, err
	}
	base := *req
	base.DSL.Sort = withGUIDSort(req.DSL.Sort)
	first := req.DSL.From

	res := &AssetSearchResults{}
	fetch := func(ctx context.Context, offset, limit int) (Page[model.Entity], error) {
		page := base
		page.DSL.From = first + offset
		page.DSL.Size = limit
		var resp search.IndexSearchResponse
		if err := s.api.Call(ctx, api.IndexSearch, api.Request{Body: &page}, &resp); err != nil {
			return Page[model.Entity]{}, err
		}
		if offset == 0 {
			res.ApproximateCount = resp.ApproximateCount
			res.Aggregations = resp.Aggregations
		}
		total := int(resp.ApproximateCount)
		return Page[model.Entity]{
			Items: resp.Entities,
			Total: total,
			More:  hasMore(first+offset, len(resp.Entities), total),
		}, nil
	}

	res.Pager = NewPager("search", req.DSL.Size, fetch).
		dedupBy(func(e model.Entity) string { return e.Header().GUID })
	res.Next(ctx)
	if err := res.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func withGUIDSort(sorts []search.SortItem) []search.SortItem {
	guid := search.GUIDSort()
	for _, s := range sorts {
		if s.Field == guid.Field {
			return slices.Clone(sorts)
		}
	}
	return append(slices.Clone(sorts), guid)
}

// FindConnectionsByName returns active connections with the given name and
// connector type.
func (s *AssetService) FindConnectionsByName(ctx context.Context, name string, connector model.ConnectorType) ([]*model.Connection, error) {
	req, err := search.NewFluentSearch().
		Where(search.AssetType(model.TypeConnection)).
		Where(search.ActiveAssets()).
		Where(fields.Name.Eq(name)).
		Where(fields.ConnectorName.Eq(string(connector))).
		IncludeOnResults(fields.AdminUsers, fields.AdminGroups).
		ToRequest()
	if err != nil {
		return nil, err
	}
	res, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	var out []*model.Connection
	for e, err := range res.All(ctx) {
		if err != nil {
			return nil, err
		}
		if c, ok := model.As[*model.Connection](e); ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no %s connection named %q", connector, name)
	}
	return out, nil
}

// FindGlossaryByName returns the active glossary with the given name.
func (s *AssetService) FindGlossaryByName(ctx context.Context, name string) (*model.Glossary, error) {
	req, err := search.NewFluentSearch().
		Where(search.AssetType(model.TypeGlossary)).
		Where(search.ActiveAssets()).
		Where(fields.Name.Eq(name)).
		PageSize(2).
		ToRequest()
	if err != nil {
		return nil, err
	}
	res, err := s.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	for _, e := range res.Current() {
		if g, ok := model.As[*model.Glossary](e); ok {
			return g, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no glossary named %q", name)
}

func found(e model.Entity, format string, args ...any) (model.Entity, error) {
	if e == nil {
		return nil, errors.New(errors.ErrCodeNotFound, format+" not found", args...)
	}
	return e, nil
}
