package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/atlan"
	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/search"
	"github.com/matzehuels/atlan-go/pkg/search/fields"
)

// assetCommand creates the asset command group.
func (c *CLI) assetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "asset",
		Aliases: []string{"assets"},
		Short:   "Find, inspect and curate assets",
	}

	cmd.AddCommand(c.assetGetCommand())
	cmd.AddCommand(c.assetSearchCommand())
	cmd.AddCommand(c.assetDeleteCommand())
	cmd.AddCommand(c.assetRestoreCommand())
	cmd.AddCommand(c.assetCertifyCommand())
	cmd.AddCommand(c.assetTagCommand())
	cmd.AddCommand(c.assetUntagCommand())

	return cmd
}

// assetRef identifies an asset by type and qualified name.
type assetRef struct {
	typeName      string
	qualifiedName string
	name          string
}

func (r *assetRef) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&r.typeName, "type", "t", "", "asset type, e.g. Table")
	cmd.Flags().StringVarP(&r.qualifiedName, "qn", "q", "", "qualified name")
	cmd.Flags().StringVar(&r.name, "name", "", "asset name (looked up when omitted)")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("qn")
}

// resolveName fills in the asset name, which updates require.
func (r *assetRef) resolveName(ctx context.Context, client *atlan.Client) error {
	if r.name != "" {
		return nil
	}
	e, err := client.Assets.GetByQualifiedName(ctx, r.typeName, r.qualifiedName, atlan.GetOptions{MinExtInfo: true, IgnoreRelationships: true})
	if err != nil {
		return err
	}
	r.name = e.Attrs().Name
	return nil
}

// =============================================================================
// asset get
// =============================================================================

func (c *CLI) assetGetCommand() *cobra.Command {
	var ref assetRef
	cmd := &cobra.Command{
		Use:   "get [guid]",
		Short: "Show one asset by GUID or by type and qualified name",
		Example: `  atlan asset get 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b
  atlan asset get -t Table -q default/snowflake/1700000000/DB/SCHEMA/ORDERS -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}

			var e model.Entity
			switch {
			case len(args) == 1:
				e, err = client.Assets.GetByGUID(ctx, args[0], atlan.GetOptions{})
			case ref.typeName != "" && ref.qualifiedName != "":
				e, err = client.Assets.GetByQualifiedName(ctx, ref.typeName, ref.qualifiedName, atlan.GetOptions{})
			default:
				return errors.New(errors.ErrCodeInvalidInput, "give a GUID or --type and --qn")
			}
			if err != nil {
				return err
			}
			if c.output != formatTable {
				return c.emit(cmd.OutOrStdout(), e, nil)
			}
			return c.printAsset(ctx, cmd.OutOrStdout(), client, e)
		},
	}
	cmd.Flags().StringVarP(&ref.typeName, "type", "t", "", "asset type, e.g. Table")
	cmd.Flags().StringVarP(&ref.qualifiedName, "qn", "q", "", "qualified name")
	return cmd
}

// printAsset writes the governance summary of e. Tag ids are shown by
// display name when the tag cache can resolve them.
func (c *CLI) printAsset(ctx context.Context, w io.Writer, client *atlan.Client, e model.Entity) error {
	h, a := e.Header(), e.Attrs()
	fmt.Fprintln(w, StyleTitle.Render(model.DisplayName(e))+" "+StyleDim.Render(h.TypeName))
	printKeyValue(w, "GUID", h.GUID)
	printKeyValue(w, "Qualified name", a.QualifiedName)
	printKeyValue(w, "Status", string(h.Status))
	printKeyValue(w, "Certificate", renderCertificate(a.CertificateStatus))
	if a.CertificateStatusMessage != "" {
		printKeyValue(w, "", StyleDim.Render(a.CertificateStatusMessage))
	}
	if desc := firstNonEmpty(a.UserDescription, a.Description); desc != "" {
		printKeyValue(w, "Description", desc)
	}
	printKeyValue(w, "Owners", orDash(strings.Join(append(append([]string{}, a.OwnerUsers...), a.OwnerGroups...), ", ")))
	if a.AnnouncementTitle != "" {
		printKeyValue(w, "Announcement", fmt.Sprintf("[%s] %s", a.AnnouncementType, a.AnnouncementTitle))
	}
	var tags []string
	for _, t := range h.Classifications {
		name, err := client.TagCache.NameForID(ctx, t.TypeName)
		if err != nil {
			name = t.TypeName
		}
		tags = append(tags, name)
	}
	printKeyValue(w, "Atlan tags", orDash(strings.Join(tags, ", ")))
	if h.UpdateTime > 0 {
		printKeyValue(w, "Updated", formatRelativeTime(time.UnixMilli(h.UpdateTime))+" by "+h.UpdatedBy)
	}
	return nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// =============================================================================
// asset search
// =============================================================================

// searchFlags are the filters shared by asset search and snapshot take.
type searchFlags struct {
	types       []string
	name        string
	qnPrefix    string
	certificate string
	tag         string
	owner       string
	connector   string
	deleted     bool
	pageSize    int
	limit       int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.types, "type", "t", nil, "asset types to include (repeatable)")
	fl.StringVar(&f.name, "name", "", "exact asset name")
	fl.StringVar(&f.qnPrefix, "qn-prefix", "", "qualified name prefix, e.g. a connection or schema")
	fl.StringVar(&f.certificate, "certificate", "", "certificate status: verified, draft or deprecated")
	fl.StringVar(&f.tag, "tag", "", "Atlan tag display name")
	fl.StringVar(&f.owner, "owner", "", "owning user")
	fl.StringVar(&f.connector, "connector", "", "connector type, e.g. snowflake")
	fl.BoolVar(&f.deleted, "deleted", false, "search archived assets instead of active ones")
	fl.IntVar(&f.pageSize, "page-size", 100, "results per request")
	fl.IntVar(&f.limit, "limit", 50, "maximum results (0 for all)")
}

// request builds the index search. Tag names are translated to their
// internal ids through the client's tag cache.
func (f *searchFlags) request(ctx context.Context, client *atlan.Client) (*search.IndexSearchRequest, error) {
	s := search.NewFluentSearch().PageSize(f.pageSize)
	if f.deleted {
		s.Where(search.ArchivedAssets())
	} else {
		s.Where(search.ActiveAssets())
	}
	switch len(f.types) {
	case 0:
	case 1:
		s.Where(search.AssetType(f.types[0]))
	default:
		s.Where(search.AssetTypes(f.types...))
	}
	if f.name != "" {
		s.Where(fields.Name.Eq(f.name))
	}
	if f.qnPrefix != "" {
		s.Where(fields.QualifiedName.StartsWith(f.qnPrefix, false))
	}
	if f.certificate != "" {
		status, err := model.ParseCertificateStatus(f.certificate)
		if err != nil {
			return nil, err
		}
		s.Where(fields.CertificateStatus.Eq(string(status)))
	}
	if f.tag != "" {
		id, err := client.TagCache.IDForName(ctx, f.tag)
		if err != nil {
			return nil, err
		}
		s.Where(search.WithAtlanTag(id))
	}
	if f.owner != "" {
		s.Where(fields.OwnerUsers.Eq(f.owner))
	}
	if f.connector != "" {
		connector, err := model.ParseConnectorType(f.connector)
		if err != nil {
			return nil, err
		}
		s.Where(fields.ConnectorName.Eq(string(connector)))
	}
	s.IncludeOnResults(
		fields.CertificateStatus, fields.OwnerUsers, fields.OwnerGroups,
		fields.Description, fields.UserDescription, fields.ConnectorName,
	)
	return s.ToRequest()
}

// collect gathers up to f.limit results, updating spin with the count.
func (f *searchFlags) collect(ctx context.Context, res *atlan.AssetSearchResults, spin *Spinner) ([]model.Entity, error) {
	var out []model.Entity
	for e, err := range res.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, e)
		if spin != nil && len(out)%f.pageSize == 0 {
			spin.Update(fmt.Sprintf("Fetched %d of ~%d assets...", len(out), res.ApproximateCount))
		}
		if f.limit > 0 && len(out) >= f.limit {
			break
		}
	}
	return out, nil
}

// run searches and collects results behind a spinner.
func (f *searchFlags) run(ctx context.Context, client *atlan.Client) ([]model.Entity, int64, error) {
	req, err := f.request(ctx, client)
	if err != nil {
		return nil, 0, err
	}
	prog := newProgress(loggerFromContext(ctx))
	spin := newSpinnerWithContext(ctx, "Searching...")
	spin.Start()
	defer spin.Stop()

	res, err := client.Assets.Search(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	assets, err := f.collect(ctx, res, spin)
	prog.done(fmt.Sprintf("Fetched %d assets", len(assets)))
	return assets, res.ApproximateCount, err
}

func (c *CLI) assetSearchCommand() *cobra.Command {
	var (
		flags searchFlags
		pick  bool
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search assets",
		Example: `  atlan asset search -t Table --certificate verified
  atlan asset search --qn-prefix default/snowflake/1700000000 --tag PII --limit 0 -o json
  atlan asset search -t Table -t View --owner jdoe --pick`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			assets, total, err := flags.run(ctx, client)
			if err != nil {
				return err
			}

			if pick {
				if len(assets) == 0 {
					printInfo("No assets found")
					return nil
				}
				final, err := tea.NewProgram(newAssetPicker(assets)).Run()
				if err != nil {
					return fmt.Errorf("run picker: %w", err)
				}
				chosen := final.(assetPicker).Selected
				if chosen == nil {
					return nil
				}
				full, err := client.Assets.GetByGUID(ctx, chosen.Header().GUID, atlan.GetOptions{})
				if err != nil {
					return err
				}
				if c.output != formatTable {
					return c.emit(cmd.OutOrStdout(), full, nil)
				}
				return c.printAsset(ctx, cmd.OutOrStdout(), client, full)
			}

			err = c.emit(cmd.OutOrStdout(), assets, func() *table.Table { return assetTable(assets) })
			if err == nil && c.output == formatTable {
				printDetail("%d of ~%d assets", len(assets), total)
			}
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "choose one result interactively and show it")
	return cmd
}

func assetTable(assets []model.Entity) *table.Table {
	t := newTable("Type", "Name", "Certificate", "Owners", "Qualified name")
	for _, e := range assets {
		a := e.Attrs()
		t.Row(
			StyleDim.Render(e.Header().TypeName),
			model.DisplayName(e),
			renderCertificate(a.CertificateStatus),
			orDash(strings.Join(a.OwnerUsers, ", ")),
			StyleDim.Render(a.QualifiedName),
		)
	}
	return t
}

// =============================================================================
// asset delete / restore
// =============================================================================

func (c *CLI) assetDeleteCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "delete <guid>...",
		Short: "Archive or delete assets",
		Long:  `Delete assets by GUID. The default soft delete archives them so they can be restored; hard and purge remove them permanently.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := model.ParseDeleteType(kind)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			resp, err := client.Assets.Delete(ctx, dt, args...)
			if err != nil {
				return err
			}
			deleted := resp.AssetsDeleted("")
			printSuccess("Deleted %d asset(s) (%s)", len(deleted), strings.ToLower(string(dt)))
			for _, e := range deleted {
				printDetail("%s %s", e.Header().TypeName, e.Attrs().QualifiedName)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "mode", string(model.DeleteSoft), "delete mode: soft, hard or purge")
	return cmd
}

func (c *CLI) assetRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <guid>...",
		Short: "Restore archived assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			if _, err := client.Assets.Restore(ctx, args...); err != nil {
				return err
			}
			printSuccess("Restored %d asset(s)", len(args))
			return nil
		},
	}
}

// =============================================================================
// asset certify / tag / untag
// =============================================================================

func (c *CLI) assetCertifyCommand() *cobra.Command {
	var (
		ref     assetRef
		message string
	)
	cmd := &cobra.Command{
		Use:       "certify <verified|draft|deprecated|none>",
		Short:     "Set or remove an asset's certificate",
		Example:   `  atlan asset certify verified -t Table -q default/snowflake/1700000000/DB/SCHEMA/ORDERS -m "Reviewed by data eng"`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"verified", "draft", "deprecated", "none"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			if err := ref.resolveName(ctx, client); err != nil {
				return err
			}

			if strings.EqualFold(args[0], "none") {
				if _, err := client.Assets.RemoveCertificate(ctx, ref.typeName, ref.qualifiedName, ref.name); err != nil {
					return err
				}
				printSuccess("Removed certificate from %s", StyleHighlight.Render(ref.name))
				return nil
			}
			status, err := model.ParseCertificateStatus(args[0])
			if err != nil {
				return err
			}
			if _, err := client.Assets.UpdateCertificate(ctx, ref.typeName, ref.qualifiedName, ref.name, status, message); err != nil {
				return err
			}
			printSuccess("Certified %s as %s", StyleHighlight.Render(ref.name), renderCertificate(status))
			return nil
		},
	}
	ref.register(cmd)
	cmd.Flags().StringVarP(&message, "message", "m", "", "certificate message")
	return cmd
}

func (c *CLI) assetTagCommand() *cobra.Command {
	var (
		ref  assetRef
		opts atlan.TagOptions
	)
	cmd := &cobra.Command{
		Use:   "tag <tag>...",
		Short: "Add Atlan tags to an asset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Assets.AddAtlanTags(ctx, ref.typeName, ref.qualifiedName, opts, args...); err != nil {
				return err
			}
			printSuccess("Tagged %s with %s", StyleHighlight.Render(ref.qualifiedName), strings.Join(args, ", "))
			return nil
		},
	}
	ref.register(cmd)
	cmd.Flags().BoolVar(&opts.Propagate, "propagate", false, "propagate the tags to child and downstream assets")
	cmd.Flags().BoolVar(&opts.RemovePropagationsOnDelete, "remove-propagations", true, "remove propagated tags when the asset is deleted")
	cmd.Flags().BoolVar(&opts.RestrictLineagePropagation, "no-lineage-propagation", false, "do not propagate through lineage")
	return cmd
}

func (c *CLI) assetUntagCommand() *cobra.Command {
	var ref assetRef
	cmd := &cobra.Command{
		Use:   "untag <tag>",
		Short: "Remove an Atlan tag from an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			if err := client.Assets.RemoveAtlanTag(ctx, ref.typeName, ref.qualifiedName, args[0]); err != nil {
				return err
			}
			printSuccess("Removed %s from %s", args[0], StyleHighlight.Render(ref.qualifiedName))
			return nil
		},
	}
	ref.register(cmd)
	return cmd
}
