package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/errors"
	"github.com/matzehuels/atlan-go/pkg/snapshot"
)

const (
	envSnapshotMongoURI = "ATLAN_SNAPSHOT_MONGO_URI"
	envSnapshotMongoDB  = "ATLAN_SNAPSHOT_MONGO_DB"
	defaultSnapshotDB   = "atlan"
)

// snapshotCommand creates the snapshot command group.
func (c *CLI) snapshotCommand() *cobra.Command {
	var mongo snapshot.MongoConfig
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Record governance state of assets and compare it over time",
		Long: `Snapshots record the certificate, owners, description and Atlan tags of
the assets matched by a search. Two snapshots can be compared to see what
was added, removed or changed in between.

Snapshots are kept as files under the config directory, or in MongoDB when
--mongo-uri or ` + envSnapshotMongoURI + ` is set.`,
	}
	cmd.PersistentFlags().StringVar(&mongo.URI, "mongo-uri", os.Getenv(envSnapshotMongoURI), "MongoDB URI for the snapshot store")
	cmd.PersistentFlags().StringVar(&mongo.Database, "mongo-db", envOr(envSnapshotMongoDB, defaultSnapshotDB), "MongoDB database")

	open := func(ctx context.Context) (snapshot.Store, error) { return openSnapshotStore(ctx, mongo) }
	cmd.AddCommand(c.snapshotTakeCommand(open))
	cmd.AddCommand(c.snapshotListCommand(open))
	cmd.AddCommand(c.snapshotDiffCommand(open))
	cmd.AddCommand(c.snapshotExportCommand(open))
	cmd.AddCommand(c.snapshotImportCommand(open))
	cmd.AddCommand(c.snapshotDeleteCommand(open))

	return cmd
}

type storeOpener func(ctx context.Context) (snapshot.Store, error)

func openSnapshotStore(ctx context.Context, mongo snapshot.MongoConfig) (snapshot.Store, error) {
	if mongo.URI != "" {
		loggerFromContext(ctx).Debug("using mongo snapshot store", "db", mongo.Database)
		return snapshot.NewMongoStore(ctx, mongo)
	}
	dir, err := snapshot.DefaultDir()
	if err != nil {
		return nil, err
	}
	return snapshot.NewFileStore(dir)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// describe renders the filters as a short query string stored with a snapshot.
func (f *searchFlags) describe() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("type", strings.Join(f.types, ","))
	add("name", f.name)
	add("qn-prefix", f.qnPrefix)
	add("certificate", f.certificate)
	add("tag", f.tag)
	add("owner", f.owner)
	add("connector", f.connector)
	if f.deleted {
		parts = append(parts, "deleted")
	}
	return strings.Join(parts, " ")
}

func (c *CLI) snapshotTakeCommand(open storeOpener) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "take <name>",
		Short: "Snapshot the assets matched by a search",
		Example: `  atlan snapshot take orders-verified -t Table --qn-prefix default/snowflake/1700000000/DB/SALES
  atlan snapshot take pii --tag PII --limit 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			assets, total, err := flags.run(ctx, client)
			if err != nil {
				return err
			}
			if flags.limit > 0 && total > int64(len(assets)) {
				printWarning("Snapshot holds %d of ~%d matching assets; use --limit 0 for all", len(assets), total)
			}

			snap := snapshot.FromEntities(args[0], assets)
			snap.Query = flags.describe()
			for i := range snap.Records {
				tags := snap.Records[i].AtlanTags
				for j, id := range tags {
					name, err := client.TagCache.NameForID(ctx, id)
					if errors.Is(err, errors.ErrCodeNotFound) {
						continue
					}
					if err != nil {
						return err
					}
					tags[j] = name
				}
				slices.Sort(tags)
			}
			if err := store.Save(ctx, snap); err != nil {
				return err
			}
			printSuccess("Saved snapshot %s with %d assets", StyleHighlight.Render(snap.Name), snap.Count)
			printDetail("id %s", snap.ID)
			printNextStep("Compare later", "atlan snapshot diff "+snap.ID[:min(8, len(snap.ID))]+" <other>")
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) snapshotListCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			sums, err := store.List(ctx)
			if err != nil {
				return err
			}
			if len(sums) == 0 && c.output == formatTable {
				printInfo("No snapshots yet")
				printNextStep("Take one", "atlan snapshot take <name> -t Table")
				return nil
			}
			return c.emit(cmd.OutOrStdout(), sums, func() *table.Table {
				t := newTable("ID", "Name", "Assets", "Taken")
				for _, s := range sums {
					t.Row(StyleDim.Render(s.ID[:min(8, len(s.ID))]), s.Name, fmt.Sprint(s.Count), formatRelativeTime(s.TakenAt))
				}
				return t
			})
		},
	}
}

func (c *CLI) snapshotDiffCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two snapshots",
		Long: `Compare two snapshots by asset GUID. Each snapshot is referenced by id,
an id prefix of at least four characters, or name (the most recent with that name).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			before, err := snapshot.Resolve(ctx, store, args[0])
			if err != nil {
				return err
			}
			after, err := snapshot.Resolve(ctx, store, args[1])
			if err != nil {
				return err
			}
			changes := snapshot.Diff(before, after)

			if c.output != formatTable {
				return c.emit(cmd.OutOrStdout(), changes, nil)
			}
			if changes.Empty() {
				printSuccess("No changes between %s and %s", before.Name, after.Name)
				return nil
			}
			writeChanges(cmd.OutOrStdout(), changes)
			printDetail("%d added, %d removed, %d changed", len(changes.Added), len(changes.Removed), len(changes.Changed))
			return nil
		},
	}
}

func writeChanges(w io.Writer, changes snapshot.Changes) {
	for _, r := range changes.Added {
		fmt.Fprintf(w, "%s %s %s\n", StyleSuccess.Render(iconAdded), r.QualifiedName, StyleDim.Render(r.TypeName))
	}
	for _, r := range changes.Removed {
		fmt.Fprintf(w, "%s %s %s\n", StyleDanger.Render(iconRemoved), r.QualifiedName, StyleDim.Render(r.TypeName))
	}
	for _, ch := range changes.Changed {
		fmt.Fprintf(w, "%s %s %s\n", StyleWarning.Render(iconChanged), ch.After.QualifiedName, StyleDim.Render(strings.Join(ch.Fields, ", ")))
		for _, f := range ch.Fields {
			b, a := recordField(ch.Before, f), recordField(ch.After, f)
			fmt.Fprintf(w, "    %s %s %s %s\n", styleKey.Render(f), StyleDanger.Render(orDash(b)), iconArrow, StyleSuccess.Render(orDash(a)))
		}
	}
}

// recordField returns the printable value of a diffed field.
func recordField(r snapshot.Record, field string) string {
	switch field {
	case "typeName":
		return r.TypeName
	case "qualifiedName":
		return r.QualifiedName
	case "name":
		return r.Name
	case "status":
		return r.Status
	case "certificateStatus":
		return r.CertificateStatus
	case "description":
		return r.Description
	case "ownerUsers":
		return strings.Join(r.OwnerUsers, ", ")
	case "ownerGroups":
		return strings.Join(r.OwnerGroups, ", ")
	case "atlanTags":
		return strings.Join(r.AtlanTags, ", ")
	}
	return ""
}

func (c *CLI) snapshotExportCommand(open storeOpener) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <ref>",
		Short: "Write a snapshot as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := snapshot.Resolve(ctx, store, args[0])
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return snap.WriteYAML(cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := snap.WriteYAML(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Exported %s", StyleHighlight.Render(snap.Name))
			printFile(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "file", "f", "", "output file (default: stdout)")
	return cmd
}

func (c *CLI) snapshotImportCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a snapshot exported as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			snap, err := snapshot.ReadYAML(f)
			if err != nil {
				return err
			}

			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(ctx, snap); err != nil {
				return err
			}
			printSuccess("Imported %s with %d assets", StyleHighlight.Render(snap.Name), snap.Count)
			return nil
		},
	}
}

func (c *CLI) snapshotDeleteCommand(open storeOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <ref>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := open(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			snap, err := snapshot.Resolve(ctx, store, args[0])
			if err != nil {
				return err
			}
			if err := store.Delete(ctx, snap.ID); err != nil {
				return err
			}
			printSuccess("Deleted snapshot %s (%s)", StyleHighlight.Render(snap.Name), snap.ID)
			return nil
		},
	}
}
