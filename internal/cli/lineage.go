package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/lineage"
	"github.com/matzehuels/atlan-go/pkg/model"
	"github.com/matzehuels/atlan-go/pkg/search/fields"
)

// lineageCommand creates the lineage command group.
func (c *CLI) lineageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lineage",
		Short: "Explore upstream and downstream lineage",
	}

	cmd.AddCommand(c.lineageGraphCommand())
	cmd.AddCommand(c.lineageListCommand())

	return cmd
}

// lineageRow is one asset reached from the base asset.
type lineageRow struct {
	Direction     string `json:"direction"`
	GUID          string `json:"guid"`
	TypeName      string `json:"typeName"`
	Name          string `json:"name"`
	QualifiedName string `json:"qualifiedName"`
}

func lineageRows(direction string, entities []model.Entity) []lineageRow {
	rows := make([]lineageRow, 0, len(entities))
	for _, e := range entities {
		rows = append(rows, lineageRow{
			Direction:     direction,
			GUID:          e.Header().GUID,
			TypeName:      e.Header().TypeName,
			Name:          model.DisplayName(e),
			QualifiedName: e.Attrs().QualifiedName,
		})
	}
	return rows
}

func lineageTable(rows []lineageRow) *table.Table {
	t := newTable("", "Type", "Name", "Qualified name")
	for _, r := range rows {
		arrow := StyleHighlight.Render("↑")
		if r.Direction == "downstream" {
			arrow = StyleSuccess.Render("↓")
		}
		t.Row(arrow, StyleDim.Render(r.TypeName), r.Name, StyleDim.Render(r.QualifiedName))
	}
	return t
}

func (c *CLI) lineageGraphCommand() *cobra.Command {
	var (
		direction   string
		depth       int
		withProcess bool
		dot         bool
		svgPath     string
	)
	cmd := &cobra.Command{
		Use:   "graph <guid>",
		Short: "Fetch the lineage graph around an asset",
		Long: `Fetch the lineage graph around an asset and list every asset reached
upstream and downstream of it. The graph can also be written as Graphviz DOT
or rendered to SVG.`,
		Example: `  atlan lineage graph 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b
  atlan lineage graph 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b --direction output --depth 2
  atlan lineage graph 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b --svg lineage.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			dir, err := model.ParseLegacyLineageDirection(direction)
			if err != nil {
				return err
			}
			req := lineage.NewRequest(args[0])
			req.Direction = dir
			if depth > 0 {
				req.Depth = depth
			}

			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			var resp *lineage.Response
			err = withSpinner(ctx, "Fetching lineage...", func(ctx context.Context) error {
				resp, err = client.Lineage.Get(ctx, req)
				return err
			})
			if err != nil {
				return err
			}

			if dot {
				_, err := fmt.Fprint(cmd.OutOrStdout(), lineage.ToDOT(resp))
				return err
			}
			if svgPath != "" {
				svg, err := lineage.RenderSVG(ctx, lineage.ToDOT(resp))
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", svgPath, err)
				}
				printSuccess("Rendered %d nodes", resp.Graph().Len())
				printFile(svgPath)
				return nil
			}

			base := resp.BaseEntityGUID
			if base == "" {
				base = args[0]
			}
			var up, down []model.Entity
			if withProcess {
				up, down = resp.AllUpstreamDFS(base), resp.AllDownstreamDFS(base)
			} else {
				up, down = resp.AllUpstreamAssetsDFS(base), resp.AllDownstreamAssetsDFS(base)
			}
			rows := append(lineageRows("upstream", up), lineageRows("downstream", down)...)
			if len(rows) == 0 && c.output == formatTable {
				printInfo("No lineage found")
				return nil
			}
			err = c.emit(cmd.OutOrStdout(), rows, func() *table.Table { return lineageTable(rows) })
			if err == nil && c.output == formatTable {
				printDetail("%d upstream, %d downstream", len(up), len(down))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&direction, "direction", string(model.LineageBoth), "input, output or both")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum hops (default: all)")
	cmd.Flags().BoolVar(&withProcess, "with-process", false, "include process nodes in the listing")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the graph as Graphviz DOT")
	cmd.Flags().StringVar(&svgPath, "svg", "", "render the graph to an SVG file")
	cmd.MarkFlagsMutuallyExclusive("dot", "svg")
	return cmd
}

func (c *CLI) lineageListCommand() *cobra.Command {
	var (
		direction string
		depth     int
		size      int
		limit     int
		typeName  string
		immediate bool
		active    bool
	)
	cmd := &cobra.Command{
		Use:   "list <guid>",
		Short: "Page through the assets upstream or downstream of an asset",
		Example: `  atlan lineage list 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b --direction upstream
  atlan lineage list 0e4b3a9c-1c2d-4f5e-8a9b-0c1d2e3f4a5b -t Table --immediate -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			dir, err := model.ParseLineageDirection(direction)
			if err != nil {
				return err
			}
			fl := lineage.NewFluentLineage(args[0]).
				Direction(dir).
				Size(size).
				ImmediateNeighbors(immediate).
				IncludeOnResults(fields.CertificateStatus, fields.OwnerUsers)
			if depth > 0 {
				fl.Depth(depth)
			}
			if typeName != "" {
				fl.WhereAssets(lineage.TypeFilter(typeName))
			}
			if active {
				fl.WhereAssets(lineage.ActiveFilter())
			}
			req, err := fl.ToRequest()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			var entities []model.Entity
			err = withSpinner(ctx, "Listing lineage...", func(ctx context.Context) error {
				pager, err := client.Lineage.List(ctx, *req)
				if err != nil {
					return err
				}
				for e, err := range pager.All(ctx) {
					if err != nil {
						return err
					}
					entities = append(entities, e)
					if limit > 0 && len(entities) >= limit {
						break
					}
				}
				return nil
			})
			if err != nil {
				return err
			}

			rows := lineageRows(strings.ToLower(string(dir)), entities)
			if len(rows) == 0 && c.output == formatTable {
				printInfo("No %s assets found", strings.ToLower(string(dir)))
				return nil
			}
			return c.emit(cmd.OutOrStdout(), rows, func() *table.Table { return lineageTable(rows) })
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "downstream", "upstream or downstream")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum hops (default: all)")
	cmd.Flags().IntVar(&size, "page-size", lineage.DefaultListSize, "results per request")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum results (0 for all)")
	cmd.Flags().StringVarP(&typeName, "type", "t", "", "only return assets of this type")
	cmd.Flags().BoolVar(&immediate, "immediate", false, "include the immediate neighbors of each result")
	cmd.Flags().BoolVar(&active, "active", true, "only return active assets")
	return cmd
}
