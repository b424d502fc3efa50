package cli

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/atlan"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// =============================================================================
// users
// =============================================================================

func (c *CLI) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "List and manage users",
	}

	cmd.AddCommand(c.usersListCommand())
	cmd.AddCommand(c.usersGetCommand())
	cmd.AddCommand(c.usersInviteCommand())
	cmd.AddCommand(c.usersRoleCommand())

	return cmd
}

func (c *CLI) usersListCommand() *cobra.Command {
	var (
		email string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}

			var users []model.AtlanUser
			err = withSpinner(ctx, "Listing users...", func(ctx context.Context) error {
				if email != "" {
					users, err = client.Users.GetByEmail(ctx, email)
					return err
				}
				users, err = collect(ctx, client.Users.List(atlan.ListOptions{Sort: "username"}), limit)
				return err
			})
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), users, func() *table.Table {
				t := newTable("Username", "Name", "Email", "Role", "Last login")
				for _, u := range users {
					t.Row(u.Username, orDash(u.FullName()), u.Email, orDash(u.WorkspaceRole), lastLogin(u.LastLoginTime))
				}
				return t
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "match users whose email contains this text")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum results (0 for all)")
	return cmd
}

func (c *CLI) usersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <username>",
		Short: "Show a user and their groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			u, err := client.Users.GetByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			groups, err := client.Users.GetGroups(ctx, u.ID)
			if err != nil {
				return err
			}

			if c.output != formatTable {
				return c.emit(cmd.OutOrStdout(), struct {
					*model.AtlanUser
					Groups []model.AtlanGroup `json:"groups"`
				}{u, groups}, nil)
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "Username", u.Username)
			printKeyValue(w, "ID", StyleDim.Render(u.ID))
			printKeyValue(w, "Name", orDash(u.FullName()))
			printKeyValue(w, "Email", u.Email)
			printKeyValue(w, "Role", orDash(u.WorkspaceRole))
			printKeyValue(w, "Last login", lastLogin(u.LastLoginTime))
			aliases := make([]string, len(groups))
			for i, g := range groups {
				aliases[i] = g.Alias()
			}
			printKeyValue(w, "Groups", orDash(strings.Join(aliases, ", ")))
			return nil
		},
	}
}

func (c *CLI) usersInviteCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "invite <email>...",
		Short: "Invite users to the tenant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseWorkspaceRole(role)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			invites := make([]atlan.Invite, len(args))
			for i, email := range args {
				invites[i] = atlan.Invite{Email: email, Role: r}
			}
			if err := client.Users.Create(ctx, invites...); err != nil {
				return err
			}
			printSuccess("Invited %d user(s) as %s", len(args), r)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", "member", "workspace role: admin, member or guest")
	return cmd
}

func (c *CLI) usersRoleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <username> <role>",
		Short: "Change a user's workspace role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseWorkspaceRole(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			u, err := client.Users.GetByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			if err := client.Users.ChangeRole(ctx, u.ID, r); err != nil {
				return err
			}
			printSuccess("%s is now %s", StyleHighlight.Render(u.Username), r)
			return nil
		},
	}
}

func lastLogin(ms int64) string {
	if ms <= 0 {
		return StyleDim.Render("never")
	}
	return formatRelativeTime(time.UnixMilli(ms))
}

// collect drains a pager, stopping after limit items when limit > 0.
func collect[T any](ctx context.Context, p *atlan.Pager[T], limit int) ([]T, error) {
	var out []T
	for v, err := range p.All(ctx) {
		if err != nil {
			return out, err
		}
		out = append(out, v)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// =============================================================================
// groups
// =============================================================================

func (c *CLI) groupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "groups",
		Aliases: []string{"group"},
		Short:   "List groups and their members",
	}

	cmd.AddCommand(c.groupsListCommand())
	cmd.AddCommand(c.groupsMembersCommand())
	cmd.AddCommand(c.groupsCreateCommand())

	return cmd
}

func (c *CLI) groupsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			var groups []model.AtlanGroup
			err = withSpinner(ctx, "Listing groups...", func(ctx context.Context) error {
				groups, err = collect(ctx, client.Groups.List(atlan.ListOptions{Sort: "name"}), limit)
				return err
			})
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), groups, func() *table.Table {
				t := newTable("Alias", "Name", "Members", "Default", "Description")
				for _, g := range groups {
					def := ""
					if g.IsDefault() {
						def = StyleSuccess.Render(iconSuccess)
					}
					t.Row(g.Alias(), StyleDim.Render(g.Name), strconv.Itoa(g.UserCount), def, orDash(g.Description()))
				}
				return t
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for all)")
	return cmd
}

func (c *CLI) groupsMembersCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "members <alias>",
		Short: "List the members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			id, err := client.GroupCache.IDForAlias(ctx, args[0])
			if err != nil {
				return err
			}
			members, err := collect(ctx, client.Groups.GetMembers(id, atlan.ListOptions{}), limit)
			if err != nil {
				return err
			}
			return c.emit(cmd.OutOrStdout(), members, func() *table.Table {
				t := newTable("Username", "Name", "Email")
				for _, u := range members {
					t.Row(u.Username, orDash(u.FullName()), u.Email)
				}
				return t
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (0 for all)")
	return cmd
}

func (c *CLI) groupsCreateCommand() *cobra.Command {
	var (
		description string
		members     []string
	)
	cmd := &cobra.Command{
		Use:     "create <alias>",
		Short:   "Create a group",
		Example: `  atlan groups create "Data Stewards" --description "Own certification" --member jdoe --member asmith`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := model.NewGroup(args[0], description)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			ids := make([]string, 0, len(members))
			for _, name := range members {
				u, err := client.Users.GetByUsername(ctx, name)
				if err != nil {
					return err
				}
				ids = append(ids, u.ID)
			}
			resp, err := client.Groups.Create(ctx, *g, ids...)
			if err != nil {
				return err
			}
			printSuccess("Created group %s", StyleHighlight.Render(args[0]))
			printDetail("id %s, %d member(s)", resp.Group, len(ids))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "group description")
	cmd.Flags().StringSliceVar(&members, "member", nil, "username to add (repeatable)")
	return cmd
}

// =============================================================================
// roles
// =============================================================================

func (c *CLI) rolesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List workspace roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			roles, err := client.Roles.GetAll(ctx, false)
			if err != nil {
				return err
			}
			slices.SortFunc(roles, func(a, b model.AtlanRole) int { return strings.Compare(a.Name, b.Name) })
			return c.emit(cmd.OutOrStdout(), roles, func() *table.Table {
				t := newTable("Name", "ID", "Description")
				for _, r := range roles {
					t.Row(r.Name, StyleDim.Render(r.ID), orDash(r.Description))
				}
				return t
			})
		},
	}
}

// =============================================================================
// tags
// =============================================================================

func (c *CLI) tagsCommand() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List Atlan tag definitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			var resp *model.TypeDefResponse
			if refresh {
				resp, err = client.TypeDefs.Refresh(ctx, model.TypeDefAtlanTag)
			} else {
				resp, err = client.TypeDefs.Get(ctx, model.TypeDefAtlanTag)
			}
			if err != nil {
				return err
			}
			tags := resp.AtlanTagDefs
			slices.SortFunc(tags, func(a, b model.AtlanTagDef) int { return strings.Compare(a.DisplayName, b.DisplayName) })
			return c.emit(cmd.OutOrStdout(), tags, func() *table.Table {
				t := newTable("Name", "ID", "Description")
				for _, d := range tags {
					t.Row(d.DisplayName, StyleDim.Render(d.Name), orDash(d.Description))
				}
				return t
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the typedef cache")
	return cmd
}
