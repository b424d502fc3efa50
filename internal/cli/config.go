package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/config"
	"github.com/matzehuels/atlan-go/pkg/model"
)

// configCommand creates the profile management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage connection profiles",
	}

	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configUseCommand())

	return cmd
}

func (c *CLI) configSetCommand() *cobra.Command {
	var (
		baseURL    string
		apiKey     string
		useDefault bool
	)
	cmd := &cobra.Command{
		Use:   "set <profile>",
		Short: "Create or update a profile",
		Example: `  atlan config set prod --url https://acme.atlan.com --api-key "$ATLAN_API_KEY"
  atlan config set dev --url https://dev.atlan.com --api-key "$DEV_KEY" --default`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			name := strings.ToLower(args[0])
			p := f.Profiles[name]
			p.Name = name
			if baseURL != "" {
				p.BaseURL = baseURL
			}
			if apiKey != "" {
				p.APIKey = apiKey
			}
			if err := p.Validate(); err != nil {
				return err
			}

			f.Set(p)
			if useDefault || len(f.Profiles) == 1 {
				if err := f.Use(p.Name); err != nil {
					return err
				}
			}
			if err := config.Save(path, f); err != nil {
				return err
			}

			printSuccess("Saved profile %s", StyleHighlight.Render(p.Name))
			printFile(path)
			printNextStep("Check the connection", "atlan whoami -p "+p.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "tenant URL, e.g. https://acme.atlan.com")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API token")
	cmd.Flags().BoolVar(&useDefault, "default", false, "make this the default profile")
	return cmd
}

// profileView is a profile as shown to the user, with the key masked.
type profileView struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
	APIKey  string `json:"apiKey"`
	Default bool   `json:"default"`
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			f, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			views := make([]profileView, 0, len(f.Profiles))
			for _, name := range f.Names() {
				p := f.Profiles[name]
				views = append(views, profileView{Name: name, BaseURL: p.BaseURL, APIKey: maskKey(p.APIKey), Default: name == f.Default})
			}
			if len(views) == 0 && c.output == formatTable {
				printInfo("No profiles in %s", path)
				printNextStep("Add one", "atlan config set <profile> --url <url> --api-key <key>")
				return nil
			}
			return c.emit(cmd.OutOrStdout(), views, func() *table.Table {
				t := newTable("", "Profile", "URL", "API key")
				for _, v := range views {
					mark := ""
					if v.Default {
						mark = StyleSuccess.Render("*")
					}
					t.Row(mark, v.Name, v.BaseURL, StyleDim.Render(v.APIKey))
				}
				return t
			})
		},
	}
}

func (c *CLI) configUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Set the default profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, path, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := f.Use(args[0]); err != nil {
				return err
			}
			if err := config.Save(path, f); err != nil {
				return err
			}
			printSuccess("Default profile is now %s", StyleHighlight.Render(f.Default))
			return nil
		},
	}
}

// maskKey keeps the first and last four characters of a key.
func maskKey(k string) string {
	if len(k) <= 12 {
		return "****"
	}
	return k[:4] + "…" + k[len(k)-4:]
}

// identity is the output of whoami.
type identity struct {
	Profile   string                     `json:"profile"`
	BaseURL   string                     `json:"baseUrl"`
	User      *model.UserMinimalResponse `json:"user"`
	ClientID  string                     `json:"clientId,omitempty"`
	ExpiresAt *time.Time                 `json:"expiresAt,omitempty"`
}

func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind the active profile's API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkFormat(); err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := c.activeProfile()
			if err != nil {
				return err
			}
			id := identity{Profile: p.Name, BaseURL: p.BaseURL}
			if tok, err := config.TokenInfo(p.APIKey); err != nil {
				loggerFromContext(ctx).Debug("API key is opaque", "err", err)
			} else {
				id.ClientID = tok.ClientID
				if !tok.ExpiresAt.IsZero() {
					id.ExpiresAt = &tok.ExpiresAt
				}
				if tok.Expired() {
					printWarning("API key expired %s", tok.ExpiresAt.Format(time.RFC1123))
				}
			}

			client, err := c.newClient(ctx)
			if err != nil {
				return err
			}
			if id.User, err = client.Users.GetCurrent(ctx); err != nil {
				return err
			}

			if c.output != formatTable {
				return c.emit(cmd.OutOrStdout(), id, nil)
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "Profile", id.Profile)
			printKeyValue(w, "Tenant", StyleLink.Render(id.BaseURL))
			printKeyValue(w, "Username", id.User.Username)
			if name := strings.TrimSpace(id.User.FirstName + " " + id.User.LastName); name != "" {
				printKeyValue(w, "Name", name)
			}
			if id.User.Email != "" {
				printKeyValue(w, "Email", id.User.Email)
			}
			if id.ClientID != "" {
				printKeyValue(w, "API key", id.ClientID)
			}
			if id.ExpiresAt != nil {
				printKeyValue(w, "Expires", id.ExpiresAt.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
