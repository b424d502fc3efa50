// Package cli implements the atlan command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/atlan-go/pkg/atlan"
	"github.com/matzehuels/atlan-go/pkg/buildinfo"
	"github.com/matzehuels/atlan-go/pkg/cache"
	"github.com/matzehuels/atlan-go/pkg/config"
	"github.com/matzehuels/atlan-go/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "atlan"

	// envRedisAddr selects a shared Redis response cache instead of files.
	envRedisAddr = "ATLAN_CACHE_REDIS"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	profile    string
	output     string
	noCache    bool

	cache cache.Cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level every request,
// cache lookup and page fetch is logged.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	} else {
		observability.Reset()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "atlan manages assets, lineage and users of an Atlan tenant",
		Long:         `atlan is a command-line client for the Atlan metadata catalog: search and curate assets, explore lineage, administer users and groups, and track governance changes with snapshots.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.cache == nil {
				return nil
			}
			err := c.cache.Close()
			c.cache = nil
			return err
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "profile file (default $XDG_CONFIG_HOME/atlan/config.toml)")
	flags.StringVarP(&c.profile, "profile", "p", "", "profile to use (default from config or "+config.EnvProfile+")")
	flags.StringVarP(&c.output, "output", "o", formatTable, "output format: table, json or yaml")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the response cache")

	root.AddCommand(c.configCommand())
	root.AddCommand(c.whoamiCommand())
	root.AddCommand(c.assetCommand())
	root.AddCommand(c.lineageCommand())
	root.AddCommand(c.usersCommand())
	root.AddCommand(c.groupsCommand())
	root.AddCommand(c.rolesCommand())
	root.AddCommand(c.tagsCommand())
	root.AddCommand(c.snapshotCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// loadConfig reads the profile file named by --config.
func (c *CLI) loadConfig() (*config.File, string, error) {
	path := c.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, "", err
		}
		path = p
	}
	f, err := config.Load(path)
	return f, path, err
}

// activeProfile resolves the profile selected by flags, config and environment.
func (c *CLI) activeProfile() (config.Profile, error) {
	f, _, err := c.loadConfig()
	if err != nil {
		return config.Profile{}, err
	}
	return f.Active(c.profile)
}

// newClient builds an SDK client for the active profile. Cached responses
// are scoped by profile so tenants never share entries.
func (c *CLI) newClient(ctx context.Context) (*atlan.Client, error) {
	p, err := c.activeProfile()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	cfg := p.ClientConfig()
	cfg.UserAgent = appName + "-cli/" + buildinfo.Version

	loggerFromContext(ctx).Debug("connecting", "profile", p.Name, "url", p.BaseURL)
	return atlan.NewClient(cfg,
		atlan.WithCache(store),
		atlan.WithKeyer(cache.NewScopedKeyer(cache.NewDefaultKeyer(), p.Name)),
	)
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.cache != nil {
		return c.cache, nil
	}
	store, err := openCache(ctx, c.noCache)
	if err != nil {
		return nil, err
	}
	c.cache = store
	return store, nil
}

func openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := os.Getenv(envRedisAddr); addr != "" {
		cfg := cache.DefaultRedisConfig()
		cfg.Addr = addr
		return cache.NewRedisCache(ctx, cfg)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/atlan/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
