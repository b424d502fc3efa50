package config

import (
	stderrors "errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/matzehuels/atlan-go/pkg/atlan"
	"github.com/matzehuels/atlan-go/pkg/errors"
)

// EnvProfile selects the active profile when no profile is named explicitly.
const EnvProfile = "ATLAN_PROFILE"

// Profile is one named tenant connection.
type Profile struct {
	Name    string `mapstructure:"-" toml:"-"`
	BaseURL string `mapstructure:"base_url" toml:"base_url"`
	APIKey  string `mapstructure:"api_key" toml:"api_key"`
}

// Validate checks that p can be used to build a client.
func (p Profile) Validate() error {
	if err := errors.ValidateBaseURL(p.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "profile %q", p.Name)
	}
	if p.APIKey == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "profile %q has no API key", p.Name)
	}
	return nil
}

// ClientConfig returns the SDK configuration for p.
func (p Profile) ClientConfig() atlan.Config {
	return atlan.Config{BaseURL: p.BaseURL, APIKey: p.APIKey}
}

// File is the on-disk profile store. Profile names are case-insensitive
// and stored in lower case.
type File struct {
	Default  string             `mapstructure:"default" toml:"default"`
	Profiles map[string]Profile `mapstructure:"profiles" toml:"profiles"`

	env Profile
}

// DefaultPath returns $XDG_CONFIG_HOME/atlan/config.toml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "atlan", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "atlan", "config.toml"), nil
}

// Load reads the profile file at path. A missing file yields an empty
// File. ATLAN_PROFILE, ATLAN_BASE_URL and ATLAN_API_KEY override what the
// file selects.
func Load(path string) (*File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("default", "default")

	v.SetEnvPrefix("ATLAN")
	for _, key := range []string{"profile", "base_url", "api_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "bind %s", key)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	f := &File{}
	if err := v.Unmarshal(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	for name, p := range f.Profiles {
		p.Name = name
		f.Profiles[name] = p
	}
	if name := v.GetString("profile"); name != "" {
		f.Default = strings.ToLower(name)
	}
	f.env = Profile{BaseURL: v.GetString("base_url"), APIKey: v.GetString("api_key")}
	return f, nil
}

// Save writes f to path as TOML, creating parent directories.
func Save(path string, f *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(out).Encode(f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Set stores p under its name, lower-cased.
func (f *File) Set(p Profile) {
	if f.Profiles == nil {
		f.Profiles = map[string]Profile{}
	}
	p.Name = strings.ToLower(p.Name)
	f.Profiles[p.Name] = p
}

// Use makes name the default profile.
func (f *File) Use(name string) error {
	name = strings.ToLower(name)
	if _, ok := f.Profiles[name]; !ok {
		return errors.New(errors.ErrCodeNotFound, "no profile %q", name)
	}
	f.Default = name
	return nil
}

// Names returns the profile names in sorted order.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.Profiles))
}

// Active resolves the profile to connect with: name if given, else the
// default. Environment overrides are applied on top, so a profile need
// not exist when both ATLAN_BASE_URL and ATLAN_API_KEY are set.
func (f *File) Active(name string) (Profile, error) {
	if name == "" {
		name = f.Default
	}
	name = strings.ToLower(name)
	p, ok := f.Profiles[name]
	if !ok {
		p = Profile{Name: name}
	}
	if f.env.BaseURL != "" {
		p.BaseURL = f.env.BaseURL
	}
	if f.env.APIKey != "" {
		p.APIKey = f.env.APIKey
	}
	if !ok && (p.BaseURL == "" || p.APIKey == "") {
		return Profile{}, errors.New(errors.ErrCodeInvalidConfig,
			"no profile %q; run \"atlan config set\" or set %s and %s", name, atlan.EnvBaseURL, atlan.EnvAPIKey)
	}
	return p, p.Validate()
}
