// Package config stores the connection profiles of the atlan command.
//
// Profiles live in a TOML file, by default $XDG_CONFIG_HOME/atlan/config.toml:
//
//	default = "prod"
//
//	[profiles.prod]
//	base_url = "https://acme.atlan.com"
//	api_key = "eyJhbGciOi..."
//
// The environment variables ATLAN_PROFILE, ATLAN_BASE_URL and ATLAN_API_KEY
// take precedence over the file.
package config
