package cache

// Keyer generates cache keys for the different kinds of cached data.
type Keyer interface {
	// HTTPKey generates a key for a cached API response.
	HTTPKey(namespace, key string) string

	// TypeDefKey generates a key for cached type definitions of a category.
	TypeDefKey(category string) string

	// LookupKey generates a key for a name/id lookup table (roles, groups, tags).
	LookupKey(kind string, opts LookupKeyOpts) string
}

// LookupKeyOpts distinguishes lookup tables fetched with different filters.
type LookupKeyOpts struct {
	Filter string `json:"filter,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// TypeDefKey returns "typedef:<category>".
func (DefaultKeyer) TypeDefKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "typedef:" + category
}

// LookupKey hashes the options so that different filters never share a key.
func (DefaultKeyer) LookupKey(kind string, opts LookupKeyOpts) string {
	return hashKey("lookup:"+kind, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
