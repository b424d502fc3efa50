package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// Several Atlan tenants can share one Redis instance or cache directory as
// long as each client scopes its keys by tenant.
//
// Example usage:
//
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:acme.atlan.com:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for API response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// TypeDefKey generates a prefixed key for type definition caching.
func (k *ScopedKeyer) TypeDefKey(category string) string {
	return k.prefix + k.inner.TypeDefKey(category)
}

// LookupKey generates a prefixed key for lookup table caching.
func (k *ScopedKeyer) LookupKey(kind string, opts LookupKeyOpts) string {
	return k.prefix + k.inner.LookupKey(kind, opts)
}
