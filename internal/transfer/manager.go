package transfer

import (
	"fmt"
	"sort"
)

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

// Registry holds all available transfer providers
var Registry = make(map[string]ProviderFactory)

// DefaultProvider is used when no provider is named.
const DefaultProvider = "presigned"

// RegisterProvider registers a new transfer provider
func RegisterProvider(name string, factory ProviderFactory) {
	Registry[name] = factory
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	if name == "" {
		name = DefaultProvider
	}
	factory, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s", name)
	}
	return factory(), nil
}

// ProviderNames lists registered provider names in order.
func ProviderNames() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// init registers all built-in providers
func init() {
	RegisterProvider("presigned", func() Provider {
		return NewPresignedProvider()
	})
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
}
