package providers

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Factory constructs a provider. It fails when a required credential is missing.
type Factory func(ctx context.Context, deps Deps) (Provider, error)

func extraction(source func() ExtractionSource) Factory {
	return func(_ context.Context, deps Deps) (Provider, error) {
		return NewExtractionProvider(source(), deps)
	}
}

var registry = map[string]Factory{
	"seeweb":       extraction(SeewebSource),
	"scaleway":     extraction(ScalewaySource),
	"genesiscloud": extraction(GenesisCloudSource),
	"crusoe":       extraction(CrusoeSource),
	"linode":       extraction(LinodeSource),
	"leadergpu": func(_ context.Context, deps Deps) (Provider, error) {
		return NewLeaderGPU(deps), nil
	},
	"latitude": func(_ context.Context, deps Deps) (Provider, error) {
		return NewLatitude(deps), nil
	},
	"azure": func(_ context.Context, deps Deps) (Provider, error) {
		return NewAzure(deps)
	},
	"aws": func(ctx context.Context, deps Deps) (Provider, error) {
		return NewAWS(ctx, deps)
	},
}

// DefaultCatalog lists the providers collected by "all". Scaleway is left out
// because its page trips completion rate limits; the cloud APIs need
// credentials and are requested by name.
var DefaultCatalog = []string{
	"crusoe",
	"genesiscloud",
	"latitude",
	"leadergpu",
	"linode",
	"seeweb",
}

// Names returns the supported provider names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// New constructs the named provider.
func New(ctx context.Context, name string, deps Deps) (Provider, error) {
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownProvider, name, strings.Join(Names(), ", "))
	}

	return factory(ctx, deps)
}
