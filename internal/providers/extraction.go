package providers

import (
	"context"
	"fmt"

	"gpuhunt/internal/crawler"
	"gpuhunt/internal/extract"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"
)

// ExtractionSource describes a provider whose offers are read from
// unstructured content through the extraction pipeline.
type ExtractionSource struct {
	// Prepare reshapes fetched content before extraction. Optional.
	Prepare         func(content string) (string, error)
	Headers         map[string]string
	Name            string
	Task            string
	Currency        normalizer.Currency
	DefaultLocation string
	URLs            []string
	Rules           []string
}

// ExtractionProvider implements Provider for an ExtractionSource.
type ExtractionProvider struct {
	base
	fetcher      crawler.Fetcher
	pipeline     *extract.Pipeline
	transformer  *normalizer.Transformer
	instructions string
	src          ExtractionSource
}

// NewExtractionProvider builds an extraction provider. Without an injected
// Completer it requires the completion API key from the environment.
func NewExtractionProvider(src ExtractionSource, deps Deps) (*ExtractionProvider, error) {
	deps = deps.withDefaults()

	completer := deps.Completer
	if completer == nil {
		keyEnv := deps.Config.Extraction.APIKeyEnv

		c, err := extract.NewOpenAICompleter(deps.Getenv(keyEnv), deps.Config.Extraction.Model)
		if err != nil {
			return nil, fmt.Errorf("%w: %s for %s: %w", ErrMissingCredential, keyEnv, src.Name, err)
		}

		completer = c
	}

	b := newBase(src.Name, deps)

	src.URLs = append([]string(nil), src.URLs...)
	if len(src.URLs) > 0 {
		src.URLs[0] = deps.Config.ProviderURL(src.Name, src.URLs[0])
	}

	opts := extract.Options{
		MaxContentBytes: deps.Config.Extraction.MaxContentKb * 1024,
		ConvertHTML:     deps.Config.Extraction.ConvertHTML,
	}

	return &ExtractionProvider{
		base:         b,
		fetcher:      deps.Fetcher,
		pipeline:     extract.NewPipeline(completer, opts, b.log),
		transformer:  normalizer.NewTransformer(deps.rates()),
		instructions: extract.Instructions(src.Task, src.Rules...),
		src:          src,
	}, nil
}

// Get fetches every source URL, extracts its records and converts them to offers.
func (p *ExtractionProvider) Get(ctx context.Context) []models.Offer {
	var offers []models.Offer

	for _, url := range p.src.URLs {
		offers = append(offers, p.collect(ctx, url)...)
	}

	return p.finish(offers)
}

func (p *ExtractionProvider) collect(ctx context.Context, url string) []models.Offer {
	log := p.log.With("url", url)

	content, err := p.fetcher.Fetch(ctx, url, p.src.Headers)
	if err != nil {
		log.Error("fetch failed", "error", err)

		return nil
	}

	if p.src.Prepare != nil {
		if content, err = p.src.Prepare(content); err != nil {
			log.Error("unusable source content", "error", err)

			return nil
		}
	}

	records := p.pipeline.Extract(ctx, url, content, p.instructions)
	source := normalizer.Source{Currency: p.src.Currency, DefaultLocation: p.src.DefaultLocation}

	offers := make([]models.Offer, 0, len(records))

	for _, rec := range records {
		offer, err := p.transformer.FromExtracted(rec, source)
		if err != nil {
			log.Warn("dropping extracted record", "error", err, "name", rec.Name, "count", rec.Count, "price", rec.Price)

			continue
		}

		offers = append(offers, offer)
	}

	return offers
}
