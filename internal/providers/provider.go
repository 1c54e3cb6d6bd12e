// Package providers adapts each pricing source into canonical offers.
package providers

import (
	"context"
	"errors"
	"os"

	"gpuhunt/internal/config"
	"gpuhunt/internal/crawler"
	"gpuhunt/internal/extract"
	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"

	"github.com/aws/aws-sdk-go-v2/service/pricing"
)

// Provider errors.
var (
	ErrMissingCredential = errors.New("missing credential")
	ErrUnknownProvider   = errors.New("unknown provider")
)

// Provider produces the offers of one pricing source. Get never fails: source
// errors are logged and yield an empty result.
type Provider interface {
	Name() string
	Get(ctx context.Context) []models.Offer
}

// Deps carries the collaborators shared by provider constructors. Zero fields
// are filled with production defaults.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Fetcher   crawler.Fetcher
	Getenv    func(string) string
	Completer extract.Completer
	AzureSKUs SKUCatalog
	AWSClient pricing.GetProductsAPIClient
}

func (d Deps) withDefaults() Deps {
	if d.Config == nil {
		d.Config = config.Default()
	}

	if d.Logger == nil {
		d.Logger = logger.NewLogger(d.Config.Logging.Level)
	}

	if d.Fetcher == nil {
		d.Fetcher = crawler.NewScraperWithConfig(d.Config.HTTP)
	}

	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}

	return d
}

func (d Deps) rates() normalizer.Rates {
	return normalizer.RatesFromMap(d.Config.Currency.Rates)
}

// base holds what every adapter needs to log and post-process its offers.
type base struct {
	name      string
	log       *logger.Logger
	processor *normalizer.Processor
}

func newBase(name string, deps Deps) base {
	log := deps.Logger.With("provider", name)

	return base{
		name:      name,
		log:       log,
		processor: normalizer.NewProcessor(log),
	}
}

// Name returns the provider name.
func (b base) Name() string {
	return b.name
}

// finish validates, dedupes and sorts the offers of one Get call.
func (b base) finish(offers []models.Offer) []models.Offer {
	result := b.processor.Process(offers, false)
	b.log.Info("collected offers", "offers", len(result), "raw", len(offers))

	return result
}
