// Package catalog collects offers from several providers and writes them out.
package catalog

import (
	"context"
	"fmt"

	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"
	"gpuhunt/internal/providers"
)

// Entry is an offer tagged with the provider that produced it.
type Entry struct {
	Provider string `json:"provider"`
	models.Offer
}

// Collector runs providers one after another.
type Collector struct {
	log       *logger.Logger
	processor *normalizer.Processor
	filter    bool
}

// NewCollector creates a collector. With filter set, unpriced offers are dropped.
func NewCollector(log *logger.Logger, filter bool) *Collector {
	return &Collector{
		log:       log,
		processor: normalizer.NewProcessor(log),
		filter:    filter,
	}
}

// Collect invokes each provider in order. A provider that panics contributes
// nothing; the rest still run. Collection stops early when ctx is done.
func (c *Collector) Collect(ctx context.Context, list []providers.Provider) []Entry {
	var entries []Entry

	for _, p := range list {
		if err := ctx.Err(); err != nil {
			c.log.Warn("collection interrupted", "provider", p.Name(), "error", err)

			break
		}

		offers, err := c.get(ctx, p)
		if err != nil {
			c.log.Error("provider failed", "provider", p.Name(), "error", err)

			continue
		}

		offers = c.processor.Process(offers, c.filter)
		if len(offers) == 0 {
			c.log.Warn("provider returned no offers", "provider", p.Name())
		}

		for _, offer := range offers {
			entries = append(entries, Entry{Provider: p.Name(), Offer: offer})
		}
	}

	c.log.Info("collection finished", "providers", len(list), "offers", len(entries))

	return entries
}

func (c *Collector) get(ctx context.Context, p providers.Provider) (offers []models.Offer, err error) {
	defer func() {
		if r := recover(); r != nil {
			offers, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	c.log.Info("fetching offers", "provider", p.Name())

	return p.Get(ctx), nil
}
