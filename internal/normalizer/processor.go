package normalizer

import (
	"sort"

	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
)

// Processor validates a provider's offers and enforces the catalog key.
type Processor struct {
	validator *Validator
	log       *logger.Logger
}

// NewProcessor creates a new processor instance.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{
		validator: NewValidator(),
		log:       log,
	}
}

// Process drops invalid offers, keeps the cheapest offer per
// (instance, location, spot) key, optionally drops unpriced offers and sorts
// the result by ascending price.
func (p *Processor) Process(offers []models.Offer, filter bool) []models.Offer {
	index := make(map[models.OfferKey]int, len(offers))
	result := make([]models.Offer, 0, len(offers))

	for _, offer := range offers {
		if err := p.validator.Validate(offer); err != nil {
			p.log.Warn("dropping invalid offer", "instance", offer.InstanceName, "error", err)

			continue
		}

		if filter && offer.Price == 0 {
			p.log.Debug("dropping unpriced offer", "instance", offer.InstanceName, "location", offer.Location)

			continue
		}

		key := offer.Key()
		if i, seen := index[key]; seen {
			p.log.Debug("duplicate offer", "instance", key.InstanceName, "location", key.Location, "spot", key.Spot)

			if offer.Price < result[i].Price {
				result[i] = offer
			}

			continue
		}

		index[key] = len(result)
		result = append(result, offer)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Price < result[j].Price
	})

	return result
}
