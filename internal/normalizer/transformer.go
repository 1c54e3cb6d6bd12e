package normalizer

import (
	"errors"
	"fmt"

	"gpuhunt/internal/models"
)

// ErrMissingGPUName is returned when an extracted record has GPUs but no model.
var ErrMissingGPUName = errors.New("extracted record has gpus but no model name")

// Source describes how a provider quotes its prices and regions.
type Source struct {
	Currency        Currency
	DefaultLocation string
}

// Transformer maps extracted records onto canonical offers.
type Transformer struct {
	rates Rates
}

// NewTransformer creates a transformer converting prices with rates.
func NewTransformer(rates Rates) *Transformer {
	if rates == nil {
		rates = DefaultRates()
	}

	return &Transformer{rates: rates}
}

// InstanceName builds the "<gpu_name>-<gpu_count>x" key used by extraction providers.
func InstanceName(gpuName string, gpuCount int) string {
	return fmt.Sprintf("%s-%dx", gpuName, gpuCount)
}

// FromExtracted converts one extracted record into an offer priced in USD.
func (t *Transformer) FromExtracted(rec models.ExtractedRecord, src Source) (models.Offer, error) {
	name := CleanModelName(rec.Name)
	if name == "" && rec.Count > 0 {
		return models.Offer{}, ErrMissingGPUName
	}

	price, err := t.rates.ToUSD(rec.Price, src.Currency)
	if err != nil {
		return models.Offer{}, fmt.Errorf("convert price of %s: %w", name, err)
	}

	location := rec.Location
	if location == "" {
		location = src.DefaultLocation
	}

	offer := models.Offer{
		InstanceName: InstanceName(name, rec.Count),
		Location:     location,
		Price:        price,
		CPU:          rec.CPU,
		Memory:       rec.RAM,
		GPUCount:     rec.Count,
		GPUVendor:    rec.Vendor,
		GPUName:      name,
		Spot:         rec.Spot,
	}

	if rec.Count == 0 {
		offer.GPUVendor = models.VendorNone
		offer.GPUName = ""
	}

	if rec.Memory > 0 && rec.Count > 0 {
		offer.GPUMemory = models.Float(rec.Memory)
	}

	if rec.Disk != nil && *rec.Disk > 0 {
		offer.DiskSize = models.Float(*rec.Disk)
	}

	return offer, nil
}
