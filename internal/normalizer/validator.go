package normalizer

import (
	"errors"
	"fmt"
	"math"

	"gpuhunt/internal/models"
)

// Validation errors.
var (
	ErrMissingInstanceName = errors.New("offer missing instance name")
	ErrMissingLocation     = errors.New("offer missing location")
	ErrInvalidPrice        = errors.New("offer price must be a non-negative number")
	ErrNegativeCPU         = errors.New("offer cpu must be non-negative")
	ErrInvalidMemory       = errors.New("offer memory must be a non-negative number")
	ErrNegativeGPUCount    = errors.New("offer gpu count must be non-negative")
	ErrMissingVendor       = errors.New("offer with gpus requires a vendor")
	ErrUnexpectedGPUName   = errors.New("offer without gpus must not name a gpu")
	ErrInvalidGPUMemory    = errors.New("offer gpu memory must be a non-negative number")
	ErrInvalidDiskSize     = errors.New("offer disk size must be a non-negative number")
)

// Validator checks offers against the canonical schema.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks if an offer meets the canonical schema.
func (v *Validator) Validate(offer models.Offer) error {
	if offer.InstanceName == "" {
		return ErrMissingInstanceName
	}

	if offer.Location == "" {
		return fmt.Errorf("%w: %s", ErrMissingLocation, offer.InstanceName)
	}

	if !nonNegative(offer.Price) {
		return fmt.Errorf("%w: %s has %v", ErrInvalidPrice, offer.InstanceName, offer.Price)
	}

	if offer.CPU < 0 {
		return fmt.Errorf("%w: %s has %d", ErrNegativeCPU, offer.InstanceName, offer.CPU)
	}

	if !nonNegative(offer.Memory) {
		return fmt.Errorf("%w: %s has %v", ErrInvalidMemory, offer.InstanceName, offer.Memory)
	}

	if offer.GPUCount < 0 {
		return fmt.Errorf("%w: %s has %d", ErrNegativeGPUCount, offer.InstanceName, offer.GPUCount)
	}

	if offer.GPUCount > 0 && offer.GPUVendor == models.VendorNone {
		return fmt.Errorf("%w: %s", ErrMissingVendor, offer.InstanceName)
	}

	if offer.GPUCount == 0 && offer.GPUName != "" {
		return fmt.Errorf("%w: %s names %s", ErrUnexpectedGPUName, offer.InstanceName, offer.GPUName)
	}

	if offer.GPUMemory != nil && !nonNegative(*offer.GPUMemory) {
		return fmt.Errorf("%w: %s", ErrInvalidGPUMemory, offer.InstanceName)
	}

	if offer.DiskSize != nil && !nonNegative(*offer.DiskSize) {
		return fmt.Errorf("%w: %s", ErrInvalidDiskSize, offer.InstanceName)
	}

	return nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
