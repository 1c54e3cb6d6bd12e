package normalizer

import (
	"errors"
	"math"
	"testing"

	"gpuhunt/internal/models"
)

func validOffer() models.Offer {
	return models.Offer{
		InstanceName: "A100-1x",
		Location:     "EU",
		Price:        1.5,
		CPU:          16,
		Memory:       120,
		GPUCount:     1,
		GPUVendor:    models.VendorNVIDIA,
		GPUName:      "A100",
		GPUMemory:    models.Float(80),
	}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		mutate  func(o *models.Offer)
		wantErr error
	}{
		{name: "valid", mutate: func(o *models.Offer) {}},
		{name: "cpu only", mutate: func(o *models.Offer) {
			o.GPUCount, o.GPUVendor, o.GPUName, o.GPUMemory = 0, models.VendorNone, "", nil
		}},
		{name: "unknown gpu memory", mutate: func(o *models.Offer) { o.GPUMemory = nil }},
		{name: "missing instance", mutate: func(o *models.Offer) { o.InstanceName = "" }, wantErr: ErrMissingInstanceName},
		{name: "missing location", mutate: func(o *models.Offer) { o.Location = "" }, wantErr: ErrMissingLocation},
		{name: "negative price", mutate: func(o *models.Offer) { o.Price = -1 }, wantErr: ErrInvalidPrice},
		{name: "nan price", mutate: func(o *models.Offer) { o.Price = math.NaN() }, wantErr: ErrInvalidPrice},
		{name: "negative cpu", mutate: func(o *models.Offer) { o.CPU = -2 }, wantErr: ErrNegativeCPU},
		{name: "negative memory", mutate: func(o *models.Offer) { o.Memory = -1 }, wantErr: ErrInvalidMemory},
		{name: "negative gpu count", mutate: func(o *models.Offer) { o.GPUCount = -1 }, wantErr: ErrNegativeGPUCount},
		{name: "gpus without vendor", mutate: func(o *models.Offer) { o.GPUVendor = models.VendorNone }, wantErr: ErrMissingVendor},
		{name: "named gpu without count", mutate: func(o *models.Offer) { o.GPUCount = 0 }, wantErr: ErrUnexpectedGPUName},
		{name: "negative gpu memory", mutate: func(o *models.Offer) { o.GPUMemory = models.Float(-8) }, wantErr: ErrInvalidGPUMemory},
		{name: "negative disk", mutate: func(o *models.Offer) { o.DiskSize = models.Float(-1) }, wantErr: ErrInvalidDiskSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := validOffer()
			tt.mutate(&offer)

			err := v.Validate(offer)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
