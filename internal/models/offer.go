// Package models defines the records exchanged between providers, the extraction pipeline and the catalog.
package models

// AcceleratorVendor identifies the manufacturer of an attached GPU.
type AcceleratorVendor string

// Accelerator vendors.
const (
	VendorNone   AcceleratorVendor = ""
	VendorNVIDIA AcceleratorVendor = "NVIDIA"
	VendorAMD    AcceleratorVendor = "AMD"
)

// String returns the vendor name, or "none" when no GPU is attached.
func (v AcceleratorVendor) String() string {
	if v == VendorNone {
		return "none"
	}

	return string(v)
}

// Offer is one priced instance configuration of a provider, normalized to USD per hour.
type Offer struct {
	GPUMemory    *float64          `json:"gpu_memory"`
	DiskSize     *float64          `json:"disk_size,omitempty"`
	InstanceName string            `json:"instance_name"`
	Location     string            `json:"location"`
	GPUVendor    AcceleratorVendor `json:"gpu_vendor,omitempty"`
	GPUName      string            `json:"gpu_name,omitempty"`
	Price        float64           `json:"price"`
	Memory       float64           `json:"memory"`
	CPU          int               `json:"cpu"`
	GPUCount     int               `json:"gpu_count"`
	Spot         bool              `json:"spot"`
}

// OfferKey is the uniqueness key of an offer within one provider.
type OfferKey struct {
	InstanceName string
	Location     string
	Spot         bool
}

// Key returns the uniqueness key of the offer.
func (o Offer) Key() OfferKey {
	return OfferKey{
		InstanceName: o.InstanceName,
		Location:     o.Location,
		Spot:         o.Spot,
	}
}

// Float returns a pointer to v, for the optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
