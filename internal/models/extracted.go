package models

// ExtractedRecord is one GPU configuration pulled out of unstructured content.
// Counts default to 1, numeric fields to 0; Disk is nil when the source did not state it.
type ExtractedRecord struct {
	Disk     *float64          `json:"disk,omitempty"`
	Name     string            `json:"name"`
	Location string            `json:"location"`
	Vendor   AcceleratorVendor `json:"vendor"`
	Memory   float64           `json:"memory"`
	Price    float64           `json:"price"`
	RAM      float64           `json:"ram"`
	Count    int               `json:"count"`
	CPU      int               `json:"cpu"`
	Spot     bool              `json:"spot"`
}
