package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gpuhunt/internal/models"
)

var primaryFields = []string{"name", "memory", "count", "price", "cpu", "ram"}

// ConvertRecord converts one loosely-typed extracted element into a record.
// Absent or null fields take defaults (count 1, other numbers 0, vendor
// NVIDIA); a present field of an unusable type fails the whole element.
func ConvertRecord(raw any) (models.ExtractedRecord, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.ExtractedRecord{}, fmt.Errorf("%w: %T", ErrRecordNotAnObject, raw)
	}

	if isDegenerate(obj) {
		return models.ExtractedRecord{}, ErrDegenerateRecord
	}

	rec := models.ExtractedRecord{Count: 1, Vendor: models.VendorNVIDIA}

	var err error

	if rec.Name, err = stringField(obj, "name"); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.Location, err = stringField(obj, "location"); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.Memory, err = floatField(obj, "memory", 0); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.Price, err = floatField(obj, "price", 0); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.RAM, err = floatField(obj, "ram", 0); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.Count, err = intField(obj, "count", 1); err != nil {
		return models.ExtractedRecord{}, err
	}

	if rec.CPU, err = intField(obj, "cpu", 0); err != nil {
		return models.ExtractedRecord{}, err
	}

	disk, err := floatField(obj, "disk", 0)
	if err != nil {
		return models.ExtractedRecord{}, err
	}

	if disk > 0 {
		rec.Disk = models.Float(disk)
	}

	if rec.Spot, err = boolField(obj, "spot"); err != nil {
		return models.ExtractedRecord{}, err
	}

	rec.Vendor = vendorField(obj)

	return rec, nil
}

func isDegenerate(obj map[string]any) bool {
	for _, field := range primaryFields {
		if v, ok := obj[field]; ok && v != nil {
			return false
		}
	}

	return true
}

func stringField(obj map[string]any, field string) (string, error) {
	switch v := obj[field].(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fieldError(field, v)
	}
}

func floatField(obj map[string]any, field string, fallback float64) (float64, error) {
	var (
		f   float64
		err error
	)

	switch v := obj[field].(type) {
	case nil:
		return fallback, nil
	case json.Number:
		f, err = v.Float64()
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return fallback, nil
		}

		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, fieldError(field, v)
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fieldError(field, obj[field])
	}

	return f, nil
}

func intField(obj map[string]any, field string, fallback int) (int, error) {
	if obj[field] == nil {
		return fallback, nil
	}

	if s, ok := obj[field].(string); ok && strings.TrimSpace(s) == "" {
		return fallback, nil
	}

	f, err := floatField(obj, field, float64(fallback))
	if err != nil {
		return 0, err
	}

	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fieldError(field, obj[field])
	}

	return int(f), nil
}

func boolField(obj map[string]any, field string) (bool, error) {
	switch v := obj[field].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fieldError(field, v)
		}

		return b, nil
	default:
		return false, fieldError(field, v)
	}
}

// vendorField maps an absent, empty or "NVIDIA" vendor to NVIDIA and any other
// vendor string to AMD.
func vendorField(obj map[string]any) models.AcceleratorVendor {
	s, ok := obj["vendor"].(string)
	if !ok {
		return models.VendorNVIDIA
	}

	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(models.VendorNVIDIA)) {
		return models.VendorNVIDIA
	}

	return models.VendorAMD
}

func fieldError(field string, value any) error {
	return fmt.Errorf("%w: %s=%v (%T)", ErrFieldType, field, value, value)
}
