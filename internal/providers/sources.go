package providers

import (
	"encoding/json"
	"errors"
	"fmt"

	"gpuhunt/internal/normalizer"
	"gpuhunt/pkg/utils"
)

// ErrNoGPUTypes is returned when an API listing carries no GPU instance types.
var ErrNoGPUTypes = errors.New("listing has no gpu instance types")

const fieldList = `For each GPU instance, provide:
1. GPU model name (e.g. %s) - remove any vendor prefix
2. GPU memory in GB (as a number)
3. Number of GPUs per instance (as a number)
4. Price per hour in %s (as a number)
5. Location (%s)
6. Number of CPU cores (as a number)
7. System RAM in GB (as a number)
8. Disk size in GB if available (as a number)`

func task(intro, examples, currency, location string) string {
	return intro + " " + fmt.Sprintf(fieldList, examples, currency, location)
}

// SeewebSource extracts Seeweb's GPU cloud servers, priced in EUR.
func SeewebSource() ExtractionSource {
	return ExtractionSource{
		Name:            "seeweb",
		URLs:            []string{"https://www.seeweb.it/en/products/cloud-server-gpu"},
		Currency:        normalizer.EUR,
		DefaultLocation: "Italy",
		Task: task("Extract all GPU instances from the Seeweb GPU Cloud Server pricing page.",
			"A4000, A5000, A6000", "EUR, exactly as listed", `set to "Italy" as all instances are in Italy`),
		Rules: []string{
			"Keep prices in EUR, do not convert currencies",
			"Convert monthly prices to hourly by dividing by (24 * 30)",
			"Pay attention to both vCPU and RAM specifications",
			"Look for SSD/NVMe storage sizes",
		},
	}
}

// ScalewaySource extracts Scaleway's GPU instances, priced in EUR.
func ScalewaySource() ExtractionSource {
	return ExtractionSource{
		Name:            "scaleway",
		URLs:            []string{"https://www.scaleway.com/en/pricing/gpu/"},
		Currency:        normalizer.EUR,
		DefaultLocation: "Paris",
		Task: task("Extract all GPU instances from the Scaleway pricing page.",
			"A4000, A5000, H100", "EUR, exactly as listed", "either Paris or Amsterdam"),
		Rules: []string{
			"Keep prices in EUR, do not convert currencies",
			`If a GPU name has a format like "L40s-1-48G", convert it to just "L40"`,
		},
	}
}

// GenesisCloudSource extracts Genesis Cloud's on-demand and spot offers.
func GenesisCloudSource() ExtractionSource {
	return ExtractionSource{
		Name:            "genesiscloud",
		URLs:            []string{"https://www.genesiscloud.com/pricing"},
		Currency:        normalizer.USD,
		DefaultLocation: "EU",
		Task: task("Extract all GPU instances from the Genesis Cloud pricing page.",
			"RTX 4090, RTX 3090, A100", "USD", `use the region specified, default to "EU" if not specified`),
		Rules: []string{
			"Look for both On-Demand and Spot prices (create separate entries with spot=true for spot instances)",
			"Make sure to include both RTX and Data Center GPUs",
			"Look for SSD/NVMe storage sizes",
		},
	}
}

// CrusoeSource extracts Crusoe Cloud's GPU instances.
func CrusoeSource() ExtractionSource {
	return ExtractionSource{
		Name:            "crusoe",
		URLs:            []string{"https://crusoe.ai/cloud/"},
		Currency:        normalizer.USD,
		DefaultLocation: "US",
		Task: task("Extract all GPU instances from the Crusoe Cloud pricing page.",
			"H100, A100", "USD", `set to "US" as all instances are in US`),
		Rules: []string{
			"Look for pricing information in USD per hour",
			"If memory/CPU/RAM information is not provided, set to 0",
		},
	}
}

// LinodeSource extracts Linode's GPU plans from its public types API.
func LinodeSource() ExtractionSource {
	return ExtractionSource{
		Name:            "linode",
		URLs:            []string{"https://api.linode.com/v4/linode/types"},
		Headers:         map[string]string{"Accept": utils.AcceptJSON},
		Currency:        normalizer.USD,
		DefaultLocation: "US",
		Prepare:         linodeGPUTypes,
		Task: task(`Extract all GPU instances from the Linode API response. The data is in JSON format where GPU instances have "class": "gpu".`,
			"A100, RTX6000", `USD - use the "price.hourly" field`, `set to "US" as instances are available in multiple regions`),
		Rules: []string{
			`GPU memory is usually in the "label" field and the GPU count in "gpus"`,
			`Use the "vcpus" field for CPU cores`,
			`System RAM is the "memory" field in MB, divide by 1024 to convert to GB`,
			`Use the "disk" field in MB for disk size, divide by 1024 to convert to GB`,
		},
	}
}

// linodeGPUTypes keeps only the gpu class entries of a types listing.
func linodeGPUTypes(content string) (string, error) {
	var listing struct {
		Data []map[string]any `json:"data"`
	}

	if err := json.Unmarshal([]byte(content), &listing); err != nil {
		return "", fmt.Errorf("failed to decode linode types: %w", err)
	}

	gpus := make([]map[string]any, 0, len(listing.Data))

	for _, t := range listing.Data {
		if class, _ := t["class"].(string); class == "gpu" {
			gpus = append(gpus, t)
		}
	}

	if len(gpus) == 0 {
		return "", ErrNoGPUTypes
	}

	out, err := json.Marshal(map[string]any{"data": gpus})
	if err != nil {
		return "", fmt.Errorf("failed to encode linode gpu types: %w", err)
	}

	return string(out), nil
}
