package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gpuhunt/internal/crawler"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"
	"gpuhunt/pkg/utils"
)

// Latitude endpoints.
const (
	LatitudePricingURL = "https://www.latitude.sh/pricing"
	latitudeDataPath   = "/_next/data/%s/en/pricing.json"
	latitudeOrigin     = "https://www.latitude.sh"
)

// ErrBuildIDNotFound is returned when the pricing page has no Next.js build id.
var ErrBuildIDNotFound = errors.New("build id not found in pricing page")

var (
	buildIDPattern   = regexp.MustCompile(`"buildId":"([^"]+)"`)
	gpuMemoryPattern = regexp.MustCompile(`(\d+)\s*GB`)
	amdPattern       = regexp.MustCompile(`(?i)\bAMD\b`)
)

// Latitude reads plans from the data file behind latitude.sh's pricing page.
type Latitude struct {
	base
	fetcher    crawler.Fetcher
	pricingURL string
	origin     string
}

// NewLatitude creates the Latitude adapter.
func NewLatitude(deps Deps) *Latitude {
	deps = deps.withDefaults()

	pricingURL := deps.Config.ProviderURL("latitude", LatitudePricingURL)

	return &Latitude{
		base:       newBase("latitude", deps),
		fetcher:    deps.Fetcher,
		pricingURL: pricingURL,
		origin:     originOf(pricingURL),
	}
}

type latitudePricing struct {
	PageProps struct {
		PlansData []struct {
			Attributes *latitudePlan `json:"attributes"`
		} `json:"plansData"`
	} `json:"pageProps"`
}

type latitudePlan struct {
	Name  string `json:"name"`
	Specs *struct {
		CPU struct {
			Cores json.Number `json:"cores"`
			Count json.Number `json:"count"`
		} `json:"cpu"`
		Memory struct {
			Total json.Number `json:"total"`
		} `json:"memory"`
		GPU struct {
			Type  string      `json:"type"`
			Count json.Number `json:"count"`
		} `json:"gpu"`
	} `json:"specs"`
	Regions []latitudeRegion `json:"regions"`
}

type latitudeRegion struct {
	Name      string `json:"name"`
	Locations struct {
		Available []string `json:"available"`
	} `json:"locations"`
	Pricing struct {
		USD struct {
			Hour json.Number `json:"hour"`
		} `json:"USD"`
	} `json:"pricing"`
}

// Get resolves the current build id and reads the plans it publishes.
func (p *Latitude) Get(ctx context.Context) []models.Offer {
	page, err := p.fetcher.Fetch(ctx, p.pricingURL, nil)
	if err != nil {
		p.log.Error("fetch failed", "url", p.pricingURL, "error", err)

		return nil
	}

	buildID, err := ExtractBuildID(page)
	if err != nil {
		p.log.Error("cannot locate pricing data", "error", err)

		return nil
	}

	dataURL := p.origin + fmt.Sprintf(latitudeDataPath, buildID)

	raw, err := p.fetcher.Fetch(ctx, dataURL, map[string]string{"Accept": utils.AcceptJSON})
	if err != nil {
		p.log.Error("fetch failed", "url", dataURL, "error", err)

		return nil
	}

	var data latitudePricing
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		p.log.Error("failed to decode pricing data", "error", err)

		return nil
	}

	var offers []models.Offer

	for _, entry := range data.PageProps.PlansData {
		if entry.Attributes == nil || entry.Attributes.Specs == nil {
			continue
		}

		for _, region := range entry.Attributes.Regions {
			offer, err := latitudeOffer(entry.Attributes, region)
			if err != nil {
				p.log.Warn("skipping plan", "plan", entry.Attributes.Name, "region", region.Name, "error", err)

				continue
			}

			offers = append(offers, offer)
		}
	}

	return p.finish(offers)
}

// ExtractBuildID returns the Next.js build id embedded in a pricing page.
func ExtractBuildID(page string) (string, error) {
	doc, err := crawler.ParseHTML(page)
	if err != nil {
		return "", err
	}

	script := crawler.FindByID(doc, "script", "__NEXT_DATA__")
	if script == nil {
		return "", ErrBuildIDNotFound
	}

	m := buildIDPattern.FindStringSubmatch(crawler.Text(script))
	if m == nil {
		return "", ErrBuildIDNotFound
	}

	return m[1], nil
}

var errNoLocation = errors.New("region has no available location")

func latitudeOffer(plan *latitudePlan, region latitudeRegion) (models.Offer, error) {
	if len(region.Locations.Available) == 0 || region.Locations.Available[0] == "" {
		return models.Offer{}, errNoLocation
	}

	cores, err := numberOr(plan.Specs.CPU.Cores, 0)
	if err != nil {
		return models.Offer{}, fmt.Errorf("cpu cores: %w", err)
	}

	sockets, err := numberOr(plan.Specs.CPU.Count, 1)
	if err != nil {
		return models.Offer{}, fmt.Errorf("cpu count: %w", err)
	}

	memory, err := numberOr(plan.Specs.Memory.Total, 0)
	if err != nil {
		return models.Offer{}, fmt.Errorf("memory: %w", err)
	}

	gpuCount, err := numberOr(plan.Specs.GPU.Count, 0)
	if err != nil {
		return models.Offer{}, fmt.Errorf("gpu count: %w", err)
	}

	price, err := numberOr(region.Pricing.USD.Hour, 0)
	if err != nil {
		return models.Offer{}, fmt.Errorf("price: %w", err)
	}

	offer := models.Offer{
		InstanceName: plan.Name,
		Location:     region.Locations.Available[0],
		Price:        price,
		CPU:          int(cores * sockets),
		Memory:       memory,
	}

	gpuType := plan.Specs.GPU.Type
	if gpuCount > 0 && gpuType != "" {
		_, model := normalizer.ParseGPUCountAndModel(amdPattern.ReplaceAllString(gpuType, " "))

		offer.GPUCount = int(gpuCount)
		offer.GPUName = model
		offer.GPUVendor = models.VendorNVIDIA

		if amdPattern.MatchString(gpuType) {
			offer.GPUVendor = models.VendorAMD
		}

		if m := gpuMemoryPattern.FindStringSubmatch(gpuType); m != nil {
			if gb, err := strconv.ParseFloat(m[1], 64); err == nil {
				offer.GPUMemory = models.Float(gb)
			}
		}
	}

	return offer, nil
}

func numberOr(n json.Number, fallback float64) (float64, error) {
	if n == "" {
		return fallback, nil
	}

	return n.Float64()
}

// originOf returns scheme://host of rawURL, falling back to latitude.sh.
func originOf(rawURL string) string {
	if i := strings.Index(rawURL, "://"); i >= 0 {
		if j := strings.Index(rawURL[i+3:], "/"); j >= 0 {
			return rawURL[:i+3+j]
		}

		return rawURL
	}

	return latitudeOrigin
}
