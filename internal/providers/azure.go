package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"

	"gpuhunt/internal/crawler"
	"gpuhunt/internal/gpu"
	"gpuhunt/internal/models"
	"gpuhunt/pkg/utils"
)

// Azure Retail Prices API.
const (
	AzurePricesURL     = "https://prices.azure.com/api/retail/prices"
	azurePricesVersion = "2023-01-01-preview"
)

// AzureSubscriptionEnv names the subscription used to list compute SKUs.
const AzureSubscriptionEnv = "AZURE_SUBSCRIPTION_ID"

const maxAzurePages = 1000

var azurePriceFilters = []string{
	"serviceName eq 'Virtual Machines'",
	"priceType eq 'Consumption'",
	"contains(productName, 'Windows') eq false",
	"contains(productName, 'Dedicated') eq false",
	"contains(meterName, 'Low Priority') eq false",
}

// SKU is the shape of one Azure VM size.
type SKU struct {
	Name     string
	MemoryGB float64
	VCPUs    int
	GPUs     int
}

// SKUCatalog lists the VM sizes of a subscription.
type SKUCatalog interface {
	VirtualMachineSKUs(ctx context.Context) ([]SKU, error)
}

// ComputeSKUCatalog reads VM sizes from the Azure compute resource SKU API.
type ComputeSKUCatalog struct {
	client *armcompute.ResourceSKUsClient
}

// NewComputeSKUCatalog authenticates with the default Azure credential chain.
func NewComputeSKUCatalog(subscriptionID string) (*ComputeSKUCatalog, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create azure credential: %w", err)
	}

	client, err := armcompute.NewResourceSKUsClient(subscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource sku client: %w", err)
	}

	return &ComputeSKUCatalog{client: client}, nil
}

// VirtualMachineSKUs returns each virtualMachines SKU once.
func (c *ComputeSKUCatalog) VirtualMachineSKUs(ctx context.Context) ([]SKU, error) {
	seen := make(map[string]bool)

	var skus []SKU

	pager := c.client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list resource skus: %w", err)
		}

		for _, res := range page.Value {
			if res == nil || res.ResourceType == nil || *res.ResourceType != "virtualMachines" || res.Name == nil {
				continue
			}

			if seen[*res.Name] {
				continue
			}

			seen[*res.Name] = true

			caps := make(map[string]string, len(res.Capabilities))
			for _, capability := range res.Capabilities {
				if capability != nil && capability.Name != nil && capability.Value != nil {
					caps[*capability.Name] = *capability.Value
				}
			}

			skus = append(skus, skuFromCapabilities(*res.Name, caps))
		}
	}

	return skus, nil
}

func skuFromCapabilities(name string, caps map[string]string) SKU {
	sku := SKU{Name: name}
	sku.VCPUs, _ = strconv.Atoi(caps["vCPUs"])
	sku.MemoryGB, _ = strconv.ParseFloat(caps["MemoryGB"], 64)
	sku.GPUs, _ = strconv.Atoi(caps["GPUs"])

	return sku
}

// Azure joins retail VM prices with the subscription's SKU catalog.
type Azure struct {
	base
	fetcher   crawler.Fetcher
	skus      SKUCatalog
	resolver  *gpu.Resolver
	pricesURL string
}

// NewAzure creates the Azure adapter. Without an injected SKU catalog it
// requires AZURE_SUBSCRIPTION_ID.
func NewAzure(deps Deps) (*Azure, error) {
	deps = deps.withDefaults()

	skus := deps.AzureSKUs
	if skus == nil {
		sub := deps.Getenv(AzureSubscriptionEnv)
		if sub == "" {
			return nil, fmt.Errorf("%w: %s for azure", ErrMissingCredential, AzureSubscriptionEnv)
		}

		catalog, err := NewComputeSKUCatalog(sub)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingCredential, err)
		}

		skus = catalog
	}

	b := newBase("azure", deps)

	return &Azure{
		base:      b,
		fetcher:   deps.Fetcher,
		skus:      skus,
		resolver:  gpu.NewAzureResolver(b.log),
		pricesURL: deps.Config.ProviderURL("azure", AzurePricesURL),
	}, nil
}

type azurePricePage struct {
	NextPageLink string           `json:"NextPageLink"`
	Items        []azurePriceItem `json:"Items"`
}

type azurePriceItem struct {
	ArmSkuName    string  `json:"armSkuName"`
	ArmRegionName string  `json:"armRegionName"`
	MeterName     string  `json:"meterName"`
	RetailPrice   float64 `json:"retailPrice"`
}

// Get lists retail prices and fills each priced size from the SKU catalog.
// Prices for sizes missing from the catalog are dropped.
func (p *Azure) Get(ctx context.Context) []models.Offer {
	items, err := p.prices(ctx)
	if err != nil {
		p.log.Error("failed to list retail prices", "error", err)

		return nil
	}

	skus, err := p.skus.VirtualMachineSKUs(ctx)
	if err != nil {
		p.log.Error("failed to list vm skus", "error", err)

		return nil
	}

	details := make(map[string]SKU, len(skus))
	for _, sku := range skus {
		details[sku.Name] = sku
	}

	offers := make([]models.Offer, 0, len(items))

	for _, item := range items {
		sku, ok := details[item.ArmSkuName]
		if !ok {
			p.log.Debug("no sku details", "instance", item.ArmSkuName)

			continue
		}

		offers = append(offers, p.offer(item, sku))
	}

	return p.finish(offers)
}

func (p *Azure) offer(item azurePriceItem, sku SKU) models.Offer {
	offer := models.Offer{
		InstanceName: item.ArmSkuName,
		Location:     item.ArmRegionName,
		Price:        item.RetailPrice,
		CPU:          sku.VCPUs,
		Memory:       sku.MemoryGB,
		Spot:         strings.Contains(item.MeterName, "Spot"),
	}

	if sku.GPUs > 0 {
		offer.GPUCount = sku.GPUs
		offer.GPUVendor = models.VendorNVIDIA

		if id, ok := p.resolver.Resolve(sku.Name); ok {
			offer.GPUName = id.Name
			offer.GPUMemory = id.Memory
			offer.GPUVendor = id.Vendor
		}
	}

	return offer
}

func (p *Azure) prices(ctx context.Context) ([]azurePriceItem, error) {
	next := PricesQueryURL(p.pricesURL)

	var items []azurePriceItem

	for page := 0; next != ""; page++ {
		if page >= maxAzurePages {
			return nil, fmt.Errorf("retail prices exceeded %d pages", maxAzurePages)
		}

		raw, err := p.fetcher.Fetch(ctx, next, map[string]string{"Accept": utils.AcceptJSON})
		if err != nil {
			return nil, err
		}

		var data azurePricePage
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("failed to decode page %d: %w", page, err)
		}

		items = append(items, data.Items...)
		next = data.NextPageLink
	}

	return items, nil
}

// PricesQueryURL returns the first retail prices page URL for endpoint.
func PricesQueryURL(endpoint string) string {
	q := url.Values{}
	q.Set("api-version", azurePricesVersion)
	q.Set("$filter", strings.Join(azurePriceFilters, " and "))

	return endpoint + "?" + q.Encode()
}
