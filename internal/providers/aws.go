package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/aws/aws-sdk-go-v2/service/pricing/types"

	"gpuhunt/internal/gpu"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"
)

// The Price List API is only served from a few regions.
const awsPricingRegion = "us-east-1"

var awsProductFilters = map[string]string{
	"operatingSystem": "Linux",
	"tenancy":         "Shared",
	"preInstalledSw":  "NA",
	"capacitystatus":  "Used",
	"instanceFamily":  "GPU instance",
}

// AWS lists on-demand EC2 GPU instance prices from the Price List API.
type AWS struct {
	base
	client   pricing.GetProductsAPIClient
	resolver *gpu.Resolver
}

// NewAWS creates the AWS adapter. Without an injected client it loads the
// default AWS credential chain and resolves it, so missing credentials fail
// here rather than on the first request.
func NewAWS(ctx context.Context, deps Deps) (*AWS, error) {
	deps = deps.withDefaults()

	client := deps.AWSClient
	if client == nil {
		cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsPricingRegion))
		if err != nil {
			return nil, fmt.Errorf("%w: aws: %w", ErrMissingCredential, err)
		}

		if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
			return nil, fmt.Errorf("%w: aws: %w", ErrMissingCredential, err)
		}

		client = pricing.NewFromConfig(cfg)
	}

	b := newBase("aws", deps)

	return &AWS{
		base:     b,
		client:   client,
		resolver: gpu.NewAWSResolver(b.log),
	}, nil
}

// ProductsInput is the GetProducts request for Linux shared-tenancy GPU instances.
func ProductsInput() *pricing.GetProductsInput {
	keys := make([]string, 0, len(awsProductFilters))
	for k := range awsProductFilters {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	filters := make([]types.Filter, 0, len(keys))
	for _, k := range keys {
		filters = append(filters, types.Filter{
			Type:  types.FilterTypeTermMatch,
			Field: aws.String(k),
			Value: aws.String(awsProductFilters[k]),
		})
	}

	return &pricing.GetProductsInput{
		ServiceCode:   aws.String("AmazonEC2"),
		Filters:       filters,
		FormatVersion: aws.String("aws_v1"),
	}
}

// Get pages through every product and emits the priced ones.
func (p *AWS) Get(ctx context.Context) []models.Offer {
	var offers []models.Offer

	paginator := pricing.NewGetProductsPaginator(p.client, ProductsInput())
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			p.log.Error("failed to list products", "error", err)

			return nil
		}

		for _, doc := range page.PriceList {
			offer, err := p.offer(doc)
			if err != nil {
				p.log.Debug("skipping product", "error", err)

				continue
			}

			offers = append(offers, offer)
		}
	}

	return p.finish(offers)
}

type awsProduct struct {
	Product struct {
		Attributes struct {
			InstanceType string `json:"instanceType"`
			VCPU         string `json:"vcpu"`
			Memory       string `json:"memory"`
			GPU          string `json:"gpu"`
			RegionCode   string `json:"regionCode"`
		} `json:"attributes"`
	} `json:"product"`
	Terms struct {
		OnDemand map[string]struct {
			PriceDimensions map[string]struct {
				Unit         string            `json:"unit"`
				PricePerUnit map[string]string `json:"pricePerUnit"`
			} `json:"priceDimensions"`
		} `json:"OnDemand"`
	} `json:"terms"`
}

func (p *AWS) offer(doc string) (models.Offer, error) {
	var product awsProduct
	if err := json.Unmarshal([]byte(doc), &product); err != nil {
		return models.Offer{}, fmt.Errorf("failed to decode price list entry: %w", err)
	}

	attrs := product.Product.Attributes
	if attrs.InstanceType == "" || attrs.RegionCode == "" {
		return models.Offer{}, errors.New("price list entry without instance type or region")
	}

	price, ok := onDemandUSD(product)
	if !ok {
		return models.Offer{}, fmt.Errorf("no on-demand usd price for %s", attrs.InstanceType)
	}

	cpu, _ := strconv.Atoi(strings.TrimSpace(attrs.VCPU))
	count, _ := strconv.Atoi(strings.TrimSpace(attrs.GPU))

	offer := models.Offer{
		InstanceName: attrs.InstanceType,
		Location:     attrs.RegionCode,
		Price:        price,
		CPU:          cpu,
		Memory:       normalizer.ParseMemory(attrs.Memory),
	}

	if count > 0 {
		offer.GPUCount = count
		offer.GPUVendor = models.VendorNVIDIA

		if id, ok := p.resolver.Resolve(attrs.InstanceType); ok {
			offer.GPUName = id.Name
			offer.GPUMemory = id.Memory
			offer.GPUVendor = id.Vendor
		}
	}

	return offer, nil
}

// onDemandUSD returns the hourly USD price of the first on-demand dimension.
func onDemandUSD(product awsProduct) (float64, bool) {
	for _, term := range product.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			if dim.Unit != "" && !strings.HasPrefix(dim.Unit, "Hrs") {
				continue
			}

			raw, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}

			price, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}

			return price, true
		}
	}

	return 0, false
}
