package providers

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/net/html"

	"gpuhunt/internal/crawler"
	"gpuhunt/internal/models"
	"gpuhunt/internal/normalizer"
	"gpuhunt/pkg/utils"
)

// LeaderGPUURL lists the monthly-rentable servers available now or within three days.
const LeaderGPUURL = "https://www.leadergpu.com/filter_servers?filterExpression=os%3Awindows_server%3Bavailable_server%3Bavailable_server_next3d%3Bmonth%3A1"

const leaderGPULocation = "EU"

// LeaderGPU reads server cards from the LeaderGPU filter endpoint.
type LeaderGPU struct {
	base
	fetcher crawler.Fetcher
	rates   normalizer.Rates
	url     string
}

// NewLeaderGPU creates the LeaderGPU adapter.
func NewLeaderGPU(deps Deps) *LeaderGPU {
	deps = deps.withDefaults()

	return &LeaderGPU{
		base:    newBase("leadergpu", deps),
		fetcher: deps.Fetcher,
		rates:   deps.rates(),
		url:     deps.Config.ProviderURL("leadergpu", LeaderGPUURL),
	}
}

// Get fetches and parses the server cards.
func (p *LeaderGPU) Get(ctx context.Context) []models.Offer {
	content, err := p.fetcher.Fetch(ctx, p.url, map[string]string{"Accept": utils.AcceptJSON})
	if err != nil {
		p.log.Error("fetch failed", "error", err)

		return nil
	}

	var resp struct {
		MatchesHTML string `json:"matchesHtml"`
	}

	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		p.log.Error("failed to decode response", "error", err)

		return nil
	}

	if strings.TrimSpace(resp.MatchesHTML) == "" {
		p.log.Error("no server markup in response")

		return nil
	}

	doc, err := crawler.ParseHTML(resp.MatchesHTML)
	if err != nil {
		p.log.Error("failed to parse server markup", "error", err)

		return nil
	}

	var offers []models.Offer

	for _, section := range crawler.FindAll(doc, "section", "b-product-gpu") {
		if offer, ok := p.parseSection(section); ok {
			offers = append(offers, offer)
		}
	}

	return p.finish(offers)
}

func (p *LeaderGPU) parseSection(section *html.Node) (models.Offer, bool) {
	if crawler.Find(section, "div", "b-product-gpu-title") == nil {
		return models.Offer{}, false
	}

	list := crawler.Find(section, "div", "config-list")
	if list == nil {
		return models.Offer{}, false
	}

	rows := crawler.Children(list, "div")
	if len(rows) == 0 {
		return models.Offer{}, false
	}

	count, model := normalizer.ParseGPUCountAndModel(crawler.Text(rows[0]))
	if count == 0 || model == "" {
		p.log.Warn("skipping server without gpu", "text", crawler.Text(rows[0]))

		return models.Offer{}, false
	}

	var gpuRAM, cpu, ram, nvme string

	for _, row := range rows {
		text := crawler.Text(row)

		switch {
		case strings.Contains(text, "GPU RAM:"):
			gpuRAM = rowValue(row, "GPU RAM:")
		case strings.Contains(text, "CPU:"):
			cpu = rowValue(row, "CPU:")
		case strings.Contains(text, "RAM:"):
			ram = rowValue(row, "RAM:")
		case strings.Contains(text, "NVME:"):
			nvme = rowValue(row, "NVME:")
		}
	}

	price, err := p.price(section)
	if err != nil {
		p.log.Warn("skipping server with unconvertible price", "gpu", model, "error", err)

		return models.Offer{}, false
	}

	offer := models.Offer{
		InstanceName: normalizer.InstanceName(model, count),
		Location:     leaderGPULocation,
		Price:        price,
		CPU:          normalizer.ParseCPUCores(cpu),
		Memory:       normalizer.ParseMemory(ram),
		GPUCount:     count,
		GPUVendor:    models.VendorNVIDIA,
		GPUName:      model,
	}

	if mem := normalizer.ParseMemory(gpuRAM); mem > 0 {
		offer.GPUMemory = models.Float(mem)
	}

	if disk := normalizer.ParseDiskSize(nvme); disk > 0 {
		offer.DiskSize = models.Float(disk)
	}

	return offer, true
}

// price returns the first positive listed price in USD per hour.
func (p *LeaderGPU) price(section *html.Node) (float64, error) {
	prices := crawler.Find(section, "div", "b-product-gpu-prices")
	if prices == nil {
		return 0, nil
	}

	for _, li := range crawler.FindAll(prices, "li", "d-flex") {
		label := crawler.Find(li, "p", "text-bold")
		if label == nil {
			label = crawler.Find(li, "p", "")
		}

		text := crawler.Text(label)

		hourly := normalizer.ParsePrice(text)
		if hourly <= 0 {
			continue
		}

		return p.rates.ToUSD(hourly, normalizer.DetectCurrency(text, normalizer.EUR))
	}

	return 0, nil
}

// rowValue returns the span value of a "Label: <span>value</span>" row, or
// the text after the label.
func rowValue(row *html.Node, label string) string {
	if span := crawler.Find(row, "span", ""); span != nil {
		return crawler.Text(span)
	}

	text := crawler.Text(row)
	if i := strings.Index(text, label); i >= 0 {
		return strings.TrimSpace(text[i+len(label):])
	}

	return text
}
