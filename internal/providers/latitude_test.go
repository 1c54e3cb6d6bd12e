package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gpuhunt/internal/models"
)

const latitudePage = `<html><head>
<script id="__NEXT_DATA__" type="application/json">{"props":{},"page":"/pricing","buildId":"abc123","isFallback":false}</script>
</head><body></body></html>`

const latitudeDataURL = "https://www.latitude.sh/_next/data/abc123/en/pricing.json"

const latitudeData = `{"pageProps": {"plansData": [
	{"attributes": {
		"name": "g3.h100.large",
		"specs": {
			"cpu": {"cores": 32, "count": 2},
			"memory": {"total": 1024},
			"gpu": {"count": 8, "type": "8 x NVIDIA H100 80GB"}
		},
		"regions": [
			{"name": "United States", "locations": {"available": ["DAL", "NYC"]}, "pricing": {"USD": {"hour": 23.2}}},
			{"name": "Brazil", "locations": {"available": []}, "pricing": {"USD": {"hour": 25}}}
		]
	}},
	{"attributes": {
		"name": "c3.small.x86",
		"specs": {
			"cpu": {"cores": 8},
			"memory": {"total": 32},
			"gpu": {}
		},
		"regions": [
			{"name": "Chile", "locations": {"available": ["SAN"]}, "pricing": {"USD": {"hour": 0.3}}}
		]
	}},
	{"attributes": null}
]}}`

func TestLatitude_TwoPhaseFetch(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		LatitudePricingURL: latitudePage,
		latitudeDataURL:    latitudeData,
	}}

	deps := testDeps()
	deps.Fetcher = fetcher

	offers := NewLatitude(deps).Get(context.Background())
	require.Len(t, offers, 2)
	assert.Equal(t, []string{LatitudePricingURL, latitudeDataURL}, fetcher.calls)

	cpuOnly := offers[0]
	assert.Equal(t, "c3.small.x86", cpuOnly.InstanceName)
	assert.Equal(t, "SAN", cpuOnly.Location)
	assert.Equal(t, 8, cpuOnly.CPU)
	assert.Zero(t, cpuOnly.GPUCount)
	assert.Empty(t, cpuOnly.GPUName)
	assert.Nil(t, cpuOnly.GPUMemory)

	h100 := offers[1]
	assert.Equal(t, "g3.h100.large", h100.InstanceName)
	assert.Equal(t, "DAL", h100.Location)
	assert.InDelta(t, 23.2, h100.Price, 1e-9)
	assert.Equal(t, 64, h100.CPU)
	assert.InDelta(t, 1024.0, h100.Memory, 1e-9)
	assert.Equal(t, 8, h100.GPUCount)
	assert.Equal(t, "H100", h100.GPUName)
	assert.Equal(t, models.VendorNVIDIA, h100.GPUVendor)
	require.NotNil(t, h100.GPUMemory)
	assert.InDelta(t, 80.0, *h100.GPUMemory, 1e-9)
}

func TestLatitude_AMDVendor(t *testing.T) {
	data := `{"pageProps": {"plansData": [{"attributes": {
		"name": "g3.mi300x",
		"specs": {"cpu": {"cores": 64}, "memory": {"total": 2048}, "gpu": {"count": 8, "type": "AMD MI300X 192GB"}},
		"regions": [{"locations": {"available": ["DAL"]}, "pricing": {"USD": {"hour": 30}}}]
	}}]}}`

	fetcher := &fakeFetcher{bodies: map[string]string{
		LatitudePricingURL: latitudePage,
		latitudeDataURL:    data,
	}}

	deps := testDeps()
	deps.Fetcher = fetcher

	offers := NewLatitude(deps).Get(context.Background())
	require.Len(t, offers, 1)
	assert.Equal(t, models.VendorAMD, offers[0].GPUVendor)
	assert.Equal(t, "MI300X", offers[0].GPUName)
	require.NotNil(t, offers[0].GPUMemory)
	assert.InDelta(t, 192.0, *offers[0].GPUMemory, 1e-9)
}

func TestLatitude_MissingBuildID(t *testing.T) {
	fetcher := &fakeFetcher{bodies: map[string]string{
		LatitudePricingURL: `<html><body>pricing</body></html>`,
	}}

	deps := testDeps()
	deps.Fetcher = fetcher

	assert.Empty(t, NewLatitude(deps).Get(context.Background()))
	assert.Len(t, fetcher.calls, 1, "no data request without a build id")
}

func TestLatitude_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{LatitudePricingURL: errors.New("timeout")}}

	deps := testDeps()
	deps.Fetcher = fetcher

	assert.Empty(t, NewLatitude(deps).Get(context.Background()))
}

func TestExtractBuildID(t *testing.T) {
	id, err := ExtractBuildID(latitudePage)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = ExtractBuildID(`<script id="__NEXT_DATA__">{"page":"/"}</script>`)
	assert.ErrorIs(t, err, ErrBuildIDNotFound)
}

func TestOriginOf(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080", originOf("http://127.0.0.1:8080/pricing"))
	assert.Equal(t, "https://www.latitude.sh", originOf("https://www.latitude.sh"))
	assert.Equal(t, latitudeOrigin, originOf("not a url"))
}
