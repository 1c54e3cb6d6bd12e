package gpu

import (
	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
)

// AzureTemplate anchors Azure VM series patterns on the full size name.
const AzureTemplate = "^Standard_%s$"

// AzureRules lists the GPU VM series. Specific submodels come before the
// general series that would otherwise claim them.
var AzureRules = []Rule{
	{Pattern: `NC(\d+)ads_H100_v5`, Name: "H100", Memory: mem(94), Vendor: models.VendorNVIDIA, Example: "Standard_NC40ads_H100_v5"},
	{Pattern: `NCC(\d+)ads_H100_v5`, Name: "H100", Memory: mem(94), Vendor: models.VendorNVIDIA, Example: "Standard_NCC40ads_H100_v5"},
	{Pattern: `NC(\d+)ads_A100_v4`, Name: "A100", Memory: mem(80), Vendor: models.VendorNVIDIA, Example: "Standard_NC24ads_A100_v4"},
	{Pattern: `NC(\d+)ads_A10_v4`, Name: "A10", Vendor: models.VendorNVIDIA, Example: "Standard_NC16ads_A10_v4"},
	{Pattern: `NC(\d+)as_T4_v3`, Name: "T4", Memory: mem(16), Vendor: models.VendorNVIDIA, Example: "Standard_NC4as_T4_v3"},
	{Pattern: `NC(\d+)r?(?:_Promo)?`, Name: "K80", Vendor: models.VendorNVIDIA, Example: "Standard_NC24r"},
	{Pattern: `NC(\d+)r?s_v2`, Name: "P100", Vendor: models.VendorNVIDIA, Example: "Standard_NC6s_v2"},
	{Pattern: `NC(\d+)r?s_v3`, Name: "V100", Memory: mem(16), Vendor: models.VendorNVIDIA, Example: "Standard_NC24rs_v3"},
	{Pattern: `ND(\d+)isr_MI300X_v5`, Name: "MI300X", Memory: mem(192), Vendor: models.VendorAMD, Example: "Standard_ND96isr_MI300X_v5"},
	{Pattern: `ND(\d+)isr_H200_v5`, Name: "H200", Memory: mem(141), Vendor: models.VendorNVIDIA, Example: "Standard_ND96isr_H200_v5"},
	{Pattern: `ND(\d+)isr_H100_v5`, Name: "H100", Memory: mem(80), Vendor: models.VendorNVIDIA, Example: "Standard_ND96isr_H100_v5"},
	{Pattern: `ND(\d+)amsr_A100_v4`, Name: "A100", Memory: mem(80), Vendor: models.VendorNVIDIA, Example: "Standard_ND96amsr_A100_v4"},
	{Pattern: `ND(\d+)asr_v4`, Name: "A100", Memory: mem(40), Vendor: models.VendorNVIDIA, Example: "Standard_ND96asr_v4"},
	{Pattern: `ND(\d+)rs_v2`, Name: "V100", Memory: mem(32), Vendor: models.VendorNVIDIA, Example: "Standard_ND40rs_v2"},
	{Pattern: `ND(\d+)r?s`, Name: "P40", Vendor: models.VendorNVIDIA, Example: "Standard_ND24rs"},
	{Pattern: `NG(\d+)adm?s_V620_v1`, Name: "V620", Vendor: models.VendorAMD, Example: "Standard_NG32adms_V620_v1"},
	{Pattern: `NV(\d+)`, Name: "M60", Vendor: models.VendorNVIDIA, Example: "Standard_NV12"},
	{Pattern: `NV(\d+)adm?s_A10_v5`, Name: "A10", Vendor: models.VendorNVIDIA, Example: "Standard_NV36ads_A10_v5"},
	{Pattern: `NV(\d+)as_v4`, Name: "MI25", Vendor: models.VendorAMD, Example: "Standard_NV32as_v4"},
	{Pattern: `NV(\d+)s_v3`, Name: "M60", Vendor: models.VendorNVIDIA, Example: "Standard_NV48s_v3"},
}

// NewAzureResolver returns a resolver for Azure VM size names.
func NewAzureResolver(log *logger.Logger) *Resolver {
	return MustResolver(AzureTemplate, AzureRules, log)
}
