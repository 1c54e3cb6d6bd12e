package gpu

import (
	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
)

// AWSTemplate anchors EC2 instance family patterns on the full instance type.
const AWSTemplate = "^%s$"

// AWSRules lists the GPU instance families.
var AWSRules = []Rule{
	{Pattern: `p5en\.\d+xlarge`, Name: "H200", Memory: mem(141), Vendor: models.VendorNVIDIA, Example: "p5en.48xlarge"},
	{Pattern: `p5e\.\d+xlarge`, Name: "H200", Memory: mem(141), Vendor: models.VendorNVIDIA, Example: "p5e.48xlarge"},
	{Pattern: `p5\.\d*xlarge`, Name: "H100", Memory: mem(80), Vendor: models.VendorNVIDIA, Example: "p5.48xlarge"},
	{Pattern: `p4de\.\d+xlarge`, Name: "A100", Memory: mem(80), Vendor: models.VendorNVIDIA, Example: "p4de.24xlarge"},
	{Pattern: `p4d\.\d+xlarge`, Name: "A100", Memory: mem(40), Vendor: models.VendorNVIDIA, Example: "p4d.24xlarge"},
	{Pattern: `p3dn\.\d+xlarge`, Name: "V100", Memory: mem(32), Vendor: models.VendorNVIDIA, Example: "p3dn.24xlarge"},
	{Pattern: `p3\.\d*xlarge`, Name: "V100", Memory: mem(16), Vendor: models.VendorNVIDIA, Example: "p3.8xlarge"},
	{Pattern: `p2\.\d*xlarge`, Name: "K80", Memory: mem(12), Vendor: models.VendorNVIDIA, Example: "p2.xlarge"},
	{Pattern: `g6e\.\d*xlarge`, Name: "L40S", Memory: mem(48), Vendor: models.VendorNVIDIA, Example: "g6e.12xlarge"},
	{Pattern: `gr6\.\d*xlarge`, Name: "L4", Memory: mem(24), Vendor: models.VendorNVIDIA, Example: "gr6.4xlarge"},
	{Pattern: `g6\.\d*xlarge`, Name: "L4", Memory: mem(24), Vendor: models.VendorNVIDIA, Example: "g6.2xlarge"},
	{Pattern: `g5g\.(?:\d*xlarge|metal)`, Name: "T4G", Memory: mem(16), Vendor: models.VendorNVIDIA, Example: "g5g.metal"},
	{Pattern: `g5\.\d*xlarge`, Name: "A10G", Memory: mem(24), Vendor: models.VendorNVIDIA, Example: "g5.48xlarge"},
	{Pattern: `g4dn\.(?:\d*xlarge|metal)`, Name: "T4", Memory: mem(16), Vendor: models.VendorNVIDIA, Example: "g4dn.xlarge"},
	{Pattern: `g4ad\.\d*xlarge`, Name: "V520", Memory: mem(8), Vendor: models.VendorAMD, Example: "g4ad.16xlarge"},
	{Pattern: `g3s?\.\d*xlarge`, Name: "M60", Memory: mem(8), Vendor: models.VendorNVIDIA, Example: "g3s.xlarge"},
}

// NewAWSResolver returns a resolver for EC2 instance types.
func NewAWSResolver(log *logger.Logger) *Resolver {
	return MustResolver(AWSTemplate, AWSRules, log)
}
