package normalizer

import (
	"testing"
)

func TestParseMemory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "gigabytes", input: "64GB", want: 64},
		{name: "spaced gib", input: "48 GiB", want: 48},
		{name: "short unit", input: "24G", want: 24},
		{name: "lower case", input: "128 gb DDR4", want: 128},
		{name: "decimal", input: "7.5 GB", want: 7.5},
		{name: "first match wins", input: "RAM: 256GB, swap 16GB", want: 256},
		{name: "thousands separator", input: "1,152 GiB", want: 1152},
		{name: "thousands separator unspaced", input: "1,024GB", want: 1024},
		{name: "thousands separator with decimal", input: "2,048.5 GiB", want: 2048.5},
		{name: "no unit", input: "64", want: 0},
		{name: "gpu count is not memory", input: "8 GPUs", want: 0},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMemory(tt.input); got != tt.want {
				t.Errorf("ParseMemory(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDiskSize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "terabytes", input: "2 TB", want: 2048},
		{name: "tebibytes", input: "1.5TiB NVMe", want: 1536},
		{name: "gigabytes", input: "960GB", want: 960},
		{name: "thousands separator", input: "1,024 GB", want: 1024},
		{name: "thousands separator terabytes", input: "1,000 TB", want: 1024000},
		{name: "missing", input: "NVMe", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseDiskSize(tt.input); got != tt.want {
				t.Errorf("ParseDiskSize(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseCPUCores(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "cores", input: "2x Intel Xeon, 32 cores", want: 32},
		{name: "single core", input: "1 core", want: 1},
		{name: "vcpu", input: "16 vCPU", want: 16},
		{name: "vcpus upper", input: "48 VCPUS", want: 48},
		{name: "no marker", input: "AMD EPYC 7443", want: 0},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCPUCores(tt.input); got != tt.want {
				t.Errorf("ParseCPUCores(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "monthly", input: "€1200/month", want: 1.6667},
		{name: "per minute", input: "€0.02/minute", want: 1.2},
		{name: "weekly", input: "$168 per week", want: 1},
		{name: "daily", input: "48 EUR / day", want: 2},
		{name: "hourly", input: "€1.36/hour", want: 1.36},
		{name: "rounded", input: "0.123456", want: 0.1235},
		{name: "thousands separator", input: "€1,200/month", want: 1.6667},
		{name: "decimal comma", input: "1,36 €", want: 1.36},
		{name: "no number", input: "on request", want: 0},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsePrice(tt.input); got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseGPUCountAndModel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantModel string
	}{
		{name: "times with vendor", input: "4x NVIDIA RTX 4090", wantCount: 4, wantModel: "RTX 4090"},
		{name: "bare vendor model", input: "NVIDIA H100", wantCount: 1, wantModel: "H100"},
		{name: "pcs workstation", input: "8 pcs RTX A6000", wantCount: 8, wantModel: "A6000"},
		{name: "label prefix", input: "GPU: 2 pcs NVIDIA A100", wantCount: 2, wantModel: "A100"},
		{name: "memory suffix ignored", input: "1x A100 80GB", wantCount: 1, wantModel: "A100"},
		{name: "compact times", input: "8xH100", wantCount: 8, wantModel: "H100"},
		{name: "only vendor", input: "NVIDIA", wantCount: 0, wantModel: ""},
		{name: "empty", input: "", wantCount: 0, wantModel: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, model := ParseGPUCountAndModel(tt.input)
			if count != tt.wantCount || model != tt.wantModel {
				t.Errorf("ParseGPUCountAndModel(%q) = (%d, %q), want (%d, %q)",
					tt.input, count, model, tt.wantCount, tt.wantModel)
			}
		})
	}
}

func TestCleanModelName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "NVIDIA A100", want: "A100"},
		{input: "RTX A4000", want: "A4000"},
		{input: "NVIDIA GeForce RTX 3090", want: "RTX 3090"},
		{input: "  L40S  ", want: "L40S"},
		{input: "MI300X", want: "MI300X"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanModelName(tt.input); got != tt.want {
				t.Errorf("CleanModelName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
