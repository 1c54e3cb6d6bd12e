package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"gpuhunt/internal/crawler"
	"gpuhunt/internal/logger"
	"gpuhunt/internal/models"
	"gpuhunt/pkg/utils"
)

// Options tune how content is prepared before it is sent for completion.
type Options struct {
	MaxContentBytes int
	ConvertHTML     bool
}

// Pipeline extracts records through a Completer and caches each source's
// decoded batch for the lifetime of the pipeline. It is not safe for
// concurrent use.
type Pipeline struct {
	completer Completer
	log       *logger.Logger
	strings   *utils.StringHelper
	cache     map[string][]models.ExtractedRecord
	opts      Options
}

// NewPipeline creates a pipeline backed by completer.
func NewPipeline(completer Completer, opts Options, log *logger.Logger) *Pipeline {
	return &Pipeline{
		completer: completer,
		log:       log,
		strings:   utils.NewStringHelper(),
		cache:     make(map[string][]models.ExtractedRecord),
		opts:      opts,
	}
}

// Extract returns the records found in content. Results are cached by
// sourceKey; failures are logged, return nil and are never cached.
func (p *Pipeline) Extract(ctx context.Context, sourceKey, content, instructions string) []models.ExtractedRecord {
	log := p.log.With("source", sourceKey)

	if cached, ok := p.cache[sourceKey]; ok {
		log.Debug("using cached extraction", "records", len(cached))

		return slices.Clone(cached)
	}

	raw, err := p.completer.Complete(ctx, Request{
		System:       SystemPrompt,
		Content:      p.prepare(content, log),
		Instructions: instructions,
	})
	if err != nil {
		log.Error("extraction failed", "error", err)

		return nil
	}

	elements, err := DecodeGPUs(raw)
	if err != nil {
		log.Error("unusable extraction response", "error", err, "response", p.strings.TruncateString(p.strings.NormalizeWhitespace(raw), 512))

		return nil
	}

	records := make([]models.ExtractedRecord, 0, len(elements))

	for i, element := range elements {
		rec, err := ConvertRecord(element)
		if err != nil {
			log.Warn("dropping extracted record", "index", i, "error", err, "raw", fmt.Sprintf("%v", element))

			continue
		}

		records = append(records, rec)
	}

	log.Info("extracted records", "records", len(records), "elements", len(elements))
	p.cache[sourceKey] = records

	return slices.Clone(records)
}

// prepare reduces HTML to Markdown when enabled and caps the content size.
func (p *Pipeline) prepare(content string, log *logger.Logger) string {
	if p.opts.ConvertHTML && crawler.LooksLikeHTML(content) {
		md, err := crawler.HTMLToMarkdown(content)
		if err != nil {
			log.Warn("html conversion failed, sending raw content", "error", err)
		} else {
			content = md
		}
	}

	if p.opts.MaxContentBytes > 0 && len(content) > p.opts.MaxContentBytes {
		log.Debug("truncating content", "bytes", len(content), "limit", p.opts.MaxContentBytes)
		content = p.strings.CutString(content, p.opts.MaxContentBytes)
	}

	return content
}

// DecodeGPUs parses a completion response and returns the elements of its
// top-level "gpus" collection. A single object is treated as a one-element
// collection and null as an empty one.
func DecodeGPUs(raw string) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	value, ok := doc["gpus"]
	if !ok {
		return nil, ErrNoGPUsKey
	}

	switch v := value.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	default:
		return []any{v}, nil
	}
}
