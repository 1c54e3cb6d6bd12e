package crawler

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// HTMLToMarkdown converts an HTML page into Markdown, dropping markup the
// completion backend would otherwise pay for.
func HTMLToMarkdown(content string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}

	return markdown, nil
}

// LooksLikeHTML reports whether content appears to be an HTML document or fragment.
func LooksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "<") {
		return false
	}

	lower := strings.ToLower(trimmed[:min(len(trimmed), 512)])

	return strings.Contains(lower, "<html") ||
		strings.Contains(lower, "<!doctype") ||
		strings.Contains(lower, "<div") ||
		strings.Contains(lower, "<body")
}
