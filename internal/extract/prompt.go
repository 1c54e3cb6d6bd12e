package extract

import (
	"fmt"
	"strings"
)

// SystemPrompt is sent with every extraction request.
const SystemPrompt = "You are a helpful assistant that extracts GPU information from webpages."

// responseFormat is the output contract shared by every extraction task.
const responseFormat = `Return the data in this format:
{
  "gpus": [
    {
      "name": "A100",
      "memory": 80,
      "count": 1,
      "price": 3.99,
      "location": "US",
      "cpu": 8,
      "ram": 64,
      "disk": 100,
      "spot": false,
      "vendor": "NVIDIA"
    }
  ]
}`

var commonRules = []string{
	"Return ALL GPU instances you find",
	"All numeric values should be numbers, not strings",
	"For any missing numeric values, use: memory=0, count=1, price=0, cpu=0, ram=0",
	"Do not return instances where ALL specifications are missing",
	`The vendor is always "NVIDIA" unless explicitly stated as AMD`,
}

// UserMessage frames the source content and the task instructions.
func UserMessage(content, instructions string) string {
	return fmt.Sprintf("Here is the webpage content:\n\n%s\n\n%s", content, instructions)
}

// Instructions builds a field-extraction specification from a task
// description and provider-specific rules, followed by the shared rules and
// output format.
func Instructions(task string, rules ...string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(task))
	sb.WriteString("\n\nImportant:\n")

	for _, rule := range append(append([]string{}, rules...), commonRules...) {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(responseFormat)

	return sb.String()
}
