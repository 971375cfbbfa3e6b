package enrich

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// maxNameLength bounds what is accepted back from the model.
const maxNameLength = 60

const namePrompt = "You clean up merchant names from UK bank statements.\n\n" +
	"Task:\n" +
	"- Read the statement description below.\n" +
	"- Reply with the brand or business name a customer would recognise.\n" +
	"- Drop payment rails, references, card numbers, dates and locations.\n\n" +
	"Reply with the name only, on one line, without quotes or Markdown.\n\n" +
	"Description: "

// GeminiNamer asks a Gemini model for merchant names. Credentials come from
// GOOGLE_API_KEY or GEMINI_API_KEY in the environment.
type GeminiNamer struct {
	client *genai.Client
	model  string
}

// NewGeminiNamer creates a GeminiNamer. An empty model selects
// DefaultModelName.
func NewGeminiNamer(ctx context.Context, model string) (*GeminiNamer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiNamer: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModelName
	}
	return &GeminiNamer{client: client, model: model}, nil
}

// CleanName implements Namer.
func (g *GeminiNamer) CleanName(ctx context.Context, raw string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(namePrompt+raw), nil)
	if err != nil {
		return "", fmt.Errorf("CleanName: generate content: %w", err)
	}
	name := sanitizeName(resp.Text())
	if name == "" {
		return "", fmt.Errorf("CleanName %q: %w", raw, ErrEmptyName)
	}
	return name, nil
}

// sanitizeName keeps the first line of a model reply with fences and quotes
// removed. Replies longer than maxNameLength are discarded.
func sanitizeName(reply string) string {
	s := strings.TrimSpace(reply)
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(strings.TrimSpace(s), "`\"' .")
	if len([]rune(s)) > maxNameLength {
		return ""
	}
	return s
}
