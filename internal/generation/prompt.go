package generation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BekzhanK1/moodlog-backend/internal/models"
)

//go:embed prompts.yaml
var promptsManifest []byte

// promptTemplate is one locale's entry in the prompts.yaml manifest.
type promptTemplate struct {
	LanguageName string `yaml:"language_name"`
	System       string `yaml:"system"`
	Task         string `yaml:"task"`
}

type promptManifest struct {
	SchemaVersion string                    `yaml:"schema_version"`
	DefaultLocale string                    `yaml:"default_locale"`
	Locales       map[string]promptTemplate `yaml:"locales"`
}

// PromptBuilder renders generation prompts from the embedded per-locale
// templates.
type PromptBuilder struct {
	manifest promptManifest
}

// NewPromptBuilder parses the embedded prompts.yaml with strict validation.
// Unknown YAML fields are rejected to catch manifest typos early.
func NewPromptBuilder() (*PromptBuilder, error) {
	var m promptManifest
	decoder := yaml.NewDecoder(bytes.NewReader(promptsManifest))
	decoder.KnownFields(true)

	if err := decoder.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse prompts manifest: %w", err)
	}
	if m.DefaultLocale == "" {
		return nil, fmt.Errorf("prompts manifest missing default_locale")
	}
	if _, ok := m.Locales[m.DefaultLocale]; !ok {
		return nil, fmt.Errorf("prompts manifest has no templates for default locale %q", m.DefaultLocale)
	}

	return &PromptBuilder{manifest: m}, nil
}

// DefaultLocale returns the manifest's fallback locale.
func (b *PromptBuilder) DefaultLocale() string {
	return b.manifest.DefaultLocale
}

// Build renders system and user prompts for the given entries. locale falls
// back to the manifest default when no templates exist for it. Entries are
// rendered with date, mood rating, tags and text.
func (b *PromptBuilder) Build(locale, periodLabel string, entries []models.Entry) (system, user string) {
	tmpl, ok := b.manifest.Locales[locale]
	if !ok {
		tmpl = b.manifest.Locales[b.manifest.DefaultLocale]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, tmpl.Task, periodLabel)
	sb.WriteString("\n")

	for _, e := range entries {
		sb.WriteString("\n---\n")
		fmt.Fprintf(&sb, "date: %s\n", e.CreatedAt.Format("2006-01-02"))
		if e.Title != "" {
			fmt.Fprintf(&sb, "title: %s\n", e.Title)
		}
		if e.MoodRating != nil {
			fmt.Fprintf(&sb, "mood: %.1f\n", *e.MoodRating)
		}
		if tags := decodeTags(e.Tags); len(tags) > 0 {
			fmt.Fprintf(&sb, "tags: %s\n", strings.Join(tags, ", "))
		}
		sb.WriteString(e.Content)
		sb.WriteString("\n")
	}

	return tmpl.System, sb.String()
}

// decodeTags unpacks the JSONB tags column; malformed or empty tags render
// as none rather than failing the prompt build.
func decodeTags(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

// LanguageName returns the display name of a locale's language for the
// generation request, falling back to the default locale.
func (b *PromptBuilder) LanguageName(locale string) string {
	if tmpl, ok := b.manifest.Locales[locale]; ok {
		return tmpl.LanguageName
	}
	return b.manifest.Locales[b.manifest.DefaultLocale].LanguageName
}
