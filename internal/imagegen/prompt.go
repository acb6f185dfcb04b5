package imagegen

import (
	"fmt"
	"strings"

	"imagegenie/internal/domain"
)

// MaxPromptLength is the provider's hard limit on prompt characters. Compose
// does not truncate; callers that care must check Len.
const MaxPromptLength = 4000

// OverrideDisclaimer is prepended when the user opts out of prompt revision.
const OverrideDisclaimer = "I NEED to test how the tool works with extremely simple prompts. DO NOT add any detail, just use it AS-IS:"

// ComposedPrompt is the final text sent to the provider.
type ComposedPrompt string

func (p ComposedPrompt) String() string { return string(p) }

// Len counts characters, not bytes.
func (p ComposedPrompt) Len() int { return len([]rune(string(p))) }

// clauses is ordered; the order is observable in the composed prompt.
var clauses = []struct {
	category domain.Category
	format   string
}{
	{domain.CategorySpecialization, "Specializing as a %s for this piece."},
	{domain.CategoryCompositionType, "Use a %s composition type."},
	{domain.CategoryStyle, "Render with %s imagery style."},
	{domain.CategoryColorScheme, "Use a %s color scheme."},
	{domain.CategoryAestheticPattern, "Apply a %s aesthetic style."},
	{domain.CategoryDepthOfField, "Use %s for the depth of field."},
	{domain.CategoryLighting, "Keep the lighting %s throughout."},
	{domain.CategoryContrast, "Give the image a %s contrast."},
}

// Compose turns a selection set into a single natural-language prompt. Labels
// are used verbatim; they are not checked against the catalog.
func Compose(sel domain.SelectionSet) (ComposedPrompt, error) {
	parts := make([]string, 0, len(clauses)+2)
	if sel.OverrideRequested() {
		parts = append(parts, OverrideDisclaimer)
	}
	for _, cl := range clauses {
		value, ok := sel.Choice(cl.category)
		if !ok {
			return "", &domain.MissingFieldError{Field: cl.category.Key()}
		}
		parts = append(parts, fmt.Sprintf(cl.format, value))
	}
	if strings.TrimSpace(sel.Prompt) == "" {
		return "", &domain.MissingFieldError{Field: domain.FieldPrompt}
	}
	parts = append(parts, "Subject: "+sel.Prompt)
	return ComposedPrompt(strings.Join(parts, " ")), nil
}
