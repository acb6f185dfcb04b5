package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category identifies one curated option list. The same value keys the
// catalog store, the submitted form and the prompt clauses.
type Category int

const (
	CategorySpecialization Category = iota
	CategoryCompositionType
	CategoryStyle
	CategoryColorScheme
	CategoryAestheticPattern
	CategoryDepthOfField
	CategoryLighting
	CategoryContrast
)

var categoryKeys = [...]string{
	CategorySpecialization:   "specialization",
	CategoryCompositionType:  "composition_type",
	CategoryStyle:            "style",
	CategoryColorScheme:      "color_scheme",
	CategoryAestheticPattern: "aesthetic_pattern",
	CategoryDepthOfField:     "depth_of_field",
	CategoryLighting:         "lighting",
	CategoryContrast:         "contrast",
}

// legacyPrefix is carried by store names written by older seeders
// (image_style, image_lighting, ...).
const legacyPrefix = "image_"

// Categories returns every category in prompt order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryKeys))
	for i := range categoryKeys {
		out = append(out, Category(i))
	}
	return out
}

// ParseCategory resolves a form field or store name into a Category.
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	for i, k := range categoryKeys {
		if key == k || key == legacyPrefix+k {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryKeys)
}

// Key is the canonical identifier used on the wire and in storage.
func (c Category) Key() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryKeys[c]
}

func (c Category) String() string { return c.Key() }

// Title renders the key as a heading for selection widgets.
func (c Category) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(c.Key(), "_", " "))
}

// MarshalText lets categories act as JSON object keys.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.Key()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
