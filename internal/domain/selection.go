package domain

import (
	"fmt"
	"strings"
)

// ImageSize is one of the provider's fixed W×H strings.
type ImageSize string

const (
	ImageSizeSquare    ImageSize = "1024x1024"
	ImageSizeLandscape ImageSize = "1792x1024"
	ImageSizePortrait  ImageSize = "1024x1792"

	DefaultImageSize = ImageSizeLandscape
)

// ImageQuality selects the provider's rendering quality.
type ImageQuality string

const (
	ImageQualityStandard ImageQuality = "standard"
	ImageQualityHD       ImageQuality = "hd"

	DefaultImageQuality = ImageQualityHD
)

// RenderStyle is the provider-side style switch. It is unrelated to the
// style category, which is free text from the catalog.
type RenderStyle string

const (
	RenderStyleVivid   RenderStyle = "vivid"
	RenderStyleNatural RenderStyle = "natural"

	DefaultRenderStyle = RenderStyleVivid
)

// Form keys for the non-category fields of a submission.
const (
	FieldPrompt         = "prompt"
	FieldPromptOverride = "prompt_override"
	FieldSize           = "size"
	FieldQuality        = "quality"
	FieldRenderStyle    = "render_style"
)

// OverrideIndicator is the only prompt_override value that disables
// provider-side prompt revision.
const (
	OverrideIndicator = "yes"
	OverrideDefault   = "no"
)

func ImageSizes() []ImageSize {
	return []ImageSize{ImageSizeSquare, ImageSizeLandscape, ImageSizePortrait}
}

func ImageQualities() []ImageQuality {
	return []ImageQuality{ImageQualityStandard, ImageQualityHD}
}

func RenderStyles() []RenderStyle {
	return []RenderStyle{RenderStyleVivid, RenderStyleNatural}
}

func (s ImageSize) Valid() bool {
	switch s {
	case ImageSizeSquare, ImageSizeLandscape, ImageSizePortrait:
		return true
	}
	return false
}

func (q ImageQuality) Valid() bool {
	return q == ImageQualityStandard || q == ImageQualityHD
}

func (s RenderStyle) Valid() bool {
	return s == RenderStyleVivid || s == RenderStyleNatural
}

// SelectionSet is one user submission: a label per category, the free-text
// subject and the provider parameters. It lives for a single request.
type SelectionSet struct {
	Choices        map[Category]string
	Prompt         string
	PromptOverride string
	Size           ImageSize
	Quality        ImageQuality
	RenderStyle    RenderStyle
}

// ParseSelection converts a flat form payload into a SelectionSet. Unknown
// keys are ignored and blank provider parameters fall back to defaults;
// completeness is checked by Validate.
func ParseSelection(form map[string]string) SelectionSet {
	sel := SelectionSet{
		Choices:        make(map[Category]string, len(categoryKeys)),
		PromptOverride: OverrideDefault,
		Size:           DefaultImageSize,
		Quality:        DefaultImageQuality,
		RenderStyle:    DefaultRenderStyle,
	}
	for key, value := range form {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case FieldPrompt:
			sel.Prompt = value
		case FieldPromptOverride:
			if v := strings.TrimSpace(value); v != "" {
				sel.PromptOverride = v
			}
		case FieldSize:
			if v := strings.TrimSpace(value); v != "" {
				sel.Size = ImageSize(strings.ToLower(v))
			}
		case FieldQuality:
			if v := strings.TrimSpace(value); v != "" {
				sel.Quality = ImageQuality(strings.ToLower(v))
			}
		case FieldRenderStyle:
			if v := strings.TrimSpace(value); v != "" {
				sel.RenderStyle = RenderStyle(strings.ToLower(v))
			}
		default:
			if c, err := ParseCategory(key); err == nil {
				sel.Choices[c] = strings.TrimSpace(value)
			}
		}
	}
	return sel
}

// Choice returns the label selected for c and whether one was given.
func (s SelectionSet) Choice(c Category) (string, bool) {
	v, ok := s.Choices[c]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// OverrideRequested reports whether the subject must be sent as-is.
func (s SelectionSet) OverrideRequested() bool {
	return s.PromptOverride == OverrideIndicator
}

// CheckComplete verifies that every category and the subject are present.
func (s SelectionSet) CheckComplete() error {
	for _, c := range Categories() {
		if _, ok := s.Choice(c); !ok {
			return &MissingFieldError{Field: c.Key()}
		}
	}
	if strings.TrimSpace(s.Prompt) == "" {
		return &MissingFieldError{Field: FieldPrompt}
	}
	return nil
}

// CheckParameters verifies the provider enums.
func (s SelectionSet) CheckParameters() error {
	if !s.Size.Valid() {
		return fmt.Errorf("%w: size %q", ErrInvalidOption, s.Size)
	}
	if !s.Quality.Valid() {
		return fmt.Errorf("%w: quality %q", ErrInvalidOption, s.Quality)
	}
	if !s.RenderStyle.Valid() {
		return fmt.Errorf("%w: render_style %q", ErrInvalidOption, s.RenderStyle)
	}
	return nil
}

// Validate runs both completeness and parameter checks.
func (s SelectionSet) Validate() error {
	if err := s.CheckComplete(); err != nil {
		return err
	}
	return s.CheckParameters()
}
