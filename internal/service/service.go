package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"imagegenie/internal/domain"
	"imagegenie/internal/imagegen"
)

// Generator runs one provider round trip; *imagegen.Pipeline satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt imagegen.ComposedPrompt, sel domain.SelectionSet) (*imagegen.GeneratedImage, error)
}

// ImageRemover deletes a generated file by its timestamp.
type ImageRemover interface {
	Delete(ctx context.Context, created int64) error
}

type Options struct {
	Catalog   domain.OptionCatalog
	Events    domain.EventLog
	Generator Generator
	Images    ImageRemover
	Logger    *zerolog.Logger
	// Locale picks the notification language for ctx; "en" when nil.
	Locale func(ctx context.Context) string
}

// Service is the command/query surface shared by the HTTP API and the CLI.
type Service struct {
	catalog   domain.OptionCatalog
	events    domain.EventLog
	generator Generator
	images    ImageRemover
	logger    zerolog.Logger
	locale    func(ctx context.Context) string
}

func New(opts Options) *Service {
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	locale := opts.Locale
	if locale == nil {
		locale = func(context.Context) string { return "en" }
	}
	return &Service{
		catalog:   opts.Catalog,
		events:    opts.Events,
		generator: opts.Generator,
		images:    opts.Images,
		logger:    logger,
		locale:    locale,
	}
}

// CategoryOptions is one option list as presented to a form.
type CategoryOptions struct {
	Category domain.Category `json:"category"`
	Title    string          `json:"title"`
	Options  []string        `json:"options"`
}

// ListOptions returns the labels stored for one category.
func (s *Service) ListOptions(ctx context.Context, category string) (*CategoryOptions, error) {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	names, err := s.catalog.List(ctx, c)
	if err != nil {
		return nil, err
	}
	return &CategoryOptions{Category: c, Title: c.Title(), Options: names}, nil
}

// ListAllOptions fetches every category concurrently and returns them in
// compose order.
func (s *Service) ListAllOptions(ctx context.Context) ([]CategoryOptions, error) {
	categories := domain.Categories()
	out := make([]CategoryOptions, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range categories {
		i, c := i, c
		g.Go(func() error {
			names, err := s.catalog.List(gctx, c)
			if err != nil {
				return fmt.Errorf("list %s: %w", c, err)
			}
			out[i] = CategoryOptions{Category: c, Title: c.Title(), Options: names}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit turns a flat form payload into a generated, saved and logged image.
func (s *Service) Submit(ctx context.Context, form map[string]string) (*Notification, error) {
	sel := domain.ParseSelection(form)
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	prompt, err := imagegen.Compose(sel)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().
		Int("prompt_length", prompt.Len()).
		Bool("override", sel.OverrideRequested()).
		Str("size", string(sel.Size)).
		Msg("submitting generation")

	img, err := s.generator.Generate(ctx, prompt, sel)
	if err != nil {
		return nil, err
	}

	p := newPrinter(s.locale(ctx))
	return &Notification{
		Kind:          KindSuccess,
		Message:       p.Sprintf(msgGenerated, fmt.Sprintf("%dx%d", img.Width(), img.Height())),
		Created:       img.Created,
		Width:         img.Width(),
		Height:        img.Height(),
		Path:          img.Path,
		RevisedPrompt: img.RevisedPrompt,
	}, nil
}

// Delete removes the image saved for created. Deleting an absent image
// succeeds.
func (s *Service) Delete(ctx context.Context, created int64) (*Notification, error) {
	if err := s.images.Delete(ctx, created); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("created", created).Msg("image deleted")
	p := newPrinter(s.locale(ctx))
	return &Notification{
		Kind:    KindSuccess,
		Message: p.Sprintf(msgDeleted, strconv.FormatInt(created, 10)),
		Created: created,
	}, nil
}

// FindEvent returns the first event log entry recorded for created.
func (s *Service) FindEvent(ctx context.Context, created int64) (*domain.EventLogEntry, error) {
	return s.events.FindByTimestamp(ctx, created)
}

// Reseed replaces one category's labels. Blank labels are dropped.
func (s *Service) Reseed(ctx context.Context, category string, labels []string) error {
	c, err := domain.ParseCategory(category)
	if err != nil {
		return err
	}
	clean := make([]string, 0, len(labels))
	for _, label := range labels {
		if label = strings.TrimSpace(label); label != "" {
			clean = append(clean, label)
		}
	}
	if err := s.catalog.Reseed(ctx, c, clean); err != nil {
		return err
	}
	s.logger.Info().Str("category", c.Key()).Int("count", len(clean)).Msg("category reseeded")
	return nil
}

// SeedDefaults reseeds every category with the bundled option lists.
func (s *Service) SeedDefaults(ctx context.Context) error {
	defaults := domain.DefaultCatalog()
	for _, c := range domain.Categories() {
		if err := s.catalog.Reseed(ctx, c, defaults[c]); err != nil {
			return fmt.Errorf("seed %s: %w", c, err)
		}
	}
	s.logger.Info().Int("categories", len(defaults)).Msg("default catalog seeded")
	return nil
}

// ParseCreated parses an image identifier.
func ParseCreated(raw string) (int64, error) {
	created, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimSpace(raw), ".jpg"), 10, 64)
	if err != nil || created <= 0 {
		return 0, fmt.Errorf("%w: image id %q", domain.ErrInvalidOption, raw)
	}
	return created, nil
}
