package imagegen

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"imagegenie/internal/domain"
	"imagegenie/internal/storage"
)

// ImageCreator is the provider call used by the pipeline.
type ImageCreator interface {
	CreateImage(ctx context.Context, prompt ComposedPrompt, sel domain.SelectionSet) (*ImageReply, error)
}

// ImageWriter persists decoded images; storage.FileStore satisfies it.
type ImageWriter interface {
	SaveImage(ctx context.Context, created int64, img storage.ImageSaver) (string, error)
	Delete(ctx context.Context, created int64) error
}

type PipelineOptions struct {
	Creator ImageCreator
	Events  domain.EventLog
	// Images is optional; without it Generate only decodes.
	Images ImageWriter
	Logger *zerolog.Logger
	// RequestID extracts a correlation id from ctx for the event log entry.
	RequestID func(ctx context.Context) string
	Now       func() time.Time
}

// Pipeline runs one generation: provider call, decode and event log append.
type Pipeline struct {
	creator   ImageCreator
	events    domain.EventLog
	images    ImageWriter
	logger    zerolog.Logger
	requestID func(ctx context.Context) string
	now       func() time.Time
}

func NewPipeline(opts PipelineOptions) *Pipeline {
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	requestID := opts.RequestID
	if requestID == nil {
		requestID = func(context.Context) string { return "" }
	}
	return &Pipeline{
		creator:   opts.Creator,
		events:    opts.Events,
		images:    opts.Images,
		logger:    logger,
		requestID: requestID,
		now:       now,
	}
}

// Generate sends prompt to the provider, decodes the reply, writes the file
// and appends the event log entry, in that order. A failure at any step
// leaves neither a file nor an entry behind.
func (p *Pipeline) Generate(ctx context.Context, prompt ComposedPrompt, sel domain.SelectionSet) (*GeneratedImage, error) {
	if err := sel.CheckParameters(); err != nil {
		return nil, err
	}
	if n := prompt.Len(); n > MaxPromptLength {
		p.logger.Warn().Int("length", n).Int("limit", MaxPromptLength).Msg("prompt exceeds provider limit")
	}

	start := p.now()
	reply, err := p.creator.CreateImage(ctx, prompt, sel)
	if err != nil {
		p.logger.Error().Err(err).Str("size", string(sel.Size)).Msg("image generation failed")
		return nil, err
	}
	img, err := NewGeneratedImage(*reply)
	if err != nil {
		p.logger.Error().Err(err).Int64("created", reply.Created).Msg("image decode failed")
		return nil, err
	}

	if p.images != nil {
		path, err := p.images.SaveImage(ctx, img.Created, img)
		if err != nil {
			p.logger.Error().Err(err).Int64("created", img.Created).Msg("image save failed")
			return nil, err
		}
		img.Path = path
	}

	entry := domain.EventLogEntry{
		ID:            uuid.NewString(),
		RequestID:     p.requestID(ctx),
		Prompt:        prompt.String(),
		RevisedPrompt: img.RevisedPrompt,
		Created:       img.Created,
		LoggedAt:      p.now().UTC(),
	}
	if err := p.events.Append(ctx, entry); err != nil {
		p.logger.Error().Err(err).Int64("created", img.Created).Msg("event log append failed")
		if p.images != nil && img.Path != "" {
			if rmErr := p.images.Delete(context.WithoutCancel(ctx), img.Created); rmErr != nil {
				p.logger.Error().Err(rmErr).Str("path", img.Path).Msg("orphan image not removed")
			}
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrEventLogWrite, err)
	}

	p.logger.Info().
		Int64("created", img.Created).
		Int("width", img.Width()).
		Int("height", img.Height()).
		Str("path", img.Path).
		Dur("took", p.now().Sub(start)).
		Msg("image generated")
	return img, nil
}
