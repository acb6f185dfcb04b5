package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"imagegenie/internal/domain"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "dall-e-3"
	defaultUserAgent = "ImgGen/1.0"

	responseFormatB64 = "b64_json"
)

type OpenAIOptions struct {
	BaseURL   string
	APIKey    string
	Model     string
	UserAgent string
	// HTTPClient defaults to a client without a timeout; the request context
	// is the only bound on the call.
	HTTPClient *http.Client
}

// OpenAIClient issues image generation calls against the OpenAI images API.
// Every call is a single attempt.
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	model      string
	userAgent  string
}

func NewOpenAIClient(opts OpenAIOptions) *OpenAIClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAIClient{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
		model:      model,
		userAgent:  ua,
	}
}

// Model returns the model identifier sent with every request.
func (c *OpenAIClient) Model() string { return c.model }

type imageRequest struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Model          string `json:"model"`
	ResponseFormat string `json:"response_format"`
	Quality        string `json:"quality"`
	Style          string `json:"style"`
}

// imageResponse uses pointers so that absent keys can be told apart from
// empty values.
type imageResponse struct {
	Created *int64 `json:"created"`
	Data    []struct {
		B64JSON       *string `json:"b64_json"`
		RevisedPrompt *string `json:"revised_prompt"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ImageReply is a validated success reply.
type ImageReply struct {
	Created       int64
	B64JSON       string
	RevisedPrompt string
}

func (c *OpenAIClient) buildRequest(ctx context.Context, prompt ComposedPrompt, sel domain.SelectionSet) (*http.Request, error) {
	payload := imageRequest{
		Prompt:         prompt.String(),
		N:              1,
		Size:           string(sel.Size),
		Model:          c.model,
		ResponseFormat: responseFormatB64,
		Quality:        string(sel.Quality),
		Style:          string(sel.RenderStyle),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

// CreateImage sends one generation request and validates the reply.
func (c *OpenAIClient) CreateImage(ctx context.Context, prompt ComposedPrompt, sel domain.SelectionSet) (*ImageReply, error) {
	if c == nil {
		return nil, errors.New("openai client not configured")
	}
	if c.token == "" {
		return nil, errors.New("openai: API key is missing")
	}
	req, err := c.buildRequest(ctx, prompt, sel)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrTransportFailure, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, providerError(resp, raw)
	}
	return decodeReply(raw)
}

// providerError prefers the provider's own message, which is only trusted
// when the reply declares a JSON body.
func providerError(resp *http.Response, raw []byte) error {
	perr := &domain.ProviderError{StatusCode: resp.StatusCode}
	if resp.ContentLength != 0 && isJSON(resp.Header.Get("Content-Type")) {
		var body errorResponse
		if err := json.Unmarshal(raw, &body); err == nil {
			perr.Message = body.Error.Message
		}
	}
	return perr
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json"
}

func decodeReply(raw []byte) (*ImageReply, error) {
	var out imageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	switch {
	case out.Created == nil:
		return nil, fmt.Errorf("%w: missing created", domain.ErrMalformedResponse)
	case len(out.Data) == 0:
		return nil, fmt.Errorf("%w: empty data", domain.ErrMalformedResponse)
	case out.Data[0].B64JSON == nil || *out.Data[0].B64JSON == "":
		return nil, fmt.Errorf("%w: missing b64_json", domain.ErrMalformedResponse)
	case out.Data[0].RevisedPrompt == nil:
		return nil, fmt.Errorf("%w: missing revised_prompt", domain.ErrMalformedResponse)
	}
	return &ImageReply{
		Created:       *out.Created,
		B64JSON:       *out.Data[0].B64JSON,
		RevisedPrompt: *out.Data[0].RevisedPrompt,
	}, nil
}
