// Package genai talks to the Gemini generateContent API.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/valyala/fasthttp"
)

// Errors reported by Generate, matched with errors.Is.
var (
	ErrMissingAPIKey = errors.New("genai: API key is missing, set genai-api-key or GEMINI_API_KEY")
	ErrInvalidAPIKey = errors.New("genai: API key is invalid or lacks permission")
	ErrQuota         = errors.New("genai: quota exceeded, retry in a few minutes")
	ErrEmptyResponse = errors.New("genai: response has no text")
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Client generates text with a Gemini model.
type Client struct {
	cfg    contract.GenAIConfig
	client *fasthttp.Client
}

var _ contract.TextGenerator = (*Client)(nil)

// New returns a Client for cfg. It fails when no API key is configured.
func New(cfg contract.GenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = contract.DefaultGenAIModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = contract.DefaultGenAIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = contract.DefaultGenAITimeout
	}
	return &Client{
		cfg: cfg,
		client: &fasthttp.Client{
			Name:         "contractrisk",
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
		},
	}, nil
}

// URL returns the generateContent address of the configured model.
func (c *Client) URL() string {
	return fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Model)
}

// Generate sends prompt as a single user turn and returns the concatenated text of the first candidate.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("genai: encode request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.URL())
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)
	req.SetBody(body)

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = start.Add(c.cfg.Timeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return "", fmt.Errorf("genai: request failed: %w", err)
	}

	contract.Logger.Debug().
		Str("model", c.cfg.Model).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("genai request done")

	return decodeResponse(resp.StatusCode(), resp.Body())
}

// decodeResponse extracts the generated text or maps the API error.
func decodeResponse(status int, body []byte) (string, error) {
	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		if status != fasthttp.StatusOK {
			return "", statusError(status, "")
		}
		return "", fmt.Errorf("genai: decode response: %w", err)
	}

	if status != fasthttp.StatusOK || out.Error != nil {
		msg := ""
		if out.Error != nil {
			msg = out.Error.Message
			if status == fasthttp.StatusOK {
				status = out.Error.Code
			}
		}
		return "", statusError(status, msg)
	}

	if len(out.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func statusError(status int, msg string) error {
	switch {
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg)
	case status == fasthttp.StatusBadRequest && strings.Contains(msg, "API key"):
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, msg)
	case status == fasthttp.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrQuota, msg)
	case msg != "":
		return fmt.Errorf("genai: status %d: %s", status, msg)
	default:
		return fmt.Errorf("genai: status %d", status)
	}
}
