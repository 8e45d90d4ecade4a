// Package client talks to the forgeplan HTTP API. It keeps the session
// cookie between calls and retries transport failures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/session"
	"github.com/claude/forgeplan/internal/validation"
)

const maxAttempts = 3

// Client calls the forgeplan API on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	backoff    func(attempt int) time.Duration
	log        *slog.Logger
}

// New creates a client for the server at baseURL.
func New(baseURL string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		backoff: func(attempt int) time.Duration {
			return time.Duration(1<<uint(attempt-1)) * time.Second
		},
		log: log,
	}
}

// SetBackoff replaces the delay used before retry attempt n (n ≥ 1).
func (c *Client) SetBackoff(f func(attempt int) time.Duration) {
	c.backoff = f
}

// do sends a request and decodes the response envelope. Transport errors
// and gateway statuses are retried; after the last attempt they become a
// NETWORK_ERROR. API failures come back as *apierr.Error.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("client: encoding %s body: %w", path, err)
		}
	}

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apierr.Wrap(apierr.NetworkError, "request cancelled", ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		env, status, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			c.log.Debug("request failed", "path", path, "attempt", attempt+1, "error", err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if !env.Success {
			apiErr := env.Error
			if apiErr == nil {
				apiErr = apierr.New(apierr.GenerationError, http.StatusText(status))
			}
			apiErr.Status = status
			if out != nil && len(env.Data) > 0 {
				_ = json.Unmarshal(env.Data, out)
			}
			return apiErr
		}
		if out != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return fmt.Errorf("client: decoding %s: %w", path, err)
			}
		}
		return nil
	}
	return apierr.Wrap(apierr.NetworkError, fmt.Sprintf("%s %s failed after %d attempts", method, path, maxAttempts), lastErr)
}

var errGateway = errors.New("gateway error")

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (apierr.Envelope, int, error) {
	var env apierr.Envelope
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return env, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return env, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, 0, fmt.Errorf("read body: %w", err)
	}
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return env, resp.StatusCode, fmt.Errorf("%w: status %d", errGateway, resp.StatusCode)
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, resp.StatusCode, fmt.Errorf("decode envelope (status %d): %w", resp.StatusCode, err)
	}
	return env, resp.StatusCode, nil
}

// ValidateStep asks the server to validate one step. An invalid step is
// reported through the result, not as an error.
func (c *Client) ValidateStep(ctx context.Context, step int, data map[string]any) (validation.Result, error) {
	var res validation.Result
	err := c.do(ctx, http.MethodPost, "/api/v1/steps/validate", models.StepRequest{Step: step, Data: data}, &res)
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) && apiErr.Code == apierr.ValidationFailed {
		return validation.Result{Valid: false, Errors: apiErr.Fields}, nil
	}
	if err != nil {
		return validation.Result{}, err
	}
	return res, nil
}

// SaveStep stores one step in the server session.
func (c *Client) SaveStep(ctx context.Context, step int, data map[string]any) error {
	return c.do(ctx, http.MethodPost, "/api/v1/steps", models.StepRequest{Step: step, Data: data}, nil)
}

// ValidateAndSave validates a step and saves it only when valid.
func (c *Client) ValidateAndSave(ctx context.Context, step int, data map[string]any) (validation.Result, error) {
	res, err := c.ValidateStep(ctx, step, data)
	if err != nil || !res.Valid {
		return res, err
	}
	if err := c.SaveStep(ctx, step, data); err != nil {
		return validation.Result{}, err
	}
	return res, nil
}

// Session returns the server-side session.
func (c *Client) Session(ctx context.Context) (*models.SessionView, error) {
	var view models.SessionView
	if err := c.do(ctx, http.MethodGet, "/api/v1/session", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Generate builds a plan from the steps saved in the session.
func (c *Client) Generate(ctx context.Context) (*models.GenerateResponse, error) {
	var out models.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/workouts/generate", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateOnce posts a single-form body to the one-shot endpoint and
// returns the generated plan. The session's saved steps are not used.
func (c *Client) GenerateOnce(ctx context.Context, form map[string]any) (*models.GenerateResponse, error) {
	var out models.GenerateResponse
	if err := c.do(ctx, http.MethodPost, "/generate", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Workout returns the last plan generated in this session.
func (c *Client) Workout(ctx context.Context) (*models.GenerateResponse, error) {
	var out models.GenerateResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/workout", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearSession discards the server session.
func (c *Client) ClearSession(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/session/clear", nil, nil)
}

// Exercises lists catalog exercises usable with equipment. An empty
// equipment list returns the whole catalog.
func (c *Client) Exercises(ctx context.Context, equipment []models.Equipment) ([]models.Exercise, error) {
	path := "/api/v1/exercises"
	if len(equipment) > 0 {
		names := make([]string, len(equipment))
		for i, e := range equipment {
			names[i] = string(e)
		}
		path += "?" + url.Values{"equipment": {strings.Join(names, ",")}}.Encode()
	}
	var out []models.Exercise
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Generations returns the session's generation history, newest first.
func (c *Client) Generations(ctx context.Context) ([]session.GenerationLog, error) {
	var out []session.GenerationLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/generations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
