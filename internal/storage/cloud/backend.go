// Package cloud implements the storage service over the Polyglottos REST
// API. Every request runs under a timeout; session state is kept in a
// local file because the remote API has no session endpoint.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polyglottos/dataport/internal/entities"
	"github.com/polyglottos/dataport/internal/storage"
)

// Backend is the remote storage service.
type Backend struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	sessions   *sessionFile
}

// New creates a cloud backend from the storage configuration.
func New(cfg storage.Config) *Backend {
	baseURL := cfg.APIBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:3000/api"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = storage.DefaultTimeout
	}
	return &Backend{
		baseURL: baseURL,
		token:   cfg.APIToken,
		timeout: timeout,
		// The per-request timeout is enforced through context
		// cancellation so a slow request is aborted, not drained.
		httpClient: &http.Client{},
		sessions:   newSessionFile(cfg.SessionPath),
	}
}

// do issues one JSON request and decodes the body into out (when non-nil).
// On reads a 404 reports found=false without an error so gets can treat
// "not found" uniformly; on writes a 404 is a failure like any other
// client error.
func (b *Backend) do(ctx context.Context, method, path string, body, out any) (found bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return false, storage.NewError(storage.CodeAPIError, "failed to encode request body", false, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reqBody)
	if err != nil {
		return false, storage.NewError(storage.CodeAPIError, "failed to create request", false, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Token "+b.token)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return false, storage.NewError(storage.CodeTimeoutError, "request timed out", true, err)
		}
		return false, storage.NewError(storage.CodeNetworkError, "network request failed", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && (method == http.MethodGet || method == http.MethodHead) {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, storage.NewError(
			storage.CodeAPIError,
			fmt.Sprintf("API request failed with status %d", resp.StatusCode),
			resp.StatusCode >= 500,
			nil,
		)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, storage.NewError(storage.CodeAPIError, "failed to decode response", true, err)
		}
	}
	return true, nil
}

func (b *Backend) GetUser(ctx context.Context, userID string) (*entities.User, error) {
	var user entities.User
	found, err := b.do(ctx, http.MethodGet, "/users/"+userID, nil, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (b *Backend) SetUser(ctx context.Context, user *entities.User) error {
	_, err := b.do(ctx, http.MethodPut, "/users/"+user.ID, user, nil)
	return err
}

func (b *Backend) DeleteUserData(ctx context.Context, userID string) error {
	_, err := b.do(ctx, http.MethodDelete, "/users/"+userID, nil, nil)
	return err
}

func (b *Backend) GetProgress(ctx context.Context, userID string) (*entities.Progress, error) {
	var progress entities.Progress
	found, err := b.do(ctx, http.MethodGet, "/progress/"+userID, nil, &progress)
	if err != nil || !found {
		return nil, err
	}
	return &progress, nil
}

func (b *Backend) SetProgress(ctx context.Context, progress *entities.Progress) error {
	_, err := b.do(ctx, http.MethodPut, "/progress/"+progress.UserID, progress, nil)
	return err
}

func (b *Backend) UpdateProgress(ctx context.Context, userID string, patch entities.ProgressPatch) error {
	existing, err := b.GetProgress(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		existing = entities.NewProgress(userID)
	}
	patch.Apply(existing)
	return b.SetProgress(ctx, existing)
}

func (b *Backend) GetSettings(ctx context.Context, userID string) (*entities.Settings, error) {
	var settings entities.Settings
	found, err := b.do(ctx, http.MethodGet, "/settings/"+userID, nil, &settings)
	if err != nil || !found {
		return nil, err
	}
	return &settings, nil
}

func (b *Backend) SetSettings(ctx context.Context, settings *entities.Settings) error {
	_, err := b.do(ctx, http.MethodPut, "/settings/"+settings.UserID, settings, nil)
	return err
}

func (b *Backend) UpdateSettings(ctx context.Context, userID string, updates *entities.Settings) error {
	existing, err := b.GetSettings(ctx, userID)
	if err != nil {
		return err
	}
	var merged entities.Settings
	if existing != nil {
		merged = existing.Merge(*updates)
	} else {
		merged = *updates
	}
	merged.UserID = userID
	return b.SetSettings(ctx, &merged)
}

func (b *Backend) GetSession(ctx context.Context) (entities.Session, error) {
	return b.sessions.load()
}

func (b *Backend) SetSession(ctx context.Context, session entities.Session) error {
	return b.sessions.store(session)
}

func (b *Backend) ClearSession(ctx context.Context) error {
	return b.sessions.clear()
}

// IsAvailable probes the health endpoint and swallows every failure.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	found, err := b.do(ctx, http.MethodHead, "/health", nil, nil)
	return err == nil && found
}

// Clear is not supported by the remote API.
func (b *Backend) Clear(ctx context.Context) error {
	return storage.NewError(storage.CodeUnsupportedOp, "clear operation not supported for cloud storage", false, nil)
}

var _ storage.Service = (*Backend)(nil)
