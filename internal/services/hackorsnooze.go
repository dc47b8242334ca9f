// Hack or Snooze API implementation of [Client]
//
// Response shapes follow https://hackorsnoozeapi.com/docs
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "https://hack-or-snooze-v3.herokuapp.com"

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Title      string
	Message    string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (status %d): %s", e.kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: status %d", e.kind, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Title   string `json:"title"`
		Message string `json:"message"`
	} `json:"error"`
}

type storyBody struct {
	ID        string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s storyBody) toModel() models.Story {
	return models.Story(s)
}

type userBody struct {
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	CreatedAt time.Time   `json:"createdAt"`
	Favorites []storyBody `json:"favorites"`
	Stories   []storyBody `json:"stories"`
}

func (u userBody) toModel(token string) *models.User {
	user := &models.User{
		Username:   u.Username,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt,
		LoginToken: token,
		Favorites:  make([]models.Story, 0, len(u.Favorites)),
		OwnStories: make([]models.Story, 0, len(u.Stories)),
	}
	for _, s := range u.Favorites {
		user.AddFavorite(s.toModel())
	}
	for _, s := range u.Stories {
		user.OwnStories = append(user.OwnStories, s.toModel())
	}
	return user
}

type authResponse struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

// HackOrSnoozeService implements [Client] over HTTP.
type HackOrSnoozeService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHackOrSnoozeService creates a client for baseURL.
//
// A nil client uses [http.DefaultClient]; rps <= 0 disables rate limiting.
func NewHackOrSnoozeService(baseURL string, client *http.Client, rps float64) *HackOrSnoozeService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	svc := &HackOrSnoozeService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
	if rps > 0 {
		svc.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return svc
}

// NewHTTPClient returns an [http.Client] with the configured timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// doRequest sends body as JSON (when non-nil) and decodes a 2xx response into result (when non-nil).
//
// notFound is the sentinel a 404 unwraps to.
func (s *HackOrSnoozeService) doRequest(ctx context.Context, method, endpoint string, body, result any, notFound error) error {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, kind: shared.ErrAPIRequest}
		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			apiErr.kind = shared.ErrAuthFailed
		case resp.StatusCode == http.StatusNotFound && notFound != nil:
			apiErr.kind = notFound
		}

		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			apiErr.Title = eb.Error.Title
			apiErr.Message = eb.Error.Message
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func credentials(user *models.User) (string, string, error) {
	if user == nil || user.LoginToken == "" || user.Username == "" {
		return "", "", fmt.Errorf("%w: missing login token", shared.ErrNotAuthenticated)
	}
	return user.Username, user.LoginToken, nil
}

// Login calls POST /login.
func (s *HackOrSnoozeService) Login(ctx context.Context, username, password string) (*models.User, error) {
	body := map[string]any{"user": map[string]string{"username": username, "password": password}}

	var resp authResponse
	if err := s.doRequest(ctx, http.MethodPost, "/login", body, &resp, shared.ErrAuthFailed); err != nil {
		return nil, err
	}
	return resp.User.toModel(resp.Token), nil
}

// Signup calls POST /signup.
func (s *HackOrSnoozeService) Signup(ctx context.Context, username, password, name string) (*models.User, error) {
	body := map[string]any{"user": map[string]string{"username": username, "password": password, "name": name}}

	var resp authResponse
	if err := s.doRequest(ctx, http.MethodPost, "/signup", body, &resp, nil); err != nil {
		return nil, err
	}
	return resp.User.toModel(resp.Token), nil
}

// LoginViaStoredCredentials calls GET /users/{username}?token=...
func (s *HackOrSnoozeService) LoginViaStoredCredentials(ctx context.Context, token, username string) (*models.User, error) {
	endpoint := fmt.Sprintf("/users/%s?token=%s", url.PathEscape(username), url.QueryEscape(token))

	var resp struct {
		User userBody `json:"user"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &resp, shared.ErrAuthFailed); err != nil {
		return nil, err
	}
	return resp.User.toModel(token), nil
}

// GetStories calls GET /stories.
func (s *HackOrSnoozeService) GetStories(ctx context.Context) ([]models.Story, error) {
	var resp struct {
		Stories []storyBody `json:"stories"`
	}
	if err := s.doRequest(ctx, http.MethodGet, "/stories", nil, &resp, nil); err != nil {
		return nil, err
	}

	stories := make([]models.Story, len(resp.Stories))
	for i, sb := range resp.Stories {
		stories[i] = sb.toModel()
	}
	return stories, nil
}

// AddStory calls POST /stories.
func (s *HackOrSnoozeService) AddStory(ctx context.Context, user *models.User, story models.NewStory) (*models.Story, error) {
	_, token, err := credentials(user)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"token": token, "story": story}

	var resp struct {
		Story storyBody `json:"story"`
	}
	if err := s.doRequest(ctx, http.MethodPost, "/stories", body, &resp, nil); err != nil {
		return nil, err
	}

	created := resp.Story.toModel()
	return &created, nil
}

// AddFavorite calls POST /users/{username}/favorites/{storyId}.
func (s *HackOrSnoozeService) AddFavorite(ctx context.Context, user *models.User, storyID string) error {
	return s.favorite(ctx, http.MethodPost, user, storyID)
}

// RemoveFavorite calls DELETE /users/{username}/favorites/{storyId}.
func (s *HackOrSnoozeService) RemoveFavorite(ctx context.Context, user *models.User, storyID string) error {
	return s.favorite(ctx, http.MethodDelete, user, storyID)
}

func (s *HackOrSnoozeService) favorite(ctx context.Context, method string, user *models.User, storyID string) error {
	username, token, err := credentials(user)
	if err != nil {
		return err
	}
	if storyID == "" {
		return fmt.Errorf("%w: empty story id", shared.ErrInvalidInput)
	}

	endpoint := fmt.Sprintf("/users/%s/favorites/%s", url.PathEscape(username), url.PathEscape(storyID))
	return s.doRequest(ctx, method, endpoint, map[string]string{"token": token}, nil, shared.ErrStoryNotFound)
}

// IsAuthError reports whether err came from rejected credentials.
func IsAuthError(err error) bool {
	return errors.Is(err, shared.ErrAuthFailed)
}
