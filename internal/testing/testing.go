// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/hnx/internal/models"
)

// MockClient is a test double for [services.Client] that records favorite calls.
type MockClient struct {
	mu sync.Mutex

	Users   map[string]*models.User // keyed by username; login returns a copy
	Stories []models.Story

	LoginErr       error
	SignupErr      error
	RestoreErr     error
	StoriesErr     error
	AddStoryErr    error
	AddFavErr      error
	RemoveFavErr   error
	LoginCalls     int
	RestoreCalls   int
	AddFavCalls    []string
	RemoveFavCalls []string
	Submitted      []models.NewStory
}

// NewMockClient returns a MockClient with one known user "ada" (token "tok-ada").
func NewMockClient(stories ...models.Story) *MockClient {
	return &MockClient{
		Users: map[string]*models.User{
			"ada": {Username: "ada", Name: "Ada Lovelace", LoginToken: "tok-ada"},
		},
		Stories: stories,
	}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Favorites = append([]models.Story(nil), u.Favorites...)
	cp.OwnStories = append([]models.Story(nil), u.OwnStories...)
	return &cp
}

func (m *MockClient) Login(ctx context.Context, username, password string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginCalls++
	if m.LoginErr != nil {
		return nil, m.LoginErr
	}
	u, ok := m.Users[username]
	if !ok {
		return nil, errors.New("unknown user")
	}
	return copyUser(u), nil
}

func (m *MockClient) Signup(ctx context.Context, username, password, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SignupErr != nil {
		return nil, m.SignupErr
	}
	u := &models.User{Username: username, Name: name, LoginToken: "tok-" + username}
	m.Users[username] = u
	return copyUser(u), nil
}

func (m *MockClient) LoginViaStoredCredentials(ctx context.Context, token, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RestoreCalls++
	if m.RestoreErr != nil {
		return nil, m.RestoreErr
	}
	u, ok := m.Users[username]
	if !ok || u.LoginToken != token {
		return nil, errors.New("invalid token")
	}
	return copyUser(u), nil
}

func (m *MockClient) GetStories(ctx context.Context) ([]models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StoriesErr != nil {
		return nil, m.StoriesErr
	}
	return append([]models.Story(nil), m.Stories...), nil
}

func (m *MockClient) AddStory(ctx context.Context, user *models.User, story models.NewStory) (*models.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AddStoryErr != nil {
		return nil, m.AddStoryErr
	}
	m.Submitted = append(m.Submitted, story)
	created := models.Story{
		ID:        fmt.Sprintf("new-%d", len(m.Submitted)),
		Title:     story.Title,
		Author:    story.Author,
		URL:       story.URL,
		Username:  user.Username,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	m.Stories = append([]models.Story{created}, m.Stories...)
	return &created, nil
}

func (m *MockClient) AddFavorite(ctx context.Context, user *models.User, storyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddFavCalls = append(m.AddFavCalls, storyID)
	return m.AddFavErr
}

func (m *MockClient) RemoveFavorite(ctx context.Context, user *models.User, storyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemoveFavCalls = append(m.RemoveFavCalls, storyID)
	return m.RemoveFavErr
}

// MemoryStorage is an in-memory key/value store standing in for the SQLite storage table.
type MemoryStorage struct {
	mu         sync.Mutex
	Items      map[string]string
	ClearCalls int
	SetErr     error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Items: map[string]string{}}
}

func (s *MemoryStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Items[key]
	return v, ok, nil
}

func (s *MemoryStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SetErr != nil {
		return s.SetErr
	}
	s.Items[key] = value
	return nil
}

func (s *MemoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ClearCalls++
	s.Items = map[string]string{}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// SampleStories returns three stories with fixed ids s1..s3.
func SampleStories() []models.Story {
	created := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	return []models.Story{
		{ID: "s1", Title: "Go 1.22 released", Author: "Go Team", URL: "https://go.dev/blog/go1.22", Username: "ada", CreatedAt: created},
		{ID: "s2", Title: "Bubble Tea", Author: "Charm", URL: "https://github.com/charmbracelet/bubbletea", Username: "grace", CreatedAt: created.Add(-time.Hour)},
		{ID: "s3", Title: "SQLite is not a toy", Author: "R. Hipp", URL: "http://www.sqlite.org/about.html", Username: "linus", CreatedAt: created.Add(-2 * time.Hour)},
	}
}

// MustChdir changes into dir and restores the previous directory when the test ends.
func MustChdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
