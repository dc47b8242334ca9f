// package session holds the logged-in user and the current story list for one client process.
package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/shared"
	"golang.org/x/sync/errgroup"
)

// Durable storage keys for the remembered login.
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// Storage is durable string key/value storage, implemented by repositories.StorageRepository.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// StoryCache persists fetched stories for offline listing.
type StoryCache interface {
	ReplaceAll(ctx context.Context, stories []models.Story) error
	Save(ctx context.Context, story models.Story) error
	List(ctx context.Context, limit int) ([]models.Story, error)
}

// Session is the single owner of the current user and story list.
//
// All methods are safe for concurrent use. Listeners run after the session lock is released.
type Session struct {
	mu      sync.RWMutex
	client  services.Client
	storage Storage
	cache   StoryCache
	logger  *log.Logger

	user    *models.User
	stories *models.StoryList

	onLogin   []func(*models.User)
	onReset   []func()
	onStories []func()
}

// Option configures a [Session].
type Option func(*Session)

// WithCache enables the story cache.
func WithCache(cache StoryCache) Option {
	return func(s *Session) { s.cache = cache }
}

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// New creates a logged-out session with an empty story list.
func New(client services.Client, storage Storage, opts ...Option) *Session {
	s := &Session{
		client:  client,
		storage: storage,
		logger:  log.New(io.Discard),
		stories: models.NewStoryList(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnLogin registers fn to run with a snapshot of the user after every login, signup or restore.
func (s *Session) OnLogin(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogin = append(s.onLogin, fn)
}

// OnReset registers fn to run after every logout.
func (s *Session) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReset = append(s.onReset, fn)
}

// OnStories registers fn to run after the story list is replaced by a load.
func (s *Session) OnStories(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStories = append(s.onStories, fn)
}

// Login authenticates with the API and remembers the returned token.
func (s *Session) Login(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", shared.ErrMissingArgument)
	}

	user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	s.logger.Info("logged in", "username", user.Username)
	return s.establish(ctx, user)
}

// Signup creates an account and logs into it.
func (s *Session) Signup(ctx context.Context, username, password, name string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name, username and password are required", shared.ErrMissingArgument)
	}

	user, err := s.client.Signup(ctx, username, password, name)
	if err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}

	s.logger.Info("signed up", "username", user.Username)
	return s.establish(ctx, user)
}

// Restore logs in with the remembered token and username.
//
// It returns false without calling the API when either key is missing. A rejected token
// leaves the session logged out and returns an error wrapping [shared.ErrNotAuthenticated].
func (s *Session) Restore(ctx context.Context) (bool, error) {
	token, okToken, err := s.storage.GetItem(ctx, TokenKey)
	if err != nil {
		return false, fmt.Errorf("failed to read stored token: %w", err)
	}
	username, okUser, err := s.storage.GetItem(ctx, UsernameKey)
	if err != nil {
		return false, fmt.Errorf("failed to read stored username: %w", err)
	}
	if !okToken || !okUser || token == "" || username == "" {
		return false, nil
	}

	user, err := s.client.LoginViaStoredCredentials(ctx, token, username)
	if err != nil {
		return false, fmt.Errorf("%w: stored credentials rejected: %v", shared.ErrNotAuthenticated, err)
	}

	s.logger.Debug("restored session", "username", user.Username)
	s.mu.Lock()
	s.user = user
	listeners := append([]func(*models.User){}, s.onLogin...)
	s.mu.Unlock()

	s.notifyLogin(listeners, user)
	return true, nil
}

// establish stores user as current, persists its credentials and runs login listeners.
func (s *Session) establish(ctx context.Context, user *models.User) (*models.User, error) {
	if err := s.storage.SetItem(ctx, TokenKey, user.LoginToken); err != nil {
		return nil, fmt.Errorf("failed to remember login: %w", err)
	}
	if err := s.storage.SetItem(ctx, UsernameKey, user.Username); err != nil {
		return nil, fmt.Errorf("failed to remember login: %w", err)
	}

	s.mu.Lock()
	s.user = user
	listeners := append([]func(*models.User){}, s.onLogin...)
	s.mu.Unlock()

	s.notifyLogin(listeners, user)
	return user.Clone(), nil
}

func (s *Session) notifyLogin(listeners []func(*models.User), user *models.User) {
	for _, fn := range listeners {
		fn(user.Clone())
	}
}

// Logout clears durable storage and returns the session to its initial state.
//
// In-memory state is reset even when clearing storage fails.
func (s *Session) Logout(ctx context.Context) error {
	clearErr := s.storage.Clear(ctx)

	s.mu.Lock()
	if s.user != nil {
		s.logger.Info("logged out", "username", s.user.Username)
	}
	s.user = nil
	s.stories = models.NewStoryList(nil)
	listeners := append([]func(){}, s.onReset...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	if clearErr != nil {
		return fmt.Errorf("failed to clear storage: %w", clearErr)
	}
	return nil
}

// LoadStories replaces the story list with the API's current front page.
func (s *Session) LoadStories(ctx context.Context) ([]models.Story, error) {
	stories, err := s.client.GetStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stories: %w", err)
	}

	s.replaceStories(stories)

	if s.cache != nil {
		if err := s.cache.ReplaceAll(ctx, stories); err != nil {
			s.logger.Warn("failed to cache stories", "error", err)
		}
	}

	s.logger.Debug("loaded stories", "count", len(stories))
	return append([]models.Story(nil), stories...), nil
}

// LoadCachedStories replaces the story list with the last cached one.
func (s *Session) LoadCachedStories(ctx context.Context) ([]models.Story, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("%w: story cache is not configured", shared.ErrServiceUnavailable)
	}

	stories, err := s.cache.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached stories: %w", err)
	}

	s.replaceStories(stories)
	return stories, nil
}

func (s *Session) replaceStories(stories []models.Story) {
	s.mu.Lock()
	s.stories = models.NewStoryList(stories)
	listeners := append([]func(){}, s.onStories...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Bootstrap restores the remembered login and loads stories concurrently.
//
// A failed restore is logged and leaves the session logged out; only a failed story load is returned.
func (s *Session) Bootstrap(ctx context.Context) (bool, error) {
	var restored bool
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ok, err := s.Restore(gctx)
		if err != nil {
			s.logger.Warn("could not restore session", "error", err)
			return nil
		}
		restored = ok
		return nil
	})
	g.Go(func() error {
		_, err := s.LoadStories(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return restored, err
	}
	return restored, nil
}

// SubmitStory posts story as the current user and prepends it to the story list.
func (s *Session) SubmitStory(ctx context.Context, story models.NewStory) (*models.Story, error) {
	user := s.User()
	if user == nil {
		return nil, fmt.Errorf("%w: log in to submit a story", shared.ErrNotAuthenticated)
	}

	story.Title = strings.TrimSpace(story.Title)
	story.Author = strings.TrimSpace(story.Author)
	story.URL = strings.TrimSpace(story.URL)
	if story.Title == "" || story.Author == "" || story.URL == "" {
		return nil, fmt.Errorf("%w: title, author and url are required", shared.ErrInvalidInput)
	}

	created, err := s.client.AddStory(ctx, user, story)
	if err != nil {
		return nil, fmt.Errorf("failed to submit story: %w", err)
	}

	s.mu.Lock()
	s.stories.Prepend(*created)
	if s.user != nil && s.user.Username == user.Username {
		s.user.OwnStories = append(s.user.OwnStories, *created)
	}
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Save(ctx, *created); err != nil {
			s.logger.Warn("failed to cache story", "id", created.ID, "error", err)
		}
	}

	s.logger.Info("submitted story", "id", created.ID, "title", created.Title)
	return created, nil
}

// FindStory looks up id in the story list, then in the user's favorites and own stories.
func (s *Session) FindStory(id string) (models.Story, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if story, ok := s.stories.Find(id); ok {
		return story, true
	}
	if s.user == nil {
		return models.Story{}, false
	}
	if idx := s.user.FavoriteIndex(id); idx >= 0 {
		return s.user.Favorites[idx], true
	}
	for _, story := range s.user.OwnStories {
		if story.ID == id {
			return story, true
		}
	}
	return models.Story{}, false
}

// User returns a snapshot of the current user, or nil when logged out.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// LoggedIn reports whether a user is set.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Stories returns a copy of the current story list.
func (s *Session) Stories() []models.Story {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Story(nil), s.stories.Stories...)
}

// UpdateUser runs fn against the current user under the session lock.
//
// It returns [shared.ErrNotAuthenticated] when logged out; fn's error is returned as is.
func (s *Session) UpdateUser(fn func(u *models.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return fmt.Errorf("%w: no user is logged in", shared.ErrNotAuthenticated)
	}
	return fn(s.user)
}
