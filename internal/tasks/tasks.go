// package tasks implements favorites synchronization against the Hack or Snooze API.
package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
)

// ToggleResult describes a finished toggle.
type ToggleResult struct {
	Story     models.Story   // Story that was toggled
	Before    FavoriteState  // State before the toggle
	After     FavoriteState  // State after the toggle; equals Before when rolled back
	Commit    Commit         // Confirmed or RolledBack
	Favorites []models.Story // Favorites after the toggle, for re-rendering
}

// Synchronizer defines favorite operations used by front ends.
type Synchronizer interface {
	// Toggle flips storyID between favorite and not favorite, reporting progress on the optional channel.
	Toggle(ctx context.Context, storyID string, progress chan<- ToggleUpdate) (*ToggleResult, error)
}

// FavoritesEngine implements [Synchronizer] over a [session.Session] and an API client.
type FavoritesEngine struct {
	mu      sync.Mutex
	session *session.Session
	client  services.Client
	logger  *log.Logger
}

// NewFavoritesEngine creates a new FavoritesEngine. A nil logger discards output.
func NewFavoritesEngine(s *session.Session, client services.Client, logger *log.Logger) *FavoritesEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FavoritesEngine{session: s, client: client, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *FavoritesEngine) sendProgress(progress chan<- ToggleUpdate, update ToggleUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Toggle flips storyID's favorite state.
//
// The local favorites change before the API call. When the call fails they are restored
// to their exact previous order, the result reports [RolledBack] and the error is returned.
func (e *FavoritesEngine) Toggle(ctx context.Context, storyID string, progress chan<- ToggleUpdate) (*ToggleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if storyID == "" {
		return nil, fmt.Errorf("%w: story id is required", shared.ErrMissingArgument)
	}

	story, ok := e.session.FindStory(storyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrStoryNotFound, storyID)
	}

	var (
		before   FavoriteState
		position int
		removed  models.Story
		snapshot *models.User
	)
	err := e.session.UpdateUser(func(u *models.User) error {
		before = stateOf(u.IsFavorite(storyID))
		if before == Favorite {
			removed, position = u.RemoveFavorite(storyID)
		} else {
			u.AddFavorite(story)
		}
		snapshot = u.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	after := before.Flip()
	e.sendProgress(progress, pendingUpdate(story, after))

	if before == Favorite {
		err = e.client.RemoveFavorite(ctx, snapshot, storyID)
	} else {
		err = e.client.AddFavorite(ctx, snapshot, storyID)
	}

	if err != nil {
		e.rollback(before, storyID, position, removed)
		e.logger.Warn("favorite toggle rolled back", "story", storyID, "error", err)
		e.sendProgress(progress, rolledBackUpdate(story, before, err))

		return e.result(story, before, before, RolledBack), fmt.Errorf("failed to update favorite %s: %w", storyID, err)
	}

	e.logger.Info("favorite toggled", "story", storyID, "state", after)
	e.sendProgress(progress, confirmedUpdate(story, after))
	return e.result(story, before, after, Confirmed), nil
}

// rollback undoes the optimistic change. A user who logged out meanwhile has nothing to restore.
func (e *FavoritesEngine) rollback(before FavoriteState, storyID string, position int, removed models.Story) {
	_ = e.session.UpdateUser(func(u *models.User) error {
		if before == Favorite {
			u.InsertFavorite(position, removed)
		} else {
			u.RemoveFavorite(storyID)
		}
		return nil
	})
}

func (e *FavoritesEngine) result(story models.Story, before, after FavoriteState, commit Commit) *ToggleResult {
	res := &ToggleResult{Story: story, Before: before, After: after, Commit: commit}
	if u := e.session.User(); u != nil {
		res.Favorites = u.Favorites
	}
	return res
}
