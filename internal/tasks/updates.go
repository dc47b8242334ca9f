package tasks

import (
	"fmt"

	"github.com/desertthunder/hnx/internal/models"
)

// FavoriteState is the per-story favorite state.
type FavoriteState int

const (
	NotFavorite FavoriteState = iota
	Favorite
)

func (s FavoriteState) String() string {
	switch s {
	case NotFavorite:
		return "not_favorite"
	case Favorite:
		return "favorite"
	default:
		return ""
	}
}

// Flip returns the opposite state.
func (s FavoriteState) Flip() FavoriteState {
	if s == Favorite {
		return NotFavorite
	}
	return Favorite
}

func stateOf(favorite bool) FavoriteState {
	if favorite {
		return Favorite
	}
	return NotFavorite
}

// Commit is the server-confirmation state of a toggle.
type Commit int

const (
	Pending Commit = iota
	Confirmed
	RolledBack
)

func (c Commit) String() string {
	switch c {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return ""
	}
}

// ToggleUpdate is a progress event for one toggle.
type ToggleUpdate struct {
	StoryID string
	State   FavoriteState // State the story is displayed in after this update
	Commit  Commit
	Message string
	Err     error // Set on RolledBack
}

func pendingUpdate(story models.Story, to FavoriteState) ToggleUpdate {
	verb := "Adding"
	if to == NotFavorite {
		verb = "Removing"
	}
	return ToggleUpdate{
		StoryID: story.ID,
		State:   to,
		Commit:  Pending,
		Message: fmt.Sprintf("%s favorite: %s...", verb, story.Title),
	}
}

func confirmedUpdate(story models.Story, to FavoriteState) ToggleUpdate {
	msg := fmt.Sprintf("★ Favorited: %s", story.Title)
	if to == NotFavorite {
		msg = fmt.Sprintf("☆ Unfavorited: %s", story.Title)
	}
	return ToggleUpdate{
		StoryID: story.ID,
		State:   to,
		Commit:  Confirmed,
		Message: msg,
	}
}

func rolledBackUpdate(story models.Story, restored FavoriteState, err error) ToggleUpdate {
	return ToggleUpdate{
		StoryID: story.ID,
		State:   restored,
		Commit:  RolledBack,
		Message: fmt.Sprintf("✗ Could not update %s: %v", story.Title, err),
		Err:     err,
	}
}
