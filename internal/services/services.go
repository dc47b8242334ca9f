// package services defines the [Client] interface for the Hack or Snooze API
package services

import (
	"context"

	"github.com/desertthunder/hnx/internal/models"
)

// Client is the API surface the session and favorites engine depend on.
type Client interface {
	// Login exchanges a username and password for a logged-in [models.User] carrying its token.
	Login(ctx context.Context, username, password string) (*models.User, error)

	// Signup creates an account and returns it logged in.
	Signup(ctx context.Context, username, password, name string) (*models.User, error)

	// LoginViaStoredCredentials fetches the user for a remembered token.
	LoginViaStoredCredentials(ctx context.Context, token, username string) (*models.User, error)

	// GetStories returns the front-page stories, newest first.
	GetStories(ctx context.Context) ([]models.Story, error)

	// AddStory submits a story on behalf of user.
	AddStory(ctx context.Context, user *models.User, story models.NewStory) (*models.Story, error)

	// AddFavorite marks storyID as a favorite of user on the server.
	AddFavorite(ctx context.Context, user *models.User, storyID string) error

	// RemoveFavorite unmarks storyID as a favorite of user on the server.
	RemoveFavorite(ctx context.Context, user *models.User, storyID string) error
}
