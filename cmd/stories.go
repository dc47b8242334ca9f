package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/hnx/internal/formatter"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// StoriesList prints the front page, or the user's favorites with --favorites.
//
// Stars are shown when a remembered login can be restored. --offline reads the cached list
// and skips the API entirely, so it never shows stars.
func (r *Runner) StoriesList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	s, err := r.openSession()
	if err != nil {
		return err
	}

	offline := cmd.Bool("offline")
	favorites := cmd.Bool("favorites")

	if !offline {
		if _, err := s.Restore(ctx); err != nil {
			r.logger.Warn("could not restore login", "error", err)
		}
	}

	var (
		stories []models.Story
		title   = "All Stories"
	)
	switch {
	case favorites:
		user := s.User()
		if user == nil {
			return fmt.Errorf("%w: favorites need a login", shared.ErrNotAuthenticated)
		}
		stories, title = user.Favorites, "Favorites"
	case offline:
		if stories, err = s.LoadCachedStories(ctx); err != nil {
			return err
		}
	default:
		if stories, err = s.LoadStories(ctx); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(stories, true)
	}

	data, err := formatter.Export(format, title, stories, s.User())
	if err != nil {
		return err
	}
	return r.writeBytes(data)
}

// StoriesSubmit posts a story as the remembered user.
func (r *Runner) StoriesSubmit(ctx context.Context, cmd *cli.Command) error {
	s, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	story, err := s.SubmitStory(ctx, models.NewStory{
		Title:  cmd.String("title"),
		Author: cmd.String("author"),
		URL:    cmd.String("url"),
	})
	if err != nil {
		return err
	}

	r.logger.Info("story submitted", "id", story.ID)
	r.writePlain("✓ Submitted: %s (%s)\n", story.Title, story.HostName())
	r.writePlain("  id: %s\n", story.ID)
	return nil
}

// StoriesFavorite toggles the favorite state of the story with the given id.
func (r *Runner) StoriesFavorite(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: story id", shared.ErrMissingArgument)
	}

	s, err := r.requireUser(ctx)
	if err != nil {
		return err
	}

	if _, ok := s.FindStory(id); !ok {
		if _, err := s.LoadStories(ctx); err != nil {
			return err
		}
	}

	progress := make(chan tasks.ToggleUpdate, 4)
	result, err := r.newEngine(s).Toggle(ctx, id, progress)
	close(progress)

	for update := range progress {
		r.logger.Debug("toggle", "story", update.StoryID, "commit", update.Commit, "state", update.State)
	}

	if err != nil {
		return err
	}

	glyph := formatter.StarFor(s.User(), id).Glyph()
	if result.After == tasks.Favorite {
		r.writePlain("%s Favorited: %s\n", glyph, result.Story.Title)
	} else {
		r.writePlain("%s Unfavorited: %s\n", glyph, result.Story.Title)
	}
	r.writePlain("  favorites: %d\n", len(result.Favorites))
	return nil
}
