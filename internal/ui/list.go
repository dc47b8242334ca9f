package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hnx/internal/formatter"
	"github.com/desertthunder/hnx/internal/models"
)

var _ list.Item = storyItem{}

// storyItem wraps [models.Story] with its star to implement [list.Item].
type storyItem struct {
	story models.Story
	star  formatter.Star
}

func (i storyItem) FilterValue() string { return i.story.Title }
func (i storyItem) Title() string {
	if g := i.star.Glyph(); g != "" {
		return fmt.Sprintf("%s %s", g, i.story.Title)
	}
	return i.story.Title
}
func (i storyItem) Description() string {
	return fmt.Sprintf("(%s) • by %s • posted by %s", i.story.HostName(), i.story.Author, i.story.Username)
}

// storyItems renders stories for user, one item per story in order.
func storyItems(stories []models.Story, user *models.User) []list.Item {
	items := make([]list.Item, len(stories))
	for i, s := range stories {
		items[i] = storyItem{story: s, star: formatter.StarFor(user, s.ID)}
	}
	return items
}

func newStoryList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.SetStatusBarItemName("story", "stories")
	return l
}
