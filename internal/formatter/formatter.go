// package formatter renders stories as page markup, plain text and Markdown
package formatter

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/desertthunder/hnx/internal/models"
)

// Star is the favorite indicator shown next to a story.
type Star int

const (
	StarNone    Star = iota // logged out
	StarOutline             // logged in, not a favorite
	StarFilled              // favorite
)

// StarFor picks the indicator for storyID given the current user (nil when logged out).
func StarFor(user *models.User, storyID string) Star {
	switch {
	case user == nil:
		return StarNone
	case user.IsFavorite(storyID):
		return StarFilled
	default:
		return StarOutline
	}
}

// Class returns the icon class for the star, or "" for [StarNone].
func (s Star) Class() string {
	switch s {
	case StarOutline:
		return "bi bi-star"
	case StarFilled:
		return "bi bi-star-fill"
	default:
		return ""
	}
}

// Glyph returns the text form of the star, or "" for [StarNone].
func (s Star) Glyph() string {
	switch s {
	case StarOutline:
		return "☆"
	case StarFilled:
		return "★"
	default:
		return ""
	}
}

var storyTemplate = template.Must(template.New("story").Parse(`<li id="{{.ID}}">
  <span class="star-icon">{{with .StarClass}}<i class="star-button {{.}}"></i>{{end}}</span>
  <a href="{{.URL}}" target="_blank" rel="noopener" class="story-link">{{.Title}}</a>
  <small class="story-hostname">({{.Host}})</small>
  <small class="story-author">by {{.Author}}</small>
  <small class="story-user">posted by {{.Username}}</small>
</li>`))

type storyData struct {
	models.Story
	Host      string
	StarClass string
}

// StoryMarkup renders one list item for story.
func StoryMarkup(story models.Story, user *models.User) (template.HTML, error) {
	var buf bytes.Buffer
	data := storyData{Story: story, Host: story.HostName(), StarClass: StarFor(user, story.ID).Class()}

	if err := storyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render story %s: %w", story.ID, err)
	}
	return template.HTML(buf.String()), nil
}

// Item is one rendered entry of a [StoryListView].
type Item struct {
	ID   string
	HTML template.HTML
}

// StoryListView is the rendered contents of one list region.
//
// It is safe for concurrent use.
type StoryListView struct {
	mu    sync.RWMutex
	items []Item
}

// NewStoryListView creates an empty view.
func NewStoryListView() *StoryListView {
	return &StoryListView{}
}

// Render replaces the view with one item per story, in order.
func (v *StoryListView) Render(stories []models.Story, user *models.User) error {
	items := make([]Item, 0, len(stories))
	for _, s := range stories {
		markup, err := StoryMarkup(s, user)
		if err != nil {
			return err
		}
		items = append(items, Item{ID: s.ID, HTML: markup})
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// PrependSubmitted inserts story at the head without re-rendering existing items.
func (v *StoryListView) PrependSubmitted(story models.Story, user *models.User) error {
	markup, err := StoryMarkup(story, user)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.items = append([]Item{{ID: story.ID, HTML: markup}}, v.items...)
	v.mu.Unlock()
	return nil
}

// Clear empties the view.
func (v *StoryListView) Clear() {
	v.mu.Lock()
	v.items = nil
	v.mu.Unlock()
}

// Items returns a copy of the rendered items.
func (v *StoryListView) Items() []Item {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]Item(nil), v.items...)
}

// Len returns the number of rendered items.
func (v *StoryListView) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// HTML joins the items into the list body.
func (v *StoryListView) HTML() template.HTML {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var b strings.Builder
	for i, item := range v.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(item.HTML))
	}
	return template.HTML(b.String())
}
