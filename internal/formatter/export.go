package formatter

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/hnx/internal/models"
)

// Format is an output format for story listings.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, markdown or html)", s)
	}
}

// Export renders stories in the given format.
func Export(format Format, title string, stories []models.Story, user *models.User) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		return ExportToMarkdown(title, stories, user)
	case FormatHTML:
		return ExportToHTML(stories, user)
	default:
		return ExportToText(title, stories, user)
	}
}

func starPrefix(user *models.User, id string) string {
	if g := StarFor(user, id).Glyph(); g != "" {
		return g + " "
	}
	return ""
}

// ExportToText renders a numbered plain text list
func ExportToText(title string, stories []models.Story, user *models.User) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s (%d)\n\n", title, len(stories))
	if len(stories) == 0 {
		buf.WriteString("No stories.\n")
		return buf.Bytes(), nil
	}

	for i, s := range stories {
		fmt.Fprintf(&buf, "%d. %s%s (%s)\n", i+1, starPrefix(user, s.ID), s.Title, s.HostName())
		fmt.Fprintf(&buf, "   by %s | posted by %s | id %s\n", s.Author, s.Username, s.ID)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a Markdown list with linked titles
func ExportToMarkdown(title string, stories []models.Story, user *models.User) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Stories**: %d\n\n", len(stories))

	for i, s := range stories {
		fmt.Fprintf(&buf, "%d. %s[%s](%s) (%s) by %s, posted by %s\n",
			i+1, starPrefix(user, s.ID), s.Title, s.URL, s.HostName(), s.Author, s.Username)
	}

	return buf.Bytes(), nil
}

// ExportToHTML renders the list item markup used by the web page
func ExportToHTML(stories []models.Story, user *models.User) ([]byte, error) {
	view := NewStoryListView()
	if err := view.Render(stories, user); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(string(view.HTML()))
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// ProfileText renders the user profile block shown by `auth status`
func ProfileText(user *models.User) []byte {
	var buf bytes.Buffer
	if user == nil {
		buf.WriteString("Not logged in.\n")
		return buf.Bytes()
	}

	fmt.Fprintf(&buf, "Name: %s\n", user.Name)
	fmt.Fprintf(&buf, "Username: %s\n", user.Username)
	if !user.CreatedAt.IsZero() {
		fmt.Fprintf(&buf, "Account Created: %s\n", user.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&buf, "Favorites: %d\n", len(user.Favorites))
	fmt.Fprintf(&buf, "Stories: %d\n", len(user.OwnStories))
	return buf.Bytes()
}
