// package models defines the data model for the Hack or Snooze client
package models

import (
	"net/url"
	"strings"
	"time"
)

// Story is a submitted link. Values are treated as immutable once created.
type Story struct {
	ID        string    `json:"storyId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// HostName returns the host part of the story URL.
//
// Unparsable or host-less URLs are returned as given.
func (s Story) HostName() string {
	u, err := url.Parse(strings.TrimSpace(s.URL))
	if err != nil || u.Host == "" {
		return s.URL
	}
	return u.Hostname()
}

// NewStory holds the fields a user fills in when submitting a story.
type NewStory struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

// StoryList is the ordered front-page list.
type StoryList struct {
	Stories []Story
}

// NewStoryList copies stories into a new list.
func NewStoryList(stories []Story) *StoryList {
	return &StoryList{Stories: append([]Story(nil), stories...)}
}

// Len returns the number of stories.
func (l *StoryList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Stories)
}

// Prepend inserts story at the head of the list.
func (l *StoryList) Prepend(story Story) {
	l.Stories = append([]Story{story}, l.Stories...)
}

// Find returns the story with the given id.
func (l *StoryList) Find(id string) (Story, bool) {
	if l == nil {
		return Story{}, false
	}
	for _, s := range l.Stories {
		if s.ID == id {
			return s, true
		}
	}
	return Story{}, false
}

// User is the logged-in account.
type User struct {
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	Favorites  []Story   `json:"favorites"`
	OwnStories []Story   `json:"stories"`
	LoginToken string    `json:"-"`
}

// FavoriteIndex returns the position of storyID in the favorites, or -1.
func (u *User) FavoriteIndex(storyID string) int {
	if u == nil {
		return -1
	}
	for i, s := range u.Favorites {
		if s.ID == storyID {
			return i
		}
	}
	return -1
}

// IsFavorite reports whether storyID is among the favorites.
func (u *User) IsFavorite(storyID string) bool {
	return u.FavoriteIndex(storyID) >= 0
}

// FavoriteIDs returns the set of favorite story ids.
func (u *User) FavoriteIDs() map[string]bool {
	ids := make(map[string]bool)
	if u == nil {
		return ids
	}
	for _, s := range u.Favorites {
		ids[s.ID] = true
	}
	return ids
}

// AddFavorite appends story unless it is already a favorite.
// Returns the index of the appended entry, or -1 when nothing changed.
func (u *User) AddFavorite(story Story) int {
	if u.IsFavorite(story.ID) {
		return -1
	}
	u.Favorites = append(u.Favorites, story)
	return len(u.Favorites) - 1
}

// RemoveFavorite splices storyID out of the favorites.
// Returns the removed story and its former index, or -1 when it was not a favorite.
func (u *User) RemoveFavorite(storyID string) (Story, int) {
	idx := u.FavoriteIndex(storyID)
	if idx < 0 {
		return Story{}, -1
	}
	removed := u.Favorites[idx]
	u.Favorites = append(u.Favorites[:idx:idx], u.Favorites[idx+1:]...)
	return removed, idx
}

// InsertFavorite places story at idx, clamping idx to the list bounds.
// A story already present is left where it is.
func (u *User) InsertFavorite(idx int, story Story) {
	if u.IsFavorite(story.ID) {
		return
	}
	idx = max(0, min(idx, len(u.Favorites)))
	u.Favorites = append(u.Favorites[:idx:idx], append([]Story{story}, u.Favorites[idx:]...)...)
}

// Clone returns a copy whose slices can be modified without touching u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Favorites = append([]Story(nil), u.Favorites...)
	cp.OwnStories = append([]Story(nil), u.OwnStories...)
	return &cp
}
