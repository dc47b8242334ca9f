// Package models defines the records exchanged with the Hack or Snooze API.
//
//   - [Story] : an immutable link submission identified by its storyId
//   - [StoryList] : the ordered list of stories shown on the front page
//   - [User] : the logged-in account with its ordered favorites and own stories
//
// [User] keeps at most one favorite per storyId; [User.AddFavorite] and
// [User.RemoveFavorite] maintain that and report the index they touched so
// callers can restore the exact previous ordering.
package models
