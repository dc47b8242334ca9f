package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgBootstrapped MsgKind = iota
	MsgStoriesLoaded
	MsgLoggedIn
	MsgLoggedOut
	MsgStorySubmitted
	MsgToggleProgress
	MsgToggleComplete
	MsgBrowserOpened
)

type bootstrapResult struct {
	restored bool
	err      error
}

type loginResult struct {
	user *models.User
	err  error
}

type submitResult struct {
	story *models.Story
	err   error
}

type toggleResult struct {
	result *tasks.ToggleResult
	err    error
}

// bootstrappedMsg is the constructor for [MsgBootstrapped]
func bootstrappedMsg(restored bool, err error) Msg {
	return Msg{kind: MsgBootstrapped, data: bootstrapResult{restored, err}}
}

// storiesLoadedMsg is the constructor for [MsgStoriesLoaded]
func storiesLoadedMsg(err error) Msg {
	return Msg{kind: MsgStoriesLoaded, data: err}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(user *models.User, err error) Msg {
	return Msg{kind: MsgLoggedIn, data: loginResult{user, err}}
}

// loggedOutMsg is the constructor for [MsgLoggedOut]
func loggedOutMsg(err error) Msg {
	return Msg{kind: MsgLoggedOut, data: err}
}

// storySubmittedMsg is the constructor for [MsgStorySubmitted]
func storySubmittedMsg(story *models.Story, err error) Msg {
	return Msg{kind: MsgStorySubmitted, data: submitResult{story, err}}
}

// toggleProgressMsg is the constructor for [MsgToggleProgress]
func toggleProgressMsg(update tasks.ToggleUpdate) Msg {
	return Msg{kind: MsgToggleProgress, data: update}
}

// toggleCompleteMsg is the constructor for [MsgToggleComplete]
func toggleCompleteMsg(result *tasks.ToggleResult, err error) Msg {
	return Msg{kind: MsgToggleComplete, data: toggleResult{result, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}

// errOf extracts an error payload, or nil.
func errOf(data any) error {
	err, _ := data.(error)
	return err
}
