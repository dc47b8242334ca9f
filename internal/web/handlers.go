package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/nav"
	"github.com/desertthunder/hnx/internal/server"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/tasks"
)

// show applies t and renders the page. A rejected transition flashes the error and goes home.
func (h *Handler) show(t nav.Transition) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.nav.Apply(t); err != nil {
			h.redirect(w, r, "/", flashError, "Please log in first.")
			return
		}
		if t == nav.AllStories || t == nav.Favorites {
			h.renderLists()
		}
		h.render(w, r)
	})
}

// HandleLogin logs in with the posted username and password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.session.Login(r.Context(), username, password)
	if err != nil {
		h.logger.Warn("login failed", "username", username, "error", err)
		h.redirect(w, r, "/login", flashError, userMessage(err))
		return
	}
	h.redirect(w, r, "/", flashInfo, fmt.Sprintf("Welcome, %s!", user.Username))
}

// HandleSignup creates an account from the posted form and logs in.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	name := strings.TrimSpace(r.PostFormValue("name"))

	user, err := h.session.Signup(r.Context(), username, password, name)
	if err != nil {
		h.logger.Warn("signup failed", "username", username, "error", err)
		h.redirect(w, r, "/login", flashError, userMessage(err))
		return
	}
	h.redirect(w, r, "/", flashInfo, fmt.Sprintf("Welcome, %s!", user.Name))
}

// HandleLogout clears storage and reloads the front page, like a fresh page load.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Logout(r.Context()); err != nil {
		h.logger.Error("logout failed", "error", err)
		h.redirect(w, r, "/", flashError, userMessage(err))
		return
	}

	if _, err := h.session.LoadStories(r.Context()); err != nil {
		h.logger.Error("failed to reload stories", "error", err)
		h.redirect(w, r, "/", flashError, userMessage(err))
		return
	}
	h.renderLists()
	h.redirect(w, r, "/", flashInfo, "Logged out.")
}

// HandleSubmit posts a new story and prepends it to the displayed list.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	story, err := h.session.SubmitStory(r.Context(), models.NewStory{
		Title:  r.PostFormValue("title"),
		Author: r.PostFormValue("author"),
		URL:    r.PostFormValue("url"),
	})
	if err != nil {
		h.logger.Warn("submit failed", "error", err)
		h.redirect(w, r, "/submit", flashError, userMessage(err))
		return
	}

	if err := h.stories.PrependSubmitted(*story, h.session.User()); err != nil {
		h.logger.Error("failed to render story", "id", story.ID, "error", err)
		h.renderLists()
	}
	_, _ = h.nav.Apply(nav.StorySubmitted)
	h.redirect(w, r, "/", flashInfo, fmt.Sprintf("Submitted %q.", story.Title))
}

type toggleResponse struct {
	StoryID  string `json:"storyId"`
	Favorite bool   `json:"favorite"`
	Commit   string `json:"commit"`
	Error    string `json:"error,omitempty"`
}

// HandleToggle toggles the favorite state of the story in the path and reports the outcome as JSON.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
	id := server.Var(r, "id")
	result, err := h.engine.Toggle(r.Context(), id, nil)
	h.renderLists()

	resp := toggleResponse{StoryID: id}
	if result != nil {
		resp.Favorite = result.After == tasks.Favorite
		resp.Commit = result.Commit.String()
	}

	status := http.StatusOK
	if err != nil {
		h.logger.Warn("toggle failed", "id", id, "error", err)
		resp.Error = userMessage(err)
		status = statusFor(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrStoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// userMessage is the flash text for err.
func userMessage(err error) string {
	switch {
	case errors.Is(err, shared.ErrAuthFailed):
		return "Invalid username or password."
	case errors.Is(err, shared.ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, shared.ErrMissingArgument), errors.Is(err, shared.ErrInvalidInput):
		return "Please fill in every field."
	default:
		return err.Error()
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to, kind, msg string) {
	h.addFlash(w, r, kind, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *Handler) addFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	sess, err := h.store.Get(r, cookieName)
	if err != nil {
		h.logger.Debug("discarding unreadable flash cookie", "error", err)
	}
	sess.AddFlash(msg, kind)
	if err := sess.Save(r, w); err != nil {
		h.logger.Warn("failed to save flash", "error", err)
	}
}

// takeFlashes pops pending info and error flashes.
func (h *Handler) takeFlashes(w http.ResponseWriter, r *http.Request) (info, errs []string) {
	sess, err := h.store.Get(r, cookieName)
	if err != nil {
		return nil, nil
	}

	info = flashStrings(sess.Flashes(flashInfo))
	errs = flashStrings(sess.Flashes(flashError))
	if len(info)+len(errs) > 0 {
		if err := sess.Save(r, w); err != nil {
			h.logger.Warn("failed to clear flashes", "error", err)
		}
	}
	return info, errs
}

func flashStrings(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
