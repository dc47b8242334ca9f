// Package web serves the Hack or Snooze page from a local server.
//
// # Architecture
//
// The page is rendered server-side from the same core the TUI uses: a [session.Session] holds the
// user and story list, a [tasks.Synchronizer] toggles favorites, and a [nav.Controller] decides which
// regions are visible. Each region is always present in the markup under its fixed element id;
// regions the layout does not show carry the hidden attribute.
//
// Story lists are kept as rendered [formatter.StoryListView] values. They are re-rendered when the
// session logs in or resets and after every favorite toggle; a submitted story is prepended without
// touching the rest of the list.
//
// # Routes
//
//	GET  /               → all stories
//	GET  /login          → login and signup forms
//	GET  /submit         → submit form above the current list
//	GET  /favorites      → favorites list
//	GET  /profile        → user profile
//	POST /login          → log in, redirect home
//	POST /signup         → create account, redirect home
//	POST /logout         → clear storage and reset the page
//	POST /stories        → submit a story
//	POST /favorites/{id} → toggle a favorite, JSON result
//
// # Flash Messages
//
// Form posts redirect back to a page (post/redirect/get). Outcomes and errors travel across the
// redirect as gorilla/sessions flash messages in a signed cookie.
//
// The server is a single-user page: one session backs every request, the same way a browser tab
// owns one page.
package web

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hnx/internal/formatter"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/nav"
	"github.com/desertthunder/hnx/internal/server"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/tasks"
	"github.com/gorilla/sessions"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	cookieName  = "hnx"
	flashInfo   = "info"
	flashError  = "error"
	contentHTML = "text/html; charset=utf-8"
)

// Handler serves the page and its form posts. It implements [server.Handler].
type Handler struct {
	session   *session.Session
	engine    tasks.Synchronizer
	nav       *nav.Controller
	stories   *formatter.StoryListView
	favorites *formatter.StoryListView
	store     sessions.Store
	templates *template.Template
	logger    *log.Logger

	renderMu sync.Mutex
}

var _ server.Handler = (*Handler)(nil)

// NewHandler creates a Handler over s and registers it for session login, reset and story load events.
//
// secret signs the flash cookie; an empty secret gets a random one that lasts until restart.
func NewHandler(s *session.Session, engine tasks.Synchronizer, secret string, logger *log.Logger) (*Handler, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	if secret == "" {
		secret = shared.GenerateID()
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode}

	h := &Handler{
		session:   s,
		engine:    engine,
		nav:       nav.NewController(),
		stories:   formatter.NewStoryListView(),
		favorites: formatter.NewStoryListView(),
		store:     store,
		templates: tmpl,
		logger:    logger,
	}

	s.OnLogin(func(u *models.User) {
		if _, err := h.nav.SignIn(u.Username); err != nil {
			h.logger.Warn("could not switch nav", "error", err)
		}
		h.renderLists()
	})
	s.OnReset(func() {
		_, _ = h.nav.Apply(nav.Reset)
		h.renderLists()
	})
	s.OnStories(h.renderLists)

	h.renderLists()
	return h, nil
}

// Routes implements [server.Handler].
func (h *Handler) Routes() []server.Route {
	return []server.Route{
		{Method: http.MethodGet, Path: "/", Handler: h.show(nav.AllStories)},
		{Method: http.MethodGet, Path: "/login", Handler: h.show(nav.Login)},
		{Method: http.MethodGet, Path: "/submit", Handler: h.show(nav.SubmitStory)},
		{Method: http.MethodGet, Path: "/favorites", Handler: h.show(nav.Favorites)},
		{Method: http.MethodGet, Path: "/profile", Handler: h.show(nav.ShowProfile)},
		{Method: http.MethodPost, Path: "/login", Handler: http.HandlerFunc(h.HandleLogin)},
		{Method: http.MethodPost, Path: "/signup", Handler: http.HandlerFunc(h.HandleSignup)},
		{Method: http.MethodPost, Path: "/logout", Handler: http.HandlerFunc(h.HandleLogout)},
		{Method: http.MethodPost, Path: "/stories", Handler: http.HandlerFunc(h.HandleSubmit)},
		{Method: http.MethodPost, Path: "/favorites/{id}", Handler: http.HandlerFunc(h.HandleToggle)},
	}
}

// Layout returns the current navigation layout.
func (h *Handler) Layout() nav.Layout {
	return h.nav.Layout()
}

// renderLists re-renders both story lists from the session.
func (h *Handler) renderLists() {
	h.renderMu.Lock()
	defer h.renderMu.Unlock()

	user := h.session.User()
	if err := h.stories.Render(h.session.Stories(), user); err != nil {
		h.logger.Error("failed to render stories", "error", err)
	}

	if user == nil {
		h.favorites.Clear()
		return
	}
	if err := h.favorites.Render(user.Favorites, user); err != nil {
		h.logger.Error("failed to render favorites", "error", err)
	}
}

type pageData struct {
	layout    nav.Layout
	User      *models.User
	Username  string
	Stories   template.HTML
	Favorites template.HTML
	Flashes   []string
	Errors    []string
}

// Hidden reports whether the region with element id is not shown.
func (p pageData) Hidden(id string) bool {
	for _, r := range nav.Regions {
		if r.ElementID() == id {
			return !p.layout.Visible(r)
		}
	}
	return true
}

// LinkHidden reports whether the nav link with element id is not shown.
func (p pageData) LinkHidden(id string) bool {
	for _, l := range p.layout.Links() {
		if l.ElementID() == id {
			return false
		}
	}
	return true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	layout := h.nav.Layout()
	data := pageData{
		layout:    layout,
		User:      h.session.User(),
		Username:  layout.Username(),
		Stories:   h.stories.HTML(),
		Favorites: h.favorites.HTML(),
	}
	data.Flashes, data.Errors = h.takeFlashes(w, r)

	w.Header().Set("Content-Type", contentHTML)
	if err := h.templates.ExecuteTemplate(w, "page", data); err != nil {
		h.logger.Error("failed to render template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
