package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/hnx/internal/models"
	"github.com/desertthunder/hnx/internal/nav"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/tasks"
)

// ViewState represents the focused view in the TUI, derived from the navigation layout.
type ViewState int

const (
	StoryListView ViewState = iota
	FavoritesView
	LoginView
	SubmitView
	ProfileView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	session *session.Session
	engine  tasks.Synchronizer
	nav     *nav.Controller
	logger  *log.Logger
	open    func(string) error

	width      int
	height     int
	stories    list.Model
	favorites  list.Model
	login      *form
	signup     *form
	submit     *form
	signupMode bool

	progressChan chan tasks.ToggleUpdate
	busy         bool
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, s *session.Session, engine tasks.Synchronizer, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Model{
		ctx:       ctx,
		session:   s,
		engine:    engine,
		nav:       nav.NewController(),
		logger:    logger,
		open:      shared.OpenBrowser,
		stories:   newStoryList("Hack or Snooze"),
		favorites: newStoryList("Favorited Stories"),
		login:     newLoginForm(),
		signup:    newSignupForm(),
		submit:    newSubmitForm(),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init restores the remembered login and loads the front page.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	m.status = "Loading stories..."
	return m.bootstrap()
}

// ViewState reports which view currently has focus.
func (m *Model) ViewState() ViewState {
	l := m.nav.Layout()
	switch {
	case l.Visible(nav.SubmitForm):
		return SubmitView
	case l.Visible(nav.LoginForm):
		return LoginView
	case l.Visible(nav.Profile):
		return ProfileView
	case l.Visible(nav.FavoritesList):
		return FavoritesView
	default:
		return StoryListView
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.stories.SetSize(msg.Width-4, msg.Height-8)
		m.favorites.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.ViewState() {
		case LoginView:
			return m.handleLoginKeys(msg)
		case SubmitView:
			return m.handleSubmitKeys(msg)
		default:
			return m.handleBrowseKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgBootstrapped:
		res := msg.data.(bootstrapResult)
		m.busy = false
		m.status = ""
		m.err = res.err
		if res.restored {
			if u := m.session.User(); u != nil {
				_, _ = m.nav.SignIn(u.Username)
				m.status = fmt.Sprintf("Welcome back, %s", u.Username)
			}
		}
		m.refresh()

	case MsgStoriesLoaded:
		m.busy = false
		m.status = ""
		m.err = errOf(msg.data)
		m.refresh()

	case MsgLoggedIn:
		res := msg.data.(loginResult)
		m.busy = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.login.Reset()
		m.signup.Reset()
		_, _ = m.nav.SignIn(res.user.Username)
		m.status = fmt.Sprintf("Logged in as %s", res.user.Username)
		m.refresh()

	case MsgLoggedOut:
		m.busy = false
		m.err = errOf(msg.data)
		_, _ = m.nav.Apply(nav.Reset)
		m.status = "Logged out"
		m.refresh()

	case MsgStorySubmitted:
		res := msg.data.(submitResult)
		m.busy = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.submit.Reset()
		_, _ = m.nav.Apply(nav.StorySubmitted)
		m.status = fmt.Sprintf("Submitted: %s", res.story.Title)
		m.refresh()
		m.stories.Select(0)

	case MsgToggleProgress:
		update := msg.data.(tasks.ToggleUpdate)
		m.status = update.Message
		m.refresh()
		return m, m.waitForProgress()

	case MsgToggleComplete:
		res := msg.data.(toggleResult)
		m.busy = false
		m.progressChan = nil
		m.err = res.err
		if res.result != nil && res.err == nil {
			m.status = fmt.Sprintf("%s: %s", res.result.After, res.result.Story.Title)
		}
		m.refresh()

	case MsgBrowserOpened:
		m.err = errOf(msg.data)
	}

	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loggedIn := m.nav.Layout().LoggedIn()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.all):
		m.apply(nav.AllStories)
		return m, nil
	case key.Matches(msg, m.keys.login) && !loggedIn:
		m.apply(nav.Login)
		m.signupMode = false
		return m, m.login.focusField(0)
	case key.Matches(msg, m.keys.favorites) && loggedIn:
		m.apply(nav.Favorites)
		return m, nil
	case key.Matches(msg, m.keys.submit) && loggedIn:
		m.apply(nav.SubmitStory)
		return m, m.submit.focusField(0)
	case key.Matches(msg, m.keys.profile) && loggedIn:
		m.apply(nav.ShowProfile)
		return m, nil
	case key.Matches(msg, m.keys.logout) && loggedIn:
		return m, m.logout()
	case key.Matches(msg, m.keys.refresh) && !m.busy:
		m.busy = true
		m.status = "Loading stories..."
		return m, m.loadStories()
	case key.Matches(msg, m.keys.toggle) && loggedIn:
		if story, ok := m.selected(); ok && !m.busy {
			return m, m.startToggle(story.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.open):
		if story, ok := m.selected(); ok {
			return m, m.openStory(story.URL)
		}
		return m, nil
	case key.Matches(msg, m.keys.back) && m.ViewState() != StoryListView:
		m.apply(nav.AllStories)
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.login
	if m.signupMode {
		active = m.signup
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.err = nil
		m.apply(nav.AllStories)
		return m, nil
	case "ctrl+s":
		m.signupMode = !m.signupMode
		if m.signupMode {
			return m, m.signup.focusField(0)
		}
		return m, m.login.focusField(0)
	case "tab", "down":
		return m, active.Next()
	case "shift+tab", "up":
		return m, active.Prev()
	case "enter":
		if !active.Last() {
			return m, active.Next()
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		if m.signupMode {
			return m, m.doSignup(active.Value("username"), active.Value("password"), active.Value("name"))
		}
		return m, m.doLogin(active.Value("username"), active.Value("password"))
	}

	return m, active.Update(msg)
}

func (m *Model) handleSubmitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.err = nil
		m.apply(nav.StorySubmitted)
		return m, nil
	case "tab", "down":
		return m, m.submit.Next()
	case "shift+tab", "up":
		return m, m.submit.Prev()
	case "enter":
		if !m.submit.Last() {
			return m, m.submit.Next()
		}
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.doSubmit(models.NewStory{
			Title:  m.submit.Value("title"),
			Author: m.submit.Value("author"),
			URL:    m.submit.Value("url"),
		})
	}

	return m, m.submit.Update(msg)
}

func (m *Model) apply(t nav.Transition) {
	if _, err := m.nav.Apply(t); err != nil {
		m.err = err
		return
	}
	if t == nav.Favorites {
		m.refresh()
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.ViewState() {
	case StoryListView:
		m.stories, cmd = m.stories.Update(msg)
	case FavoritesView:
		m.favorites, cmd = m.favorites.Update(msg)
	}
	return m, cmd
}

// refresh re-renders both lists from the session.
func (m *Model) refresh() {
	user := m.session.User()
	m.stories.SetItems(storyItems(m.session.Stories(), user))
	if user != nil {
		m.favorites.SetItems(storyItems(user.Favorites, user))
	} else {
		m.favorites.SetItems(nil)
	}
}

func (m *Model) selected() (models.Story, bool) {
	var item list.Item
	switch m.ViewState() {
	case StoryListView:
		item = m.stories.SelectedItem()
	case FavoritesView:
		item = m.favorites.SelectedItem()
	}
	si, ok := item.(storyItem)
	if !ok {
		return models.Story{}, false
	}
	return si.story, true
}

func (m *Model) bootstrap() tea.Cmd {
	return func() tea.Msg {
		restored, err := m.session.Bootstrap(m.ctx)
		return bootstrappedMsg(restored, err)
	}
}

func (m *Model) loadStories() tea.Cmd {
	return func() tea.Msg {
		_, err := m.session.LoadStories(m.ctx)
		return storiesLoadedMsg(err)
	}
}

func (m *Model) doLogin(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.session.Login(m.ctx, username, password)
		return loggedInMsg(user, err)
	}
}

func (m *Model) doSignup(username, password, name string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.session.Signup(m.ctx, username, password, name)
		return loggedInMsg(user, err)
	}
}

func (m *Model) doSubmit(story models.NewStory) tea.Cmd {
	return func() tea.Msg {
		created, err := m.session.SubmitStory(m.ctx, story)
		return storySubmittedMsg(created, err)
	}
}

// logout clears the session and reloads the front page.
func (m *Model) logout() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		if err := m.session.Logout(m.ctx); err != nil {
			return loggedOutMsg(err)
		}
		_, err := m.session.LoadStories(m.ctx)
		return loggedOutMsg(err)
	}
}

func (m *Model) openStory(url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg(m.open(url))
	}
}

func (m *Model) startToggle(storyID string) tea.Cmd {
	m.busy = true
	ch := make(chan tasks.ToggleUpdate, 4)
	m.progressChan = ch

	run := func() tea.Msg {
		result, err := m.engine.Toggle(m.ctx, storyID, ch)
		close(ch)
		return toggleCompleteMsg(result, err)
	}
	return tea.Batch(run, m.waitForProgress())
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		update, ok := <-ch
		if !ok {
			return nil
		}
		return toggleProgressMsg(update)
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.ViewState() {
	case LoginView:
		body = m.renderLogin()
	case SubmitView:
		body = m.renderSubmit()
	case ProfileView:
		body = m.renderProfile()
	case FavoritesView:
		body = m.renderFavorites()
	default:
		body = m.stories.View()
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", m.renderNav(), body, m.renderStatus(), m.renderHelp())
}

func (m *Model) renderNav() string {
	l := m.nav.Layout()
	parts := []string{styles.title.UnsetMarginBottom().Render("Hack or Snooze")}
	for _, link := range l.Links() {
		switch link {
		case nav.LinkAll:
			parts = append(parts, "[a] all")
		case nav.LinkLogin:
			parts = append(parts, "[L] login/signup")
		case nav.LinkSubmit:
			parts = append(parts, "[s] submit")
		case nav.LinkFavorites:
			parts = append(parts, "[f] favorites")
		case nav.LinkProfile:
			parts = append(parts, fmt.Sprintf("[p] %s", l.Username()))
		case nav.LinkLogout:
			parts = append(parts, "[X] logout")
		}
	}
	return strings.Join(parts, " | ")
}

func (m *Model) renderFavorites() string {
	if len(m.favorites.Items()) == 0 {
		return styles.warn.Render("No favorites added!")
	}
	return m.favorites.View()
}

func (m *Model) renderLogin() string {
	hint := styles.help.Render("ctrl+s switches between login and signup")
	return fmt.Sprintf("%s\n%s\n%s", m.login.View(!m.signupMode), m.signup.View(m.signupMode), hint)
}

func (m *Model) renderSubmit() string {
	under := m.stories.View()
	if m.nav.Layout().Visible(nav.FavoritesList) {
		under = m.renderFavorites()
	}
	return fmt.Sprintf("%s\n%s", m.submit.View(true), under)
}

func (m *Model) renderProfile() string {
	user := m.session.User()
	if user == nil {
		return styles.err.Render("Not logged in")
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("User Profile Info"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", user.Name)
	fmt.Fprintf(&b, "Username: %s\n", user.Username)
	if !user.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "Account Created: %s\n", user.CreatedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "\n%s\n", styles.ok.Render("My Stories"))
	if len(user.OwnStories) == 0 {
		b.WriteString(styles.help.Render("No stories added by user yet!"))
		b.WriteString("\n")
	}
	for _, s := range user.OwnStories {
		fmt.Fprintf(&b, "  • %s (%s)\n", s.Title, s.HostName())
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.status != "" {
		return styles.ok.Render(m.status)
	}
	return ""
}

func (m *Model) renderHelp() string {
	var helpKeys []key.Binding
	switch m.ViewState() {
	case LoginView, SubmitView:
		helpKeys = []key.Binding{m.keys.next, m.keys.enter, m.keys.back}
	default:
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.open, m.keys.refresh}
		if m.nav.Layout().LoggedIn() {
			helpKeys = append(helpKeys, m.keys.toggle)
		}
		helpKeys = append(helpKeys, m.keys.quit)
	}
	return m.help.ShortHelpView(helpKeys)
}
