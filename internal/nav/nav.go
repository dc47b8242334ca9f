// Package nav decides which page regions and navigation links are visible.
//
// A [Controller] owns the current [Layout] and moves between layouts through a fixed set of
// [Transition] values. Front ends only read the layout: the web page maps each [Region] and
// [Link] to an element id and marks the rest hidden, the TUI picks its focused view from it.
//
// Every transition is idempotent. Transitions that need a logged-in user return
// [shared.ErrNotAuthenticated] and leave the layout unchanged when nobody is logged in.
package nav

import (
	"fmt"
	"sync"

	"github.com/desertthunder/hnx/internal/shared"
)

// Region is a toggleable part of the page.
type Region int

const (
	StoryList Region = iota
	FavoritesList
	LoginForm
	SignupForm
	SubmitForm
	Profile
)

// Regions lists every region in page order.
var Regions = []Region{StoryList, FavoritesList, LoginForm, SignupForm, SubmitForm, Profile}

func (r Region) String() string {
	switch r {
	case StoryList:
		return "story_list"
	case FavoritesList:
		return "favorites_list"
	case LoginForm:
		return "login_form"
	case SignupForm:
		return "signup_form"
	case SubmitForm:
		return "submit_form"
	case Profile:
		return "profile"
	default:
		return ""
	}
}

// ElementID is the id of the region's element on the web page.
func (r Region) ElementID() string {
	switch r {
	case StoryList:
		return "all-stories-list"
	case FavoritesList:
		return "favorited-stories"
	case LoginForm:
		return "login-form"
	case SignupForm:
		return "signup-form"
	case SubmitForm:
		return "submit-form"
	case Profile:
		return "user-profile"
	default:
		return ""
	}
}

// Link is a navigation bar entry.
type Link int

const (
	LinkAll Link = iota
	LinkLogin
	LinkSubmit
	LinkFavorites
	LinkProfile
	LinkLogout
)

// ElementID is the id of the link's element on the web page.
func (l Link) ElementID() string {
	switch l {
	case LinkAll:
		return "nav-all"
	case LinkLogin:
		return "nav-login"
	case LinkSubmit:
		return "nav-submit-story"
	case LinkFavorites:
		return "nav-favorites"
	case LinkProfile:
		return "nav-user-profile"
	case LinkLogout:
		return "nav-logout"
	default:
		return ""
	}
}

// Transition is a navigation event.
type Transition int

const (
	AllStories Transition = iota
	Login
	SubmitStory
	Favorites
	ShowProfile
	LoggedIn
	StorySubmitted
	Reset
)

func (t Transition) String() string {
	switch t {
	case AllStories:
		return "all_stories"
	case Login:
		return "login"
	case SubmitStory:
		return "submit_story"
	case Favorites:
		return "favorites"
	case ShowProfile:
		return "profile"
	case LoggedIn:
		return "logged_in"
	case StorySubmitted:
		return "story_submitted"
	case Reset:
		return "reset"
	default:
		return ""
	}
}

// requiresUser reports whether t is only reachable from a logged-in nav bar.
func (t Transition) requiresUser() bool {
	switch t {
	case SubmitStory, Favorites, ShowProfile, StorySubmitted:
		return true
	default:
		return false
	}
}

// Layout is an immutable snapshot of what is visible.
type Layout struct {
	visible  uint8
	username string
}

func initialLayout() Layout {
	return Layout{}.show(StoryList)
}

func (l Layout) show(regions ...Region) Layout {
	for _, r := range regions {
		l.visible |= 1 << r
	}
	return l
}

func (l Layout) hide(regions ...Region) Layout {
	for _, r := range regions {
		l.visible &^= 1 << r
	}
	return l
}

func (l Layout) hideAll() Layout {
	l.visible = 0
	return l
}

// Visible reports whether r is shown.
func (l Layout) Visible(r Region) bool {
	return l.visible&(1<<r) != 0
}

// VisibleRegions lists the shown regions in page order.
func (l Layout) VisibleRegions() []Region {
	var out []Region
	for _, r := range Regions {
		if l.Visible(r) {
			out = append(out, r)
		}
	}
	return out
}

// LoggedIn reports whether the nav bar is in its logged-in form.
func (l Layout) LoggedIn() bool {
	return l.username != ""
}

// Username is the name shown on the profile link, or "".
func (l Layout) Username() string {
	return l.username
}

// Links lists the visible nav links.
func (l Layout) Links() []Link {
	if !l.LoggedIn() {
		return []Link{LinkAll, LinkLogin}
	}
	return []Link{LinkAll, LinkSubmit, LinkFavorites, LinkProfile, LinkLogout}
}

// ShowsLink reports whether link is visible.
func (l Layout) ShowsLink(link Link) bool {
	for _, v := range l.Links() {
		if v == link {
			return true
		}
	}
	return false
}

// Controller applies transitions to the current layout. It is safe for concurrent use.
type Controller struct {
	mu     sync.Mutex
	layout Layout
}

// NewController starts at the initial layout: story list shown, logged-out links.
func NewController() *Controller {
	return &Controller{layout: initialLayout()}
}

// Layout returns the current layout.
func (c *Controller) Layout() Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Apply performs t and returns the new layout.
//
// LoggedIn must go through [Controller.SignIn], which carries the username.
func (c *Controller) Apply(t Transition) (Layout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.requiresUser() && !c.layout.LoggedIn() {
		return c.layout, fmt.Errorf("%w: %s needs a logged-in user", shared.ErrNotAuthenticated, t)
	}

	l := c.layout
	switch t {
	case AllStories:
		l = l.hideAll().show(StoryList)
	case Login:
		l = l.hideAll().show(LoginForm, SignupForm)
	case SubmitStory:
		l = l.show(SubmitForm)
	case Favorites:
		l = l.hide(StoryList).show(FavoritesList)
	case ShowProfile:
		l = l.hideAll().show(Profile)
	case StorySubmitted:
		l = l.hide(SubmitForm)
	case Reset:
		l = initialLayout()
	case LoggedIn:
		if !l.LoggedIn() {
			return c.layout, fmt.Errorf("%w: use SignIn for %s", shared.ErrInvalidArgument, t)
		}
		l = l.hide(LoginForm, SignupForm).show(StoryList)
	default:
		return c.layout, fmt.Errorf("%w: unknown transition %d", shared.ErrInvalidArgument, int(t))
	}

	c.layout = l
	return l, nil
}

// SignIn performs the LoggedIn transition for username.
func (c *Controller) SignIn(username string) (Layout, error) {
	if username == "" {
		return c.Layout(), fmt.Errorf("%w: username is required", shared.ErrMissingArgument)
	}

	c.mu.Lock()
	c.layout.username = username
	c.mu.Unlock()

	return c.Apply(LoggedIn)
}
