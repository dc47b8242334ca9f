package nav

import (
	"errors"
	"testing"

	"github.com/desertthunder/hnx/internal/shared"
	"github.com/google/go-cmp/cmp"
)

func signedIn(t *testing.T) *Controller {
	t.Helper()
	c := NewController()
	if _, err := c.SignIn("ada"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	return c
}

func TestController(t *testing.T) {
	t.Run("initial layout", func(t *testing.T) {
		l := NewController().Layout()

		if diff := cmp.Diff([]Region{StoryList}, l.VisibleRegions()); diff != "" {
			t.Errorf("unexpected regions (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]Link{LinkAll, LinkLogin}, l.Links()); diff != "" {
			t.Errorf("unexpected links (-want +got):\n%s", diff)
		}
	})

	t.Run("transitions", func(t *testing.T) {
		tc := []struct {
			name  string
			setup []Transition
			apply Transition
			want  []Region
		}{
			{name: "AllStories hides everything else", setup: []Transition{ShowProfile}, apply: AllStories, want: []Region{StoryList}},
			{name: "Login shows both forms", setup: nil, apply: Login, want: []Region{LoginForm, SignupForm}},
			{name: "SubmitStory leaves other regions", setup: []Transition{Favorites}, apply: SubmitStory, want: []Region{FavoritesList, SubmitForm}},
			{name: "Favorites hides story list", setup: []Transition{SubmitStory}, apply: Favorites, want: []Region{FavoritesList, SubmitForm}},
			{name: "Profile alone", setup: []Transition{SubmitStory, Favorites}, apply: ShowProfile, want: []Region{Profile}},
			{name: "StorySubmitted hides form", setup: []Transition{SubmitStory}, apply: StorySubmitted, want: []Region{StoryList}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				c := signedIn(t)
				for _, s := range tt.setup {
					if _, err := c.Apply(s); err != nil {
						t.Fatalf("setup %s failed: %v", s, err)
					}
				}

				l, err := c.Apply(tt.apply)
				if err != nil {
					t.Fatalf("Apply(%s) failed: %v", tt.apply, err)
				}
				if diff := cmp.Diff(tt.want, l.VisibleRegions()); diff != "" {
					t.Errorf("unexpected regions (-want +got):\n%s", diff)
				}

				again, _ := c.Apply(tt.apply)
				if again != l {
					t.Errorf("%s is not idempotent", tt.apply)
				}
			})
		}
	})

	t.Run("SignIn", func(t *testing.T) {
		c := NewController()
		if _, err := c.Apply(Login); err != nil {
			t.Fatalf("Apply(Login) failed: %v", err)
		}

		l, err := c.SignIn("ada")
		if err != nil {
			t.Fatalf("SignIn failed: %v", err)
		}
		if l.Visible(LoginForm) || l.Visible(SignupForm) || !l.Visible(StoryList) {
			t.Errorf("unexpected regions %v", l.VisibleRegions())
		}
		if l.Username() != "ada" || !l.ShowsLink(LinkLogout) || l.ShowsLink(LinkLogin) {
			t.Errorf("nav bar not switched: %v", l.Links())
		}
		if diff := cmp.Diff([]Link{LinkAll, LinkSubmit, LinkFavorites, LinkProfile, LinkLogout}, l.Links()); diff != "" {
			t.Errorf("unexpected links (-want +got):\n%s", diff)
		}

		if _, err := c.SignIn(""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		c := signedIn(t)
		_, _ = c.Apply(ShowProfile)

		l, err := c.Apply(Reset)
		if err != nil {
			t.Fatalf("Apply(Reset) failed: %v", err)
		}
		if l != initialLayout() || l.LoggedIn() {
			t.Errorf("expected initial layout, got %+v", l)
		}
	})

	t.Run("logged out guards", func(t *testing.T) {
		c := NewController()
		before := c.Layout()

		for _, tr := range []Transition{SubmitStory, Favorites, ShowProfile, StorySubmitted} {
			if _, err := c.Apply(tr); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("%s: expected ErrNotAuthenticated, got %v", tr, err)
			}
		}
		if _, err := c.Apply(LoggedIn); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for bare LoggedIn, got %v", err)
		}
		if c.Layout() != before {
			t.Error("rejected transitions changed the layout")
		}
	})
}

func TestElementIDs(t *testing.T) {
	want := map[Region]string{
		StoryList:     "all-stories-list",
		FavoritesList: "favorited-stories",
		LoginForm:     "login-form",
		SignupForm:    "signup-form",
		SubmitForm:    "submit-form",
		Profile:       "user-profile",
	}
	for r, id := range want {
		if r.ElementID() != id {
			t.Errorf("%s.ElementID() = %q, want %q", r, r.ElementID(), id)
		}
	}

	if LinkSubmit.ElementID() != "nav-submit-story" || LinkProfile.ElementID() != "nav-user-profile" {
		t.Error("unexpected link ids")
	}
}
