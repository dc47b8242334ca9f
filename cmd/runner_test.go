package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	tu "github.com/desertthunder/hnx/internal/testing"
	"github.com/urfave/cli/v3"
)

// newTestRunner returns a runner backed by the mock client and in-memory storage.
func newTestRunner(client *tu.MockClient, storage *tu.MemoryStorage) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Client:  client,
		Storage: storage,
		Output:  output,
		Logger:  shared.NewLogger(io.Discard),
	})
	return runner, output
}

// loggedInStorage holds the token the mock client accepts for "ada".
func loggedInStorage() *tu.MemoryStorage {
	storage := tu.NewMemoryStorage()
	storage.Items[session.TokenKey] = "tok-ada"
	storage.Items[session.UsernameKey] = "ada"
	return storage
}

func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:      "hnx",
		Writer:    io.Discard,
		ErrWriter: io.Discard,
		Commands:  r.register(),
	}
	return app.Run(context.Background(), append([]string{"hnx"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			client := tu.NewMockClient()
			storage := tu.NewMemoryStorage()
			api := &services.APIService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Client:     client,
				Storage:    storage,
				API:        api,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.storage != storage {
				t.Error("expected storage to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
			if runner.client == nil || runner.api == nil {
				t.Error("expected clients to be built from config")
			}
		})

		t.Run("close without database", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if err := runner.Close(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("formats text", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("Hello %s, count: %d\n", "World", 42); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "Hello World, count: 42\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
			if err := runner.writeBytes([]byte("test")); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		want := []string{"setup", "auth", "stories", "api", "tui", "serve"}
		if len(commands) != len(want) {
			t.Fatalf("expected %d commands, got %d", len(want), len(commands))
		}
		for i, name := range want {
			if commands[i].Name != name {
				t.Errorf("expected command %d to be %s, got %s", i, name, commands[i].Name)
			}
		}
	})

	t.Run("openSession is cached", func(t *testing.T) {
		runner, _ := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

		first, err := runner.openSession()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		second, _ := runner.openSession()
		if first != second {
			t.Error("expected the same session on every call")
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login remembers the token", func(t *testing.T) {
		storage := tu.NewMemoryStorage()
		runner, output := newTestRunner(tu.NewMockClient(), storage)

		if err := run(runner, "auth", "login", "-u", "ada", "-p", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as ada (Ada Lovelace)") {
			t.Errorf("unexpected output %q", output.String())
		}
		if storage.Items[session.TokenKey] != "tok-ada" {
			t.Errorf("expected token to be stored, got %q", storage.Items[session.TokenKey])
		}
	})

	t.Run("login failure", func(t *testing.T) {
		client := tu.NewMockClient()
		client.LoginErr = shared.ErrAuthFailed
		runner, _ := newTestRunner(client, tu.NewMemoryStorage())

		err := run(runner, "auth", "login", "-u", "ada", "-p", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("signup", func(t *testing.T) {
		client := tu.NewMockClient()
		runner, output := newTestRunner(client, tu.NewMemoryStorage())

		if err := run(runner, "auth", "signup", "-u", "grace", "-p", "pw", "-n", "Grace Hopper"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Account created for grace (Grace Hopper)") {
			t.Errorf("unexpected output %q", output.String())
		}
		if _, ok := client.Users["grace"]; !ok {
			t.Error("expected account to be created")
		}
	})

	t.Run("logout clears storage", func(t *testing.T) {
		storage := loggedInStorage()
		runner, output := newTestRunner(tu.NewMockClient(), storage)

		if err := run(runner, "auth", "logout"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(storage.Items) != 0 {
			t.Errorf("expected storage to be cleared, got %v", storage.Items)
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Run("logged in", func(t *testing.T) {
			runner, output := newTestRunner(tu.NewMockClient(), loggedInStorage())

			if err := run(runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "Username: ada") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("logged out", func(t *testing.T) {
			runner, output := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

			if err := run(runner, "auth", "status"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "Not logged in.\n" {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("rejected token is not fatal", func(t *testing.T) {
			storage := loggedInStorage()
			storage.Items[session.TokenKey] = "stale"
			runner, output := newTestRunner(tu.NewMockClient(), storage)

			if err := run(runner, "auth", "status", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if strings.TrimSpace(output.String()) != "null" {
				t.Errorf("expected null user, got %q", output.String())
			}
		})
	})
}

func TestStoriesCommands(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		t.Run("text without login has no stars", func(t *testing.T) {
			runner, output := newTestRunner(tu.NewMockClient(tu.SampleStories()...), tu.NewMemoryStorage())

			if err := run(runner, "stories", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			result := output.String()
			if !strings.HasPrefix(result, "All Stories (3)") {
				t.Errorf("unexpected header in %q", result)
			}
			if !strings.Contains(result, "1. Go 1.22 released (go.dev)") {
				t.Errorf("expected first story, got %q", result)
			}
			if strings.Contains(result, "☆") {
				t.Error("expected no stars when logged out")
			}
		})

		t.Run("text with login shows stars", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			client.Users["ada"].Favorites = tu.SampleStories()[1:2]
			runner, output := newTestRunner(client, loggedInStorage())

			if err := run(runner, "stories", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			result := output.String()
			if !strings.Contains(result, "★ Bubble Tea") {
				t.Errorf("expected filled star for favorite, got %q", result)
			}
			if !strings.Contains(result, "☆ Go 1.22 released") {
				t.Errorf("expected outline star, got %q", result)
			}
		})

		t.Run("favorites", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			client.Users["ada"].Favorites = tu.SampleStories()[1:2]
			runner, output := newTestRunner(client, loggedInStorage())

			if err := run(runner, "stories", "list", "--favorites", "--format", "markdown"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			result := output.String()
			if !strings.HasPrefix(result, "# Favorites") {
				t.Errorf("unexpected header in %q", result)
			}
			if strings.Contains(result, "Go 1.22") {
				t.Error("expected only favorites")
			}
		})

		t.Run("favorites need a login", func(t *testing.T) {
			runner, _ := newTestRunner(tu.NewMockClient(tu.SampleStories()...), tu.NewMemoryStorage())

			err := run(runner, "stories", "list", "-f")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("json", func(t *testing.T) {
			runner, output := newTestRunner(tu.NewMockClient(tu.SampleStories()...), tu.NewMemoryStorage())

			if err := run(runner, "stories", "list", "--json"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"storyId": "s1"`) {
				t.Errorf("expected story json, got %q", output.String())
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			runner, _ := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

			if err := run(runner, "stories", "list", "--format", "pdf"); err == nil {
				t.Error("expected error for unknown format")
			}
		})

		t.Run("offline without cache", func(t *testing.T) {
			runner, _ := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

			err := run(runner, "stories", "list", "--offline")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("offline reads the sqlite cache", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			output := &bytes.Buffer{}
			config := shared.DefaultConfig()
			config.Database.Path = filepath.Join(t.TempDir(), "hnx.db")
			runner := NewRunner(RunnerOpts{
				Config: config,
				Client: client,
				Output: output,
				Logger: shared.NewLogger(io.Discard),
			})
			defer runner.Close()

			if err := run(runner, "stories", "list"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			client.StoriesErr = shared.ErrServiceUnavailable
			output.Reset()

			if err := run(runner, "stories", "list", "--offline"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "SQLite is not a toy") {
				t.Errorf("expected cached stories, got %q", output.String())
			}
		})
	})

	t.Run("submit", func(t *testing.T) {
		t.Run("as logged in user", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			runner, output := newTestRunner(client, loggedInStorage())

			err := run(runner, "stories", "submit", "--title", "New", "--author", "Me", "--url", "https://example.com/a")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(client.Submitted) != 1 {
				t.Fatalf("expected one submission, got %d", len(client.Submitted))
			}
			if !strings.Contains(output.String(), "Submitted: New (example.com)") {
				t.Errorf("unexpected output %q", output.String())
			}
		})

		t.Run("requires login", func(t *testing.T) {
			client := tu.NewMockClient()
			runner, _ := newTestRunner(client, tu.NewMemoryStorage())

			err := run(runner, "stories", "submit", "--title", "New", "--author", "Me", "--url", "https://example.com/a")
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if len(client.Submitted) != 0 {
				t.Error("expected nothing submitted")
			}
		})
	})

	t.Run("favorite", func(t *testing.T) {
		t.Run("adds then removes", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			runner, output := newTestRunner(client, loggedInStorage())

			if err := run(runner, "stories", "favorite", "s2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "★ Favorited: Bubble Tea") {
				t.Errorf("unexpected output %q", output.String())
			}

			output.Reset()
			if err := run(runner, "stories", "fav", "s2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), "☆ Unfavorited: Bubble Tea") {
				t.Errorf("unexpected output %q", output.String())
			}
			if len(client.AddFavCalls) != 1 || len(client.RemoveFavCalls) != 1 {
				t.Errorf("expected one add and one remove, got %v and %v", client.AddFavCalls, client.RemoveFavCalls)
			}
		})

		t.Run("rolls back on failure", func(t *testing.T) {
			client := tu.NewMockClient(tu.SampleStories()...)
			client.AddFavErr = shared.ErrServiceUnavailable
			runner, _ := newTestRunner(client, loggedInStorage())

			if err := run(runner, "stories", "favorite", "s1"); err == nil {
				t.Fatal("expected error")
			}
			s, _ := runner.openSession()
			if s.User().IsFavorite("s1") {
				t.Error("expected favorite to be rolled back")
			}
		})

		t.Run("unknown story", func(t *testing.T) {
			runner, _ := newTestRunner(tu.NewMockClient(tu.SampleStories()...), loggedInStorage())

			err := run(runner, "stories", "favorite", "nope")
			if !errors.Is(err, shared.ErrStoryNotFound) {
				t.Errorf("expected ErrStoryNotFound, got %v", err)
			}
		})

		t.Run("missing id", func(t *testing.T) {
			runner, _ := newTestRunner(tu.NewMockClient(), loggedInStorage())

			err := run(runner, "stories", "favorite")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})
}

func TestAPICommands(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		switch r.URL.Path {
		case "/stories":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"stories":[{"storyId":"s1"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404}}`))
		}
	}))
	defer srv.Close()

	newRunner := func(storage *tu.MemoryStorage) (*Runner, *bytes.Buffer) {
		output := &bytes.Buffer{}
		return NewRunner(RunnerOpts{
			Client:  tu.NewMockClient(),
			API:     services.NewAPIService(srv.URL, srv.Client()),
			Storage: storage,
			Output:  output,
			Logger:  shared.NewLogger(io.Discard),
		}), output
	}

	t.Run("get pretty prints and sends the token", func(t *testing.T) {
		runner, output := newRunner(loggedInStorage())

		if err := run(runner, "api", "get", "/stories"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"storyId": "s1"`) {
			t.Errorf("expected pretty JSON, got %q", output.String())
		}
		if gotToken != "tok-ada" {
			t.Errorf("expected token to be sent, got %q", gotToken)
		}
	})

	t.Run("get compact without token", func(t *testing.T) {
		runner, output := newRunner(tu.NewMemoryStorage())

		if err := run(runner, "api", "get", "--json", "stories"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `{"stories":[{"storyId":"s1"}]}`) {
			t.Errorf("expected compact JSON, got %q", output.String())
		}
		if gotToken != "" {
			t.Errorf("expected no token, got %q", gotToken)
		}
	})

	t.Run("get error status", func(t *testing.T) {
		runner, _ := newRunner(tu.NewMemoryStorage())

		err := run(runner, "api", "get", "/missing")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("post rejects invalid JSON", func(t *testing.T) {
		runner, _ := newRunner(tu.NewMemoryStorage())

		err := run(runner, "api", "post", "-d", "{not json", "/stories")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustChdir(t, dir)
		t.Setenv("HNX_DB_PATH", filepath.Join(dir, "data.db"))

		runner, output := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

		if err := run(runner, "setup"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertFileExists(t, filepath.Join(dir, "data.db"))
		if !strings.Contains(output.String(), "✓ Config: config.toml") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("loads an existing config", func(t *testing.T) {
		dir := t.TempDir()
		tu.MustChdir(t, dir)

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "custom.db")
		if err := shared.SaveConfig("custom.toml", config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		runner, output := newTestRunner(tu.NewMockClient(), tu.NewMemoryStorage())

		if err := run(runner, "setup", "-c", "custom.toml"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "custom.db"))
		if !strings.Contains(output.String(), "custom.db") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestServeRouter(t *testing.T) {
	runner, _ := newTestRunner(tu.NewMockClient(tu.SampleStories()...), tu.NewMemoryStorage())
	s, err := runner.openSession()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := s.LoadStories(context.Background()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	h, err := newWebHandler(runner, s, "test-secret")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	rec := httptest.NewRecorder()
	runner.newRouter(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
	if !strings.Contains(rec.Body.String(), "Bubble Tea") {
		t.Error("expected stories on the page")
	}
}
