package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hnx/internal/repositories"
	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/desertthunder/hnx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	client     services.Client
	api        *services.APIService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	storage session.Storage
	cache   session.StoryCache
	db      *sql.DB
	session *session.Session
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Storage and Cache replace the SQLite-backed defaults, which are opened on first use.
type RunnerOpts struct {
	Config     *shared.Config
	Client     services.Client
	API        *services.APIService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Storage    session.Storage
	Cache      session.StoryCache
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Client == nil {
		opts.Client = services.NewHackOrSnoozeService(opts.Config.API.BaseURL, opts.HTTPClient, opts.Config.API.RequestsPerSecond)
	}
	if opts.API == nil {
		opts.API = services.NewAPIService(opts.Config.API.BaseURL, opts.HTTPClient)
	}

	return &Runner{
		config:     opts.Config,
		client:     opts.Client,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		storage:    opts.Storage,
		cache:      opts.Cache,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, storiesCommand, apiCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and any session opened after the call.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openSession returns the runner's session, opening the database on first use.
func (r *Runner) openSession() (*session.Session, error) {
	if r.session != nil {
		return r.session, nil
	}

	if r.storage == nil {
		db, err := shared.OpenDatabase(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
		r.storage = repositories.NewStorageRepository(db)
		r.cache = repositories.NewStoryRepository(db)
	}

	opts := []session.Option{session.WithLogger(r.logger)}
	if r.cache != nil {
		opts = append(opts, session.WithCache(r.cache))
	}
	r.session = session.New(r.client, r.storage, opts...)
	return r.session, nil
}

// requireUser restores the remembered login or fails with [shared.ErrNotAuthenticated].
func (r *Runner) requireUser(ctx context.Context) (*session.Session, error) {
	s, err := r.openSession()
	if err != nil {
		return nil, err
	}
	if s.LoggedIn() {
		return s, nil
	}

	ok, err := s.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: run 'hnx auth login' first", shared.ErrNotAuthenticated)
	}
	return s, nil
}

func (r *Runner) newEngine(s *session.Session) *tasks.FavoritesEngine {
	return tasks.NewFavoritesEngine(s, r.client, r.logger)
}

// Close releases the database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
