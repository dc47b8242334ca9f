// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand creates the configuration file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml and initialize the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles login state
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the remembered login",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and remember the token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account and log in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Display name",
						Required: true,
					},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Forget the remembered login",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the logged-in user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// storiesCommand handles reading, submitting and favoriting stories
func storiesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "stories",
		Aliases: []string{"s"},
		Usage:   "Story operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List the front page or your favorites",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "favorites",
						Aliases: []string{"f"},
						Usage:   "List favorites instead of all stories",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format: text, markdown or html",
						Value: "text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Read the last cached story list without calling the API",
					},
				},
				Action: r.StoriesList,
			},
			{
				Name:  "submit",
				Usage: "Submit a new story",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Story title",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "author",
						Usage:    "Story author",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "url",
						Usage:    "Story URL",
						Required: true,
					},
				},
				Action: r.StoriesSubmit,
			},
			{
				Name:    "favorite",
				Aliases: []string{"fav"},
				Usage:   "Toggle a story's favorite state",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.StoriesFavorite,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the Hack or Snooze API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON (the remembered token is appended)",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Action:  r.TUI,
	}
}

// serveCommand serves the page locally.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the Hack or Snooze page on a local port",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind (defaults to config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind (defaults to config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in a browser",
			},
		},
		Action: r.Serve,
	}
}
