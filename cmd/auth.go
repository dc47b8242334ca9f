package main

import (
	"context"
	"errors"

	"github.com/desertthunder/hnx/internal/formatter"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin logs in and remembers the token for later commands.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession()
	if err != nil {
		return err
	}

	username := cmd.String("username")
	r.logger.Info("logging in", "username", username)

	user, err := s.Login(ctx, username, cmd.String("password"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s (%s)\n", user.Username, user.Name)
	return nil
}

// AuthSignup creates an account and remembers its token.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession()
	if err != nil {
		return err
	}

	username := cmd.String("username")
	r.logger.Info("creating account", "username", username)

	user, err := s.Signup(ctx, username, cmd.String("password"), cmd.String("name"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Account created for %s (%s)\n", user.Username, user.Name)
	return nil
}

// AuthLogout forgets the remembered login. It succeeds when nobody is logged in.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession()
	if err != nil {
		return err
	}

	if err := s.Logout(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Logged out\n")
	return nil
}

// AuthStatus restores the remembered login and prints the profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openSession()
	if err != nil {
		return err
	}

	if _, err := s.Restore(ctx); err != nil {
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			return err
		}
		r.logger.Warn("remembered login was rejected", "error", err)
	}

	user := s.User()
	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}
	return r.writeBytes(formatter.ProfileText(user))
}
