package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/desertthunder/hnx/internal/services"
	"github.com/desertthunder/hnx/internal/session"
	"github.com/desertthunder/hnx/internal/shared"
	"github.com/urfave/cli/v3"
)

// authedAPI returns the raw API service carrying the remembered token, if any.
func (r *Runner) authedAPI(ctx context.Context) *services.APIService {
	if _, err := r.openSession(); err != nil {
		r.logger.Warn("sending request without token", "error", err)
		return r.api
	}

	token, ok, err := r.storage.GetItem(ctx, session.TokenKey)
	if err != nil || !ok {
		return r.api
	}
	return r.api.WithToken(token)
}

func (r *Runner) writeResponse(resp *services.APIResponse, pretty bool) error {
	if !resp.OK() {
		return fmt.Errorf("%w: status %d, body: %s", shared.ErrAPIRequest, resp.StatusCode, string(resp.Body))
	}

	if resp.IsJSON {
		return r.writeJSON(resp.JSONData, pretty)
	}

	if err := r.writeBytes(resp.Body); err != nil {
		return err
	}
	return r.writePlain("\n")
}

// APIGet makes a direct GET request
func (r *Runner) APIGet(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path", shared.ErrMissingArgument)
	}

	r.logger.Info("GET request", "path", path)

	resp, err := r.authedAPI(ctx).Get(ctx, path)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, !cmd.Bool("json"))
}

// APIPost makes a direct POST request
func (r *Runner) APIPost(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	data := cmd.String("data")

	if data == "" {
		return fmt.Errorf("%w: --data flag is required", shared.ErrMissingArgument)
	}

	r.logger.Info("POST request", "path", path)

	var jsonTest any
	if err := json.Unmarshal([]byte(data), &jsonTest); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	resp, err := r.authedAPI(ctx).Post(ctx, path, []byte(data))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return r.writeResponse(resp, true)
}
