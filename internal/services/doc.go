// Package services implements HTTP access to the Hack or Snooze API.
//
// # Client Interface
//
// [Client] is the contract the rest of the application depends on: login, signup,
// login via a remembered token, story listing, story submission and favorite toggling.
//
// # Hack or Snooze Implementation
//
// [HackOrSnoozeService] talks to the v3 REST API. The login token travels in request
// bodies (POST/DELETE) or the query string (GET); there is no bearer header.
// Every request waits on an optional client-side [rate.Limiter].
//
// # Raw Access
//
// [APIService] performs untyped GET/POST calls for the `hnx api` debugging commands.
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which unwraps to:
//   - [shared.ErrAuthFailed] : 401 responses and 404s on login/user lookup
//   - [shared.ErrStoryNotFound] : 404s on favorites
//   - [shared.ErrAPIRequest] : everything else
package services
