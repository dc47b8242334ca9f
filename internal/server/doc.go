// Package server provides HTTP routing, middleware, and the server lifecycle for the web front end.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation sits on a gorilla/mux router, so routes are matched by method and
// may carry path variables, read back with [Var].
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface and return their own [Route] table,
// keeping route definitions next to the implementation.
//
// # Middleware
//
// [RequestID] tags requests with a uuid, [Logging] writes one structured log line per request,
// and [Recover] converts panics into 500 responses.
//
// # Lifecycle
//
// [Run] serves until its context is canceled and then shuts down gracefully.
package server
