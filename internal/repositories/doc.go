// Package repositories implements SQLite persistence for the client.
//
// Key Implementations:
//   - [StorageRepository] : durable key/value storage for the remembered login
//   - [StoryRepository] : cache of the last fetched story list, read by offline listings
//
// Both repositories take a [context.Context] on every call and wrap driver errors with the
// operation that failed. Missing rows are reported through sentinel errors from the shared package.
package repositories
