// Package tasks keeps the user's favorites in step with the API.
//
// # Toggling
//
// [FavoritesEngine.Toggle] flips one story between [NotFavorite] and [Favorite]:
//
//  1. The story is looked up by id in the session's story list and favorites
//  2. The change is applied to the in-memory favorites right away ([Pending])
//  3. One add or remove call is made to the API
//  4. Success marks the change [Confirmed]; failure restores the favorites to their
//     exact previous order and marks it [RolledBack]
//
// Toggles are serialized: a second call waits for the first to finish.
//
// # Progress Reporting
//
// Each commit transition is sent as a [ToggleUpdate] on an optional channel so front ends
// can flip a star before the network call returns and flip it back on rollback.
// Updates use select with default to prevent blocking.
package tasks
