// Package ui implements an interactive terminal client using bubbletea's Elm architecture.
//
// The visible view follows the [nav.Controller] layout:
//  1. Story list : the front page, with ★/☆ favorite markers when logged in
//  2. Favorites : the user's favorites in the order they were added
//  3. Login : login and signup forms (ctrl+s switches forms, tab moves between fields)
//  4. Submit : story submission form shown above the current list
//  5. Profile : account details and the user's own stories
//
// The [Model] implements the standard Init/Update/View pattern, receiving results of network calls as [Msg] values.
// Favorite toggles run on the [tasks.FavoritesEngine]; its progress channel lets the star flip before the API answers
// and flip back when the change is rolled back.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, q) with contextual help from charmbracelet/bubbles/help.
package ui
