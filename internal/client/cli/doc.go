// Package cli provides the interactive DocuDefense command-line client.
//
// It wires configuration, the local SQLite database, the REST client and the
// view services into a REPL. A background watcher pings the backend and
// switches the prompt between online and offline mode.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Browse and search the user directory page by page
//   - Create users, edit or delete your own account
//   - Upload PDF documents, list them with version history, download a
//     version, delete a document
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
