// Package cli provides the interactive fileshare command-line client.
//
// It wires configuration, the local state database, the API client, the
// aggregate stores and an interactive REPL. Typical flow: restore the saved
// session, execute user commands, and while a passhare session is open keep
// a background poller refreshing its view.
//
// Key features:
//   - Login / Register / Logout with locally persisted credentials
//   - File, folder and share-link management
//   - Downloads through revocable transfer handles
//   - Passhare sessions: create/join by code, share, download, leave, end
//   - Local usage analytics
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
