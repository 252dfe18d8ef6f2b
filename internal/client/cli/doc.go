// Package cli provides the interactive gophnotes command-line client.
//
// It wires configuration, the local note cache, the remote service and a
// REPL that keeps working while the server is unreachable. A background
// watcher probes the server; on every reconnect the queued offline changes
// are replayed and the cache is refreshed.
//
// Commands:
//   - list [folder]  list notes
//   - show <id>      print one note
//   - new [folder]   create a note
//   - edit <id>      replace a note's body
//   - delete <id>    delete a note
//   - sync           replay queued changes now
//   - status         show connectivity and queue size
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
