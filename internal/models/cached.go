package models

// SyncFlags records what the client still owes the server for a cached note.
//
// Pending means local content has not been confirmed by the server.
// Tombstoned means a delete is queued; a tombstoned note is never pending.
type SyncFlags struct {
	Pending    bool
	Tombstoned bool
}

// CachedNote is a note snapshot held in the client's local store together
// with its sync state.
type CachedNote struct {
	Note
	Flags SyncFlags
}

// Clean wraps n as a cached note with nothing left to sync.
func Clean(n *Note) *CachedNote {
	return &CachedNote{Note: *n}
}

// PendingNote wraps n as a cached note awaiting upload.
func PendingNote(n *Note) *CachedNote {
	return &CachedNote{Note: *n, Flags: SyncFlags{Pending: true}}
}
