package services

// Advisory is a user-facing notice that an operation fell back to local
// state because the server could not be reached.
type Advisory int

const (
	AdvisoryShowingCached Advisory = iota + 1
	AdvisoryCreateQueued
	AdvisoryUpdateQueued
	AdvisoryDeleteQueued
)

func (a Advisory) String() string {
	switch a {
	case AdvisoryShowingCached:
		return "Offline: showing cached notes"
	case AdvisoryCreateQueued:
		return "Offline: note saved locally and will be created when back online"
	case AdvisoryUpdateQueued:
		return "Offline: changes saved locally and will sync when back online"
	case AdvisoryDeleteQueued:
		return "Offline: note will be deleted when back online"
	default:
		return "Offline"
	}
}
