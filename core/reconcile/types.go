package reconcile

// State is the processing state of a ChangeSet entry within one pass.
type State int

const (
	// Unseen marks an entry that was loaded from the local store but has not
	// been encountered in the remote source yet.
	Unseen State = iota
	// Touched marks an entry that was encountered in the remote source during
	// the current pass.
	Touched
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case Unseen:
		return "unseen"
	case Touched:
		return "touched"
	default:
		return "unknown"
	}
}

// Entry is the in-pass record of one local row.
type Entry struct {
	// ID is the local primary key of the row.
	ID int64 `json:"id"`

	// Checksum is the checksum persisted with the row, or the one written
	// during this pass once the entry is touched.
	Checksum uint32 `json:"checksum"`

	// State is the processing state within the pass.
	State State `json:"state"`

	// Written reports whether touching the entry inserted or updated the row.
	Written bool `json:"written"`
}

// Summary provides aggregate counts over a ChangeSet.
type Summary struct {
	// Total is the number of entries in the set.
	Total int `json:"total"`

	// Inserted counts touched entries without a preloaded row.
	Inserted int `json:"inserted"`

	// Updated counts touched entries whose preloaded row was rewritten.
	Updated int `json:"updated"`

	// Unchanged counts touched entries that caused no write.
	Unchanged int `json:"unchanged"`

	// Removed counts entries that were never touched.
	Removed int `json:"removed"`
}

// Writes returns the number of row writes the summary represents.
func (s Summary) Writes() int {
	return s.Inserted + s.Updated + s.Removed
}

// Add returns the element-wise sum of two summaries.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Total:     s.Total + o.Total,
		Inserted:  s.Inserted + o.Inserted,
		Updated:   s.Updated + o.Updated,
		Unchanged: s.Unchanged + o.Unchanged,
		Removed:   s.Removed + o.Removed,
	}
}
