package reconcile

import "transmute/core/featureset"

// IndexField is the positional index column some exports add to every row.
// It is never part of a layer schema and is dropped during materialization.
const IndexField = "index"

// MaxFieldNameLength is the column-name limit of the destination storage backend.
const MaxFieldNameLength = 10

// Edits is the output of Batch. Each list is nil when it has no members.
type Edits struct {
	// Adds are new features, reference key set, destination object id absent.
	Adds []featureset.Feature `json:"adds,omitempty"`

	// Updates are source features carrying the destination object id they replace.
	Updates []featureset.Feature `json:"updates,omitempty"`

	// Deletes are destination object ids to remove.
	Deletes []int64 `json:"deletes,omitempty"`
}

// Counts summarizes the size of each edit list.
type Counts struct {
	Adds    int `json:"adds"`
	Updates int `json:"updates"`
	Deletes int `json:"deletes"`
}

// Counts returns the number of adds, updates and deletes.
func (e *Edits) Counts() Counts {
	return Counts{
		Adds:    len(e.Adds),
		Updates: len(e.Updates),
		Deletes: len(e.Deletes),
	}
}

// Empty reports whether there is nothing to submit.
func (e *Edits) Empty() bool {
	return len(e.Adds) == 0 && len(e.Updates) == 0 && len(e.Deletes) == 0
}

// Total returns the number of edits across all lists.
func (c Counts) Total() int {
	return c.Adds + c.Updates + c.Deletes
}
