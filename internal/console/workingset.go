package console

import "github.com/GTDGit/vendor_console/pkg/vendoractivo"

// RecordPatch carries the server-confirmed fields of a mutation. Nil fields
// are left untouched.
type RecordPatch struct {
	IsFrozen *bool
	Role     *vendoractivo.Role
}

// WorkingSet is the ordered list of records for the displayed page. It is
// not safe for concurrent use; Console guards it.
type WorkingSet struct {
	records []vendoractivo.Record
}

// ReplaceAll swaps in a freshly fetched page.
func (w *WorkingSet) ReplaceAll(records []vendoractivo.Record) {
	w.records = append(make([]vendoractivo.Record, 0, len(records)), records...)
}

// PatchOne merges patch into the record with the given id, keeping order
// and every other field. It returns false when the id is not present.
func (w *WorkingSet) PatchOne(id string, patch RecordPatch) bool {
	for i := range w.records {
		if w.records[i].ID != id {
			continue
		}
		if patch.IsFrozen != nil {
			w.records[i].IsFrozen = *patch.IsFrozen
		}
		if patch.Role != nil {
			w.records[i].Role = *patch.Role
		}
		return true
	}
	return false
}

func (w *WorkingSet) Find(id string) (vendoractivo.Record, bool) {
	for _, r := range w.records {
		if r.ID == id {
			return r, true
		}
	}
	return vendoractivo.Record{}, false
}

// Records returns a copy of the working set.
func (w *WorkingSet) Records() []vendoractivo.Record {
	return append(make([]vendoractivo.Record, 0, len(w.records)), w.records...)
}

func (w *WorkingSet) Len() int { return len(w.records) }
