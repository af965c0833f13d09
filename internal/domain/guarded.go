package domain

// DuplicateHandler receives the name of a task whose insertion was suppressed.
type DuplicateHandler func(name string)

// Guarded decorates a Collection so that no two tasks share a name. Every
// code path that appends goes through Append, so the check lives only here.
type Guarded struct {
	Collection
	onDuplicate DuplicateHandler
}

// NewGuarded wraps inner. onDuplicate may be nil.
func NewGuarded(inner Collection, onDuplicate DuplicateHandler) *Guarded {
	return &Guarded{Collection: inner, onDuplicate: onDuplicate}
}

// Append inserts task unless a task with the same name exists. A suppressed
// insertion leaves the collection unchanged, calls the duplicate handler and
// still returns nil.
func (g *Guarded) Append(task *Task) error {
	if task != nil && g.Collection.IndexOf(task.Name) >= 0 {
		if g.onDuplicate != nil {
			g.onDuplicate(task.Name)
		}
		return nil
	}
	return g.Collection.Append(task)
}
