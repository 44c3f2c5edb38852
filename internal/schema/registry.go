package schema

import (
	"fmt"
	"sync"
)

// Registry is the shared, name-keyed table registry. It is read concurrently
// by generation and by the status display; writes take the exclusive lock
// briefly. Table and view names come from monotonic counters that reset with
// the registry.
type Registry struct {
	mu       sync.RWMutex
	tables   []Table
	byName   map[string]int
	tableSeq int
	viewSeq  int
	created  int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// NextTableName allocates the next base table name (t0, t1, ...).
func (r *Registry) NextTableName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("t%d", r.tableSeq)
	r.tableSeq++
	return name
}

// NextViewName allocates the next view name (v0, v1, ...).
func (r *Registry) NextViewName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := fmt.Sprintf("v%d", r.viewSeq)
	r.viewSeq++
	return name
}

// Register adds a table, replacing any previous table of the same name.
func (r *Registry) Register(t Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.byName[t.Name]; ok {
		r.tables[idx] = t
		return
	}
	r.byName[t.Name] = len(r.tables)
	r.tables = append(r.tables, t)
	r.created++
}

// Tables returns all tables in registration order.
func (r *Registry) Tables() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Table(nil), r.tables...)
}

// BaseTables returns non-view tables in registration order.
func (r *Registry) BaseTables() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Table, 0, len(r.tables))
	for _, t := range r.tables {
		if !t.IsView {
			out = append(out, t)
		}
	}
	return out
}

// Views returns view tables in registration order.
func (r *Registry) Views() []Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Table, 0, len(r.tables))
	for _, t := range r.tables {
		if t.IsView {
			out = append(out, t)
		}
	}
	return out
}

// TableByName returns a registered table by name.
func (r *Registry) TableByName(name string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.byName[name]; ok {
		return r.tables[idx], true
	}
	return Table{}, false
}

// Len reports the number of registered tables.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

// Created reports how many tables have been registered since the last reset.
func (r *Registry) Created() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created
}

// Reset clears the registry and restarts the name counters.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tables = nil
	r.byName = make(map[string]int)
	r.tableSeq = 0
	r.viewSeq = 0
	r.created = 0
}
