package module

// Module is an upstream grouping of API documents within a project.
type Module struct {
	id   string
	name string
}

// New creates a Module.
func New(id, name string) Module {
	return Module{id: id, name: name}
}

// ID returns the module identifier (may be empty for malformed upstream records).
func (m Module) ID() string { return m.id }

// Name returns the module display name.
func (m Module) Name() string { return m.name }

// Label returns the name for log lines, falling back to the identifier.
func (m Module) Label() string {
	if m.name != "" {
		return m.name
	}
	return m.id
}

// NameIndex maps module identifiers to display names.
type NameIndex map[string]string

// IndexNames builds a NameIndex from a module list.
// Modules without an identifier are skipped.
func IndexNames(mods []Module) NameIndex {
	idx := make(NameIndex, len(mods))
	for _, m := range mods {
		if m.id == "" {
			continue
		}
		idx[m.id] = m.name
	}
	return idx
}

// Lookup returns the display name for id, or "" when unknown.
func (idx NameIndex) Lookup(id string) string {
	if id == "" {
		return ""
	}
	return idx[id]
}
