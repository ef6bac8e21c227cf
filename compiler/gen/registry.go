package gen

import (
	"strings"

	"github.com/syssam/dbmodel/compiler/load"
)

type phase uint8

const (
	phaseEmpty phase = iota
	phaseLoaded
	phaseValid
	phaseInvalid
)

// Registry holds every table and view of one generation run. It resolves
// names for foreign keys and member types, and drives the load, validate and
// generate phases in that order.
type Registry struct {
	*Config
	// Tables and Views in load order.
	Tables []*Relation
	Views  []*Relation

	tables map[string]*Relation
	views  map[string]*Relation
	phase  phase
	err    error // recorded validation error
}

// Artifact is the rendered output of one relation.
type Artifact struct {
	Relation *Relation
	Class    string // ORM class name
	DB       string // DDL text
	DBExt    string
	ORM      string // ORM source
	ORMExt   string
}

// NewRegistry creates an empty registry for the run described by c. A nil
// config means DefaultConfig.
func NewRegistry(c *Config) *Registry {
	if c == nil {
		c = DefaultConfig()
	}
	return &Registry{
		Config: c,
		tables: make(map[string]*Relation),
		views:  make(map[string]*Relation),
	}
}

// LoadSchema builds the relations of a loaded schema and loads them.
func (r *Registry) LoadSchema(s *load.Schema) error {
	rels := make([]*Relation, 0, len(s.Tables)+len(s.Views))
	for _, t := range s.Tables {
		rel, err := NewTable(r.Config, t)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
	}
	for _, v := range s.Views {
		rel, err := NewView(r.Config, v)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
	}
	return r.Load(rels...)
}

// Load indexes the relations by kind and name. Two relations of the same
// kind sharing a name fail with a DuplicateNameError before any validation,
// and leave the registry unchanged.
func (r *Registry) Load(rels ...*Relation) error {
	var (
		tables = make(map[string]*Relation, len(r.tables)+len(rels))
		views  = make(map[string]*Relation, len(r.views)+len(rels))
	)
	for k, v := range r.tables {
		tables[k] = v
	}
	for k, v := range r.views {
		views[k] = v
	}
	for _, rel := range rels {
		idx := tables
		if rel.IsView() {
			idx = views
		}
		name := rel.Name.String()
		if _, ok := idx[name]; ok {
			return NewDuplicateNameError(rel.Kind.String(), name, name)
		}
		idx[name] = rel
	}
	for _, rel := range rels {
		if rel.Config == nil {
			rel.Config = r.Config
		}
		if rel.IsView() {
			r.Views = append(r.Views, rel)
		} else {
			r.Tables = append(r.Tables, rel)
		}
	}
	r.tables, r.views = tables, views
	r.phase, r.err = phaseLoaded, nil
	r.logger().Debug("registry loaded", "tables", len(r.Tables), "views", len(r.Views))
	return nil
}

// Table returns the table with the given name.
func (r *Registry) Table(name string) (*Relation, bool) {
	t, ok := r.tables[name]
	return t, ok
}

// View returns the view with the given name.
func (r *Registry) View(name string) (*Relation, bool) {
	v, ok := r.views[name]
	return v, ok
}

// Relations returns the tables followed by the views, in load order.
func (r *Registry) Relations() []*Relation {
	rels := make([]*Relation, 0, len(r.Tables)+len(r.Views))
	rels = append(rels, r.Tables...)
	return append(rels, r.Views...)
}

// Validate runs the structural checks of every relation, then the
// referential checks of every relation, and stops at the first failure.
// The outcome is recorded: later calls return it without re-running.
func (r *Registry) Validate() error {
	switch r.phase {
	case phaseValid:
		return nil
	case phaseInvalid:
		return r.err
	}
	rels := r.Relations()
	for _, rel := range rels {
		if err := rel.CheckStructure(); err != nil {
			return r.fail(err)
		}
	}
	for _, rel := range rels {
		if err := rel.CheckReferences(r); err != nil {
			return r.fail(err)
		}
	}
	r.phase = phaseValid
	r.logger().Debug("registry validated", "relations", len(rels))
	return nil
}

func (r *Registry) fail(err error) error {
	r.phase, r.err = phaseInvalid, err
	r.logger().Debug("registry validation failed", "error", err)
	return err
}

// Generate validates the registry if needed and renders every relation with
// the writers registered for db and orm. It returns either an artifact for
// every relation, or an error and no artifacts.
func (r *Registry) Generate(db, orm string) ([]*Artifact, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	dw, ow, err := r.Languages.Resolve(r.Config, db, orm)
	if err != nil {
		return nil, err
	}
	rels := r.Relations()
	arts := make([]*Artifact, 0, len(rels))
	for _, rel := range rels {
		ddl, err := rel.WriteDb(dw, r, r.Comments)
		if err != nil {
			return nil, NewRenderError(rel.Name.String(), dw.Name(), err)
		}
		src, err := rel.WriteOrm(ow, r, r.Comments)
		if err != nil {
			return nil, NewRenderError(rel.Name.String(), ow.Name(), err)
		}
		arts = append(arts, &Artifact{
			Relation: rel,
			Class:    ow.ClassName(rel),
			DB:       ddl,
			DBExt:    dw.Ext(),
			ORM:      src,
			ORMExt:   ow.Ext(),
		})
	}
	r.logger().Debug("registry rendered", "db", db, "orm", orm, "relations", len(arts))
	return arts, nil
}

// SupportFiles returns the shared files the ORM writer of the run needs
// next to the generated units. Most writers need none.
func (r *Registry) SupportFiles(db, orm string) (map[string]string, error) {
	_, ow, err := r.Languages.Resolve(r.Config, db, orm)
	if err != nil {
		return nil, err
	}
	if sw, ok := ow.(SupportWriter); ok {
		return sw.SupportFiles(), nil
	}
	return nil, nil
}

// Order returns the tables sorted so that every table comes after the tables
// it references, followed by the views. Peers keep their load order, and
// tables that are part of a reference cycle are appended in load order.
func (r *Registry) Order() []*Relation {
	deps := make(map[string][]string, len(r.Tables))
	for _, t := range r.Tables {
		for _, c := range t.ForeignKeys() {
			ref, _ := c.Ref()
			if _, ok := r.tables[ref]; ok && ref != t.Name.String() {
				deps[t.Name.String()] = append(deps[t.Name.String()], ref)
			}
		}
	}
	var (
		order = make([]*Relation, 0, len(r.Tables)+len(r.Views))
		done  = make(map[string]bool, len(r.Tables))
	)
	for len(order) < len(r.Tables) {
		progressed := false
		for _, t := range r.Tables {
			name := t.Name.String()
			if done[name] {
				continue
			}
			ready := true
			for _, d := range deps[name] {
				if !done[d] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, t)
				done[name] = true
				progressed = true
			}
		}
		if !progressed {
			for _, t := range r.Tables {
				if !done[t.Name.String()] {
					order = append(order, t)
					done[t.Name.String()] = true
				}
			}
		}
	}
	return append(order, r.Views...)
}

// Script joins the DDL of the artifacts in dependency order, for a single
// schema script.
func (r *Registry) Script(arts []*Artifact) string {
	byName := make(map[*Relation]*Artifact, len(arts))
	for _, a := range arts {
		byName[a.Relation] = a
	}
	var b strings.Builder
	for _, rel := range r.Order() {
		a, ok := byName[rel]
		if !ok {
			continue
		}
		b.WriteString(strings.TrimRight(a.DB, "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}
