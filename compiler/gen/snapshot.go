package gen

import (
	"encoding/binary"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"
)

type (
	snapshot struct {
		Tables []snapRelation `msgpack:"tables"`
		Views  []snapRelation `msgpack:"views"`
	}
	snapRelation struct {
		Name          string       `msgpack:"name"`
		Title         string       `msgpack:"title,omitempty"`
		Desc          string       `msgpack:"desc,omitempty"`
		TriggerUpdate bool         `msgpack:"trigger_update,omitempty"`
		Columns       []snapColumn `msgpack:"columns"`
		Constants     []snapMember `msgpack:"constants,omitempty"`
		Methods       []snapMethod `msgpack:"methods,omitempty"`
		Props         []snapMember `msgpack:"props,omitempty"`
	}
	snapColumn struct {
		Name     string `msgpack:"name"`
		Type     string `msgpack:"type"`
		Title    string `msgpack:"title,omitempty"`
		Desc     string `msgpack:"desc,omitempty"`
		Nullable bool   `msgpack:"nullable"`
		PK       bool   `msgpack:"pk"`
		Identity bool   `msgpack:"identity"`
		Unique   bool   `msgpack:"unique"`
		FK       string `msgpack:"fk,omitempty"`
	}
	snapMember struct {
		Name     string `msgpack:"name"`
		Type     string `msgpack:"type"`
		Title    string `msgpack:"title,omitempty"`
		Desc     string `msgpack:"desc,omitempty"`
		Default  string `msgpack:"default,omitempty"`
		Readonly bool   `msgpack:"readonly,omitempty"`
	}
	snapMethod struct {
		snapMember  `msgpack:",inline"`
		Kind        string       `msgpack:"kind"`
		Constructor bool         `msgpack:"constructor,omitempty"`
		Params      []snapMember `msgpack:"params,omitempty"`
	}
)

// Snapshot encodes the loaded model with msgpack. Two registries holding the
// same relations, in the same order, produce the same bytes regardless of
// the file format they were read from.
func (r *Registry) Snapshot() ([]byte, error) {
	s := snapshot{
		Tables: make([]snapRelation, 0, len(r.Tables)),
		Views:  make([]snapRelation, 0, len(r.Views)),
	}
	for _, t := range r.Tables {
		s.Tables = append(s.Tables, snapOf(t))
	}
	for _, v := range r.Views {
		s.Views = append(s.Views, snapOf(v))
	}
	b, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Fingerprint returns the xxh3 hash of the snapshot. It is used to skip
// regeneration when a model file changed on disk but not in content.
func (r *Registry) Fingerprint() (uint64, error) {
	b, err := r.Snapshot()
	if err != nil {
		return 0, err
	}
	return xxh3.Hash(b), nil
}

// FingerprintFor extends Fingerprint with the database dialect and the ORM
// language of a run. The same model rendered for another pair of languages
// yields another value.
func (r *Registry) FingerprintFor(db, orm string) (uint64, error) {
	fp, err := r.Fingerprint()
	if err != nil {
		return 0, err
	}
	h := xxh3.New()
	_, _ = h.Write(binary.LittleEndian.AppendUint64(nil, fp))
	_, _ = h.WriteString(db)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(orm)
	return h.Sum64(), nil
}

func snapOf(r *Relation) snapRelation {
	s := snapRelation{
		Name:          r.Name.String(),
		Title:         r.Title.String(),
		Desc:          r.Desc.String(),
		TriggerUpdate: r.TriggerUpdate,
		Columns:       make([]snapColumn, 0, len(r.Columns)),
	}
	for _, c := range r.Columns {
		s.Columns = append(s.Columns, snapColumn{
			Name:     c.Name.String(),
			Type:     c.Type.String(),
			Title:    c.Title.String(),
			Desc:     c.Desc.String(),
			Nullable: c.Nullable,
			PK:       c.PK,
			Identity: c.Identity,
			Unique:   c.Unique,
			FK:       c.FK.String(),
		})
	}
	for _, c := range r.Constants {
		s.Constants = append(s.Constants, snapMember{
			Name: c.Name.String(), Type: c.Type.String(), Title: c.Title.String(),
			Desc: c.Desc.String(), Default: c.Default.String(),
		})
	}
	for _, m := range r.Methods {
		sm := snapMethod{
			snapMember: snapMember{
				Name: m.Name.String(), Type: m.Type.String(), Title: m.Title.String(),
				Desc: m.Desc.String(), Default: m.Default.String(),
			},
			Kind:        m.Kind.String(),
			Constructor: m.Constructor,
		}
		for _, p := range m.Params {
			sm.Params = append(sm.Params, snapMember{
				Name: p.Name.String(), Type: p.Type.String(),
				Desc: p.Desc.String(), Default: p.Default.String(),
			})
		}
		s.Methods = append(s.Methods, sm)
	}
	for _, p := range r.Props {
		s.Props = append(s.Props, snapMember{
			Name: p.Name.String(), Type: p.Type.String(), Title: p.Title.String(),
			Desc: p.Desc.String(), Default: p.Default.String(), Readonly: p.Readonly,
		})
	}
	return s
}
