package golang

import (
	"fmt"
	"go/token"

	"github.com/syssam/dbmodel/compiler/gen"
)

// ident returns the camelCase Go identifier of a member name, suffixed
// with an underscore when it is a Go keyword (type -> type_).
func ident(s string) string {
	id := gen.Camel(s)
	if token.IsKeyword(id) {
		id += "_"
	}
	return id
}

// scope records the identifiers declared in one Go scope and what declared
// them.
type scope struct {
	what  string
	names map[string]string
}

func newScope(what string, reserved ...string) *scope {
	s := &scope{what: what, names: make(map[string]string)}
	for i := 0; i+1 < len(reserved); i += 2 {
		s.names[reserved[i]] = reserved[i+1]
	}
	return s
}

func (s *scope) declare(id, src string) error {
	if prev, ok := s.names[id]; ok {
		return fmt.Errorf("%s %s of %s collides with %s", s.what, id, src, prev)
	}
	s.names[id] = src
	return nil
}

// checkNames reports the first pair of members of r rendered under the
// same Go identifier: struct fields and methods share the selector scope,
// the package level holds the type and its functions, and every function
// has its own parameter scope.
func (w *Writer) checkNames(r *gen.Relation) error {
	var (
		class = w.ClassName(r)
		recv  = gen.Receiver(class)
		sel   = newScope("selector", "TableName", "method TableName")
		pkg   = newScope("declaration", class, "type "+class, "New"+class, "constructor New"+class)
	)
	for _, c := range r.Columns {
		if err := sel.declare(gen.Pascal(c.Name.String()), "column "+c.Name.String()); err != nil {
			return err
		}
	}
	for _, p := range r.WritableProps() {
		if err := sel.declare(ident(p.Name.String()), "property field "+p.Name.String()); err != nil {
			return err
		}
	}
	for _, p := range r.Props {
		name := gen.Pascal(p.Name.String())
		if err := sel.declare(name, "property "+p.Name.String()); err != nil {
			return err
		}
		if p.Readonly {
			continue
		}
		if err := sel.declare("Set"+name, "property setter "+p.Name.String()); err != nil {
			return err
		}
	}
	for _, c := range r.Constants {
		if err := pkg.declare(class+gen.Pascal(c.Name.String()), "constant "+c.Name.String()); err != nil {
			return err
		}
	}
	for _, fn := range r.RegularMethods() {
		src := "method " + fn.Name.String()
		params := newScope("parameter")
		if fn.Kind == gen.MethodInstance {
			if err := sel.declare(gen.Pascal(fn.Name.String()), src); err != nil {
				return err
			}
			params = newScope("parameter", recv, "receiver "+recv)
		} else if err := pkg.declare(class+gen.Pascal(fn.Name.String()), src); err != nil {
			return err
		}
		if err := declareParams(params, fn.Signature(), src); err != nil {
			return err
		}
	}
	if fn := r.Constructor(); fn != nil {
		return declareParams(newScope("parameter", "v", "constructor local v"), fn.Signature(), "constructor "+fn.Name.String())
	}
	params := newScope("parameter")
	for _, c := range r.Columns {
		if err := params.declare(ident(c.Name.String()), "constructor New"+class+" column "+c.Name.String()); err != nil {
			return err
		}
	}
	for _, p := range r.WritableProps() {
		if err := params.declare(ident(p.Name.String()), "constructor New"+class+" property "+p.Name.String()); err != nil {
			return err
		}
	}
	return nil
}

func declareParams(s *scope, params []*gen.Parameter, src string) error {
	for _, p := range params {
		if err := s.declare(ident(p.Name.String()), src+" parameter "+p.Name.String()); err != nil {
			return err
		}
	}
	return nil
}
