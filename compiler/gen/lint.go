package gen

import (
	"fmt"
	"strings"
)

// Issue is a non-fatal finding of Lint.
type Issue struct {
	Relation string
	Field    string
	Message  string
}

func (i *Issue) String() string {
	if i.Field != "" {
		return fmt.Sprintf("%s.%s: %s", i.Relation, i.Field, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Relation, i.Message)
}

// LintResult holds every error and warning of a registry.
type LintResult struct {
	Errors   []error
	Warnings []*Issue
}

// HasErrors returns true if there are any validation errors.
func (r *LintResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *LintResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the result.
func (r *LintResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.String())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found.\n")
	}
	return sb.String()
}

// Lint reports every problem of the registry instead of stopping at the
// first one. Relations failing the structural checks are not checked for
// references. Lint does not change the outcome recorded by Validate.
func (r *Registry) Lint() *LintResult {
	res := &LintResult{}
	var sound []*Relation
	for _, rel := range r.Relations() {
		if err := rel.CheckStructure(); err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		sound = append(sound, rel)
	}
	for _, rel := range sound {
		if err := rel.CheckReferences(r); err != nil {
			res.Errors = append(res.Errors, err)
			continue
		}
		res.Warnings = append(res.Warnings, r.warnings(rel)...)
	}
	return res
}

func (r *Registry) warnings(rel *Relation) []*Issue {
	var (
		issues []*Issue
		name   = rel.Name.String()
	)
	if rel.Title.IsZero() {
		issues = append(issues, &Issue{Relation: name, Field: "title", Message: "missing title"})
	}
	if rel.Desc.IsZero() {
		issues = append(issues, &Issue{Relation: name, Field: "desc", Message: "missing description"})
	}
	for _, c := range rel.ForeignKeys() {
		ref, col := c.Ref()
		t, _ := r.Table(ref)
		target, _ := t.Column(col)
		if !strings.EqualFold(c.Type.String(), target.Type.String()) {
			issues = append(issues, &Issue{
				Relation: name,
				Field:    c.Name.String(),
				Message:  fmt.Sprintf("type %s differs from referenced %s.%s type %s", c.Type, ref, col, target.Type),
			})
		}
	}
	for _, m := range rel.Methods {
		if m.Constructor && m.Kind != MethodInstance {
			issues = append(issues, &Issue{Relation: name, Field: m.Name.String(), Message: "constructor is not an instance method"})
		}
	}
	return issues
}
