package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/dbmodel/compiler/load"
)

// MemberKind tags the variants of Member.
type MemberKind uint8

// Member kinds.
const (
	MemberConstant MemberKind = iota + 1
	MemberProperty
	MemberMethod
	MemberParameter
)

// String returns the member kind name.
func (k MemberKind) String() string {
	switch k {
	case MemberConstant:
		return "constant"
	case MemberProperty:
		return "property"
	case MemberMethod:
		return "method"
	case MemberParameter:
		return "parameter"
	default:
		return "member"
	}
}

// Member is the common surface of the ORM object members.
type Member interface {
	MemberKind() MemberKind
	MemberName() string
	Describe(Verbosity) string
}

// MethodType classifies how a method is bound.
type MethodType uint8

// Method types. The zero value is an instance method.
const (
	MethodInstance MethodType = iota
	MethodStatic
	MethodClass
)

// ParseMethodType parses the "methodtype" attribute. An empty string
// yields MethodInstance.
func ParseMethodType(s string) (MethodType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "instance":
		return MethodInstance, nil
	case "static":
		return MethodStatic, nil
	case "class":
		return MethodClass, nil
	default:
		return 0, fmt.Errorf("unknown method type %q, expect static, class or instance", s)
	}
}

// String returns the method type name.
func (t MethodType) String() string {
	switch t {
	case MethodStatic:
		return "static"
	case MethodClass:
		return "class"
	default:
		return "instance"
	}
}

// Constant is a class level constant. A constant without a default renders
// as the none value of the target language.
type Constant struct {
	Name    Value
	Type    Value
	Desc    Value
	Title   Value
	Default Value
}

// NewConstant creates a Constant from its loaded definition.
func NewConstant(c *load.Constant) (*Constant, error) {
	var (
		m   = &Constant{}
		err error
	)
	if m.Name, err = NewName(c.Name); err != nil {
		return nil, withField(err, "", c.Name)
	}
	if m.Type, err = NewTypeName(c.Type); err != nil {
		return nil, withField(err, "", c.Name+".type_")
	}
	if m.Desc, err = optional(KindDescription, c.Desc); err != nil {
		return nil, withField(err, "", c.Name+".desc")
	}
	if m.Title, err = optional(KindTitle, c.Title); err != nil {
		return nil, withField(err, "", c.Name+".title")
	}
	if m.Default, err = optional(KindDefault, c.Default); err != nil {
		return nil, withField(err, "", c.Name+".default")
	}
	return m, nil
}

func (c *Constant) MemberKind() MemberKind { return MemberConstant }
func (c *Constant) MemberName() string     { return c.Name.String() }

// Property is an accessor of the ORM object. Without a default, the getter
// signals that it is not implemented.
type Property struct {
	Name     Value
	Type     Value
	Desc     Value
	Title    Value
	Default  Value
	Readonly bool
}

// NewProperty creates a Property from its loaded definition.
func NewProperty(p *load.Property) (*Property, error) {
	var (
		m   = &Property{Readonly: p.Readonly}
		err error
	)
	if m.Name, err = NewName(p.Name); err != nil {
		return nil, withField(err, "", p.Name)
	}
	if m.Type, err = NewTypeName(p.Type); err != nil {
		return nil, withField(err, "", p.Name+".type_")
	}
	if m.Desc, err = optional(KindDescription, p.Desc); err != nil {
		return nil, withField(err, "", p.Name+".desc")
	}
	if m.Title, err = optional(KindTitle, p.Title); err != nil {
		return nil, withField(err, "", p.Name+".title")
	}
	if m.Default, err = optional(KindDefault, p.Default); err != nil {
		return nil, withField(err, "", p.Name+".default")
	}
	return m, nil
}

func (p *Property) MemberKind() MemberKind { return MemberProperty }
func (p *Property) MemberName() string     { return p.Name.String() }

// Parameter is a method parameter. A parameter with a default is a keyword
// parameter, otherwise it is a required positional one.
type Parameter struct {
	Name    Value
	Type    Value
	Desc    Value
	Default Value
}

// NewParameter creates a Parameter from its loaded definition.
func NewParameter(p *load.Parameter) (*Parameter, error) {
	var (
		m   = &Parameter{}
		err error
	)
	if m.Name, err = NewName(p.Name); err != nil {
		return nil, withField(err, "", p.Name)
	}
	if m.Type, err = NewTypeName(p.Type); err != nil {
		return nil, withField(err, "", p.Name+".type_")
	}
	if m.Desc, err = optional(KindDescription, p.Desc); err != nil {
		return nil, withField(err, "", p.Name+".desc")
	}
	if m.Default, err = optional(KindDefault, p.Default); err != nil {
		return nil, withField(err, "", p.Name+".default")
	}
	return m, nil
}

func (p *Parameter) MemberKind() MemberKind { return MemberParameter }
func (p *Parameter) MemberName() string     { return p.Name.String() }

// Keyword reports whether the parameter has a default value.
func (p *Parameter) Keyword() bool { return !p.Default.IsZero() }

// Method is a method of the ORM object. A method without a default return
// value renders a body that signals it is not implemented.
type Method struct {
	Name        Value
	Type        Value // return type
	Desc        Value
	Title       Value
	Kind        MethodType
	Params      []*Parameter
	Default     Value
	Constructor bool
}

// NewMethod creates a Method and its parameters from the loaded definition.
func NewMethod(m *load.Method) (*Method, error) {
	var (
		fn  = &Method{Constructor: m.FlagConstructor}
		err error
	)
	if fn.Name, err = NewName(m.Name); err != nil {
		return nil, withField(err, "", m.Name)
	}
	if fn.Type, err = NewTypeName(m.Type); err != nil {
		return nil, withField(err, "", m.Name+".type_")
	}
	if fn.Desc, err = optional(KindDescription, m.Desc); err != nil {
		return nil, withField(err, "", m.Name+".desc")
	}
	if fn.Title, err = optional(KindTitle, m.Title); err != nil {
		return nil, withField(err, "", m.Name+".title")
	}
	if fn.Default, err = optional(KindDefault, m.Default); err != nil {
		return nil, withField(err, "", m.Name+".default")
	}
	if fn.Kind, err = ParseMethodType(m.MethodType); err != nil {
		return nil, &ValueError{Kind: KindName, Field: m.Name + ".methodtype", Value: m.MethodType, Message: err.Error()}
	}
	for _, p := range m.Params {
		param, err := NewParameter(p)
		if err != nil {
			return nil, withField(err, "", m.Name)
		}
		fn.Params = append(fn.Params, param)
	}
	return fn, nil
}

func (m *Method) MemberKind() MemberKind { return MemberMethod }
func (m *Method) MemberName() string     { return m.Name.String() }

// Signature returns the parameters in render order: positional parameters
// first, then keyword parameters, each group in declaration order.
func (m *Method) Signature() []*Parameter {
	params := make([]*Parameter, 0, len(m.Params))
	for _, p := range m.Params {
		if !p.Keyword() {
			params = append(params, p)
		}
	}
	for _, p := range m.Params {
		if p.Keyword() {
			params = append(params, p)
		}
	}
	return params
}

// Implemented reports whether the method has a default return value.
func (m *Method) Implemented() bool { return !m.Default.IsZero() }
