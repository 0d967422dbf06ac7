// Package ssproject implements the single-source and multi-source
// projectors: logical specs that resolve name-to-position mappings
// against concrete schemas, producing bound projectors with stable
// attribute-flow (result schema + source-index arrays).
//
// The unbound specs are a closed tagged union: a small interface with
// an unexported marker method, dispatched via a Bind method on each
// variant, while the bound forms stay plain structs with no further
// extension points.
package ssproject

import (
	"fmt"
	"strings"

	"github.com/hugr-lab/supersonic/ssfail"
	"github.com/hugr-lab/supersonic/sschema"
)

// SingleSourceSpec is the unbound single-source projector: a logical
// description of how to derive a result schema, and route columns, from
// one input schema.
type SingleSourceSpec interface {
	// Bind resolves the spec against a concrete source schema,
	// producing a BoundSingleSourceProjector or a structural binding
	// failure (ATTRIBUTE_MISSING, ATTRIBUTE_COUNT_MISMATCH,
	// ATTRIBUTE_EXISTS).
	Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector]

	// String renders a verbose description of the spec, included in
	// binding-failure messages so a failure is self-locating within a
	// plan.
	String() string

	singleSourceSpecMarker()
}

// NamedAttribute resolves by name; fails with ATTRIBUTE_MISSING if absent
// from the source schema.
type NamedAttribute struct {
	Name string
}

func (NamedAttribute) singleSourceSpecMarker() {}

func (n NamedAttribute) String() string {
	return fmt.Sprintf("NamedAttribute(%q)", n.Name)
}

func (n NamedAttribute) Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector] {
	pos := source.LookupPosition(n.Name)
	if pos == sschema.NotFound {
		return ssfail.FailureOwnedf[*BoundSingleSourceProjector](ssfail.AttributeMissing,
			"%s: attribute not found in schema %s", n.String(), source.String())
	}
	result := sschema.NewTupleSchema()
	result.AddAttribute(source.Attribute(pos))
	return ssfail.SuccessOwned(&BoundSingleSourceProjector{
		source: source,
		result: result,
		proj:   []int{pos},
	})
}

// PositionedAttribute resolves by index; fails with
// ATTRIBUTE_COUNT_MISMATCH if out of range.
type PositionedAttribute struct {
	Position int
}

func (PositionedAttribute) singleSourceSpecMarker() {}

func (p PositionedAttribute) String() string {
	return fmt.Sprintf("PositionedAttribute(%d)", p.Position)
}

func (p PositionedAttribute) Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector] {
	if p.Position < 0 || p.Position >= source.AttributeCount() {
		return ssfail.FailureOwnedf[*BoundSingleSourceProjector](ssfail.AttributeCountMismatch,
			"%s: position out of range for schema %s (width %d)", p.String(), source.String(), source.AttributeCount())
	}
	result := sschema.NewTupleSchema()
	result.AddAttribute(source.Attribute(p.Position))
	return ssfail.SuccessOwned(&BoundSingleSourceProjector{
		source: source,
		result: result,
		proj:   []int{p.Position},
	})
}

// AllAttributes adds every input attribute, optionally name-prefixed. An
// empty Prefix is an identity projector.
type AllAttributes struct {
	Prefix string
}

func (AllAttributes) singleSourceSpecMarker() {}

func (a AllAttributes) String() string {
	if a.Prefix == "" {
		return "AllAttributes()"
	}
	return fmt.Sprintf("AllAttributes(prefix=%q)", a.Prefix)
}

func (a AllAttributes) Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector] {
	result := sschema.NewTupleSchema()
	proj := make([]int, 0, source.AttributeCount())
	for i := 0; i < source.AttributeCount(); i++ {
		attr := source.Attribute(i)
		attr.Name = a.Prefix + attr.Name
		if !result.AddAttribute(attr) {
			return ssfail.FailureOwnedf[*BoundSingleSourceProjector](ssfail.AttributeExists,
				"%s: prefixed name %q collides with another attribute", a.String(), attr.Name)
		}
		proj = append(proj, i)
	}
	return ssfail.SuccessOwned(&BoundSingleSourceProjector{
		source: source,
		result: result,
		proj:   proj,
	})
}

// Compound concatenates its children's bound results in order; fails with
// ATTRIBUTE_EXISTS on a duplicate result name.
type Compound struct {
	Children []SingleSourceSpec
}

func (Compound) singleSourceSpecMarker() {}

func (c Compound) String() string {
	parts := make([]string, len(c.Children))
	for i, ch := range c.Children {
		parts[i] = ch.String()
	}
	return "Compound(" + strings.Join(parts, ", ") + ")"
}

func (c Compound) Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector] {
	result := sschema.NewTupleSchema()
	var proj []int
	for _, child := range c.Children {
		childBoundF := child.Bind(source)
		childBound, err := childBoundF.Take()
		if err != nil {
			return ssfail.FailureOwned[*BoundSingleSourceProjector](ssfail.Wrap(err, c.String()))
		}
		for i := 0; i < childBound.result.AttributeCount(); i++ {
			attr := childBound.result.Attribute(i)
			if !result.AddAttribute(attr) {
				return ssfail.FailureOwnedf[*BoundSingleSourceProjector](ssfail.AttributeExists,
					"%s: duplicate result attribute %q", c.String(), attr.Name)
			}
			proj = append(proj, childBound.proj[i])
		}
	}
	return ssfail.SuccessOwned(&BoundSingleSourceProjector{
		source: source,
		result: result,
		proj:   proj,
	})
}

// Renaming binds Child, then replaces its result names with Aliases.
// Fails with ATTRIBUTE_COUNT_MISMATCH if len(Aliases) != the child's
// result attribute count. Aliases must be internally unique; violating
// that is a programming error (a precondition), not a runtime failure,
// and panics via ssfail.ContractViolation rather than returning a
// FailureOr.
type Renaming struct {
	Aliases []string
	Child   SingleSourceSpec
}

func (Renaming) singleSourceSpecMarker() {}

func (r Renaming) String() string {
	return fmt.Sprintf("Renaming(%s, %s)", strings.Join(r.Aliases, ","), r.Child.String())
}

func (r Renaming) Bind(source *sschema.TupleSchema) ssfail.FailureOrOwned[*BoundSingleSourceProjector] {
	seen := make(map[string]struct{}, len(r.Aliases))
	for _, alias := range r.Aliases {
		if _, dup := seen[alias]; dup {
			ssfail.PanicContractViolation("Renaming: duplicate alias %q (aliases must be internally unique)", alias)
		}
		seen[alias] = struct{}{}
	}

	childBoundF := r.Child.Bind(source)
	childBound, err := childBoundF.Take()
	if err != nil {
		return ssfail.FailureOwned[*BoundSingleSourceProjector](ssfail.Wrap(err, r.String()))
	}
	if len(r.Aliases) != childBound.result.AttributeCount() {
		return ssfail.FailureOwnedf[*BoundSingleSourceProjector](ssfail.AttributeCountMismatch,
			"%s: %d aliases for %d result attributes", r.String(), len(r.Aliases), childBound.result.AttributeCount())
	}

	result := sschema.NewTupleSchema()
	for i, alias := range r.Aliases {
		attr := childBound.result.Attribute(i)
		attr.Name = alias
		result.AddAttribute(attr)
	}
	return ssfail.SuccessOwned(&BoundSingleSourceProjector{
		source: source,
		result: result,
		proj:   append([]int(nil), childBound.proj...),
	})
}
