package analyze

import (
	"fmt"
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"animate-generator/internal/diagnostic"
	"animate-generator/internal/match"
)

// Annotation namespaces.
const (
	TagKey          = "animate"
	DirectivePrefix = "//animate:"

	DirectiveDerive = "derive"
	DirectiveError  = "error"

	AttrEqual = "equal"
)

var (
	fieldAttrKeys = []string{AttrEqual}
	directives    = []string{DirectiveDerive, DirectiveError}
)

// VariantAttrs is the variant-level attribute bag.
type VariantAttrs struct {
	// Error makes every combination involving this variant fail.
	Error bool `yaml:"error"`
}

// Merge returns the union of both bags: a key set in either is set.
func (a VariantAttrs) Merge(other VariantAttrs) VariantAttrs {
	return VariantAttrs{Error: a.Error || other.Error}
}

// FieldAttrs is the field-level attribute bag.
type FieldAttrs struct {
	// Equal requires both operands to hold equal values instead of
	// interpolating them.
	Equal bool `yaml:"equal"`
}

// Merge returns the union of both bags: a key set in either is set.
func (a FieldAttrs) Merge(other FieldAttrs) FieldAttrs {
	return FieldAttrs{Equal: a.Equal || other.Equal}
}

// AttrError reports a malformed annotation.
type AttrError struct {
	Code string
	Msg  string
}

func (e *AttrError) Error() string {
	return e.Msg
}

// ParseFieldTag parses the `animate:"..."` tag of a struct field. The value
// is a comma separated list of keys, each either bare ("equal") or with an
// explicit boolean ("equal=false").
func ParseFieldTag(tag reflect.StructTag) (FieldAttrs, error) {
	var attrs FieldAttrs

	value, ok := tag.Lookup(TagKey)
	if !ok {
		return attrs, nil
	}

	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		key, raw, hasValue := strings.Cut(item, "=")
		enabled := true

		if hasValue {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return attrs, &AttrError{
					Code: diagnostic.CodeInvalidAttribute,
					Msg:  fmt.Sprintf("attribute %q expects a boolean, got %q", key, raw),
				}
			}

			enabled = b
		}

		switch key {
		case AttrEqual:
			attrs.Equal = enabled
		default:
			return attrs, &AttrError{
				Code: diagnostic.CodeUnknownAttribute,
				Msg: fmt.Sprintf("unknown field attribute %q%s (allowed: %s)",
					key, match.Hint(key, fieldAttrKeys), strings.Join(fieldAttrKeys, ", ")),
			}
		}
	}

	return attrs, nil
}

// Directives lists the animate directives found in a doc comment.
func Directives(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	var out []string

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}

		name, _, _ := strings.Cut(rest, " ")
		out = append(out, strings.TrimSpace(name))
	}

	return out
}

// typeDirectives is the parsed directive set of one type declaration.
type typeDirectives struct {
	derive bool
	attrs  VariantAttrs
}

func parseDirectives(doc *ast.CommentGroup) (typeDirectives, error) {
	var td typeDirectives

	for _, name := range Directives(doc) {
		switch name {
		case DirectiveDerive:
			td.derive = true
		case DirectiveError:
			td.attrs.Error = true
		default:
			return td, &AttrError{
				Code: diagnostic.CodeUnknownDirective,
				Msg: fmt.Sprintf("unknown directive %q%s (allowed: %s)",
					DirectivePrefix+name, match.Hint(name, directives), strings.Join(directives, ", ")),
			}
		}
	}

	return td, nil
}
