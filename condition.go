package tofu

import (
	"reflect"
	"strings"
)

// Cond is one field/lookup/value filter leaf.
type Cond struct {
	Field  string
	Lookup Lookup
	Value  any
}

func (Cond) exprNode() {}

// C builds a leaf condition for use with And, Or, and Not.
//
// Example:
//
//	q.WhereOr(
//	    tofu.C("name", tofu.Contains, "alice"),
//	    tofu.C("email", tofu.Contains, "alice"),
//	)
func C(field string, lookup Lookup, value any) Cond {
	return Cond{Field: field, Lookup: lookup, Value: value}
}

// Var references a query variable declared out of band by the caller.
// It renders as $name without being bound, after the name passes identifier
// validation. Use it to share one variable across several conditions or to
// reference variables supplied at execution time.
type Var string

// renderCond renders one condition into a SurrealQL fragment, binding
// values through b. Field names are concatenated (the query language cannot
// parameterize identifiers), so they are validated first.
func renderCond(c Cond, b *binder) (string, error) {
	if err := validateIdent(c.Field); err != nil {
		return "", newFieldError(c.Field, err)
	}

	if sub, ok := c.Value.(*Subquery); ok {
		return renderSubqueryCond(c, sub, b)
	}

	switch c.Lookup {
	case IsNull:
		want, ok := c.Value.(bool)
		if !ok {
			return "", newValueError(IsNull, "a boolean value")
		}
		if want {
			return c.Field + " IS NULL", nil
		}
		return c.Field + " IS NOT NULL", nil

	case StartsWith:
		return "string::starts_with(" + c.Field + ", $" + b.next(c.Value) + ")", nil

	case IStartsWith:
		return "string::starts_with(string::lowercase(" + c.Field + "), $" + b.next(lowered(c.Value)) + ")", nil

	case EndsWith:
		return "string::ends_with(" + c.Field + ", $" + b.next(c.Value) + ")", nil

	case IEndsWith:
		return "string::ends_with(string::lowercase(" + c.Field + "), $" + b.next(lowered(c.Value)) + ")", nil

	case Like, ILike:
		pattern, ok := c.Value.(string)
		if !ok {
			return "", newValueError(c.Lookup, "a string pattern")
		}
		re := likeToRegex(pattern)
		if c.Lookup == ILike {
			re = "(?i)" + re
		}
		return "string::matches(" + c.Field + ", $" + b.next(re) + ")", nil

	case IContains:
		return "string::contains(string::lowercase(" + c.Field + "), $" + b.next(lowered(c.Value)) + ")", nil

	case Regex, IRegex:
		pattern, ok := c.Value.(string)
		if !ok {
			return "", newValueError(c.Lookup, "a string pattern")
		}
		if c.Lookup == IRegex {
			pattern = "(?i)" + pattern
		}
		return "string::matches(" + c.Field + ", $" + b.next(pattern) + ")", nil

	case Match:
		return c.Field + " @@ $" + b.next(c.Value), nil
	}

	op, ok := lookupOperators[c.Lookup]
	if !ok {
		return "", newLookupError(c.Lookup)
	}

	if v, ok := c.Value.(Var); ok {
		if err := validateIdent(string(v)); err != nil {
			return "", newIdentifierError(string(v))
		}
		return c.Field + " " + op + " $" + string(v), nil
	}

	if collectionLookups[c.Lookup] && !isSequence(c.Value) {
		return "", newValueError(c.Lookup, "a list value")
	}

	return c.Field + " " + op + " $" + b.next(c.Value), nil
}

// renderSubqueryCond renders a condition whose value is an inline sub-select.
// Collection lookups compare against the sub-select directly; everything
// else goes through array::first to extract a scalar from the result array.
func renderSubqueryCond(c Cond, sub *Subquery, b *binder) (string, error) {
	op, ok := lookupOperators[c.Lookup]
	if !ok {
		if functionLookups[c.Lookup] {
			return "", newValueError(c.Lookup, "a plain value, not a subquery")
		}
		return "", newLookupError(c.Lookup)
	}

	inner, err := sub.render(b)
	if err != nil {
		return "", err
	}

	if collectionLookups[c.Lookup] {
		return c.Field + " " + op + " " + inner, nil
	}
	return c.Field + " " + op + " array::first(" + inner + ")", nil
}

// lowered lower-cases string values for the case-insensitive lookups.
// Non-string values pass through untouched.
func lowered(value any) any {
	if s, ok := value.(string); ok {
		return strings.ToLower(s)
	}
	return value
}

// isSequence reports whether value is a slice or array suitable for a
// collection lookup. Strings and byte slices do not qualify.
func isSequence(value any) bool {
	if value == nil {
		return false
	}
	if _, ok := value.([]byte); ok {
		return false
	}
	k := reflect.TypeOf(value).Kind()
	return k == reflect.Slice || k == reflect.Array
}
