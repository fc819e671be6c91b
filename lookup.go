package tofu

import (
	"regexp"
	"strings"
)

// Lookup identifies the comparison or matching strategy applied to one
// condition. The set is closed: passing a Lookup value outside the constants
// below is a compile error, never a silent fallback.
type Lookup string

// Comparison lookups.
const (
	Exact Lookup = "exact"
	GT    Lookup = "gt"
	GTE   Lookup = "gte"
	LT    Lookup = "lt"
	LTE   Lookup = "lte"
)

// Collection lookups. Values must be slices or arrays (not strings).
const (
	In          Lookup = "in"
	NotIn       Lookup = "not_in"
	ContainsAll Lookup = "containsall"
	ContainsAny Lookup = "containsany"
)

// Containment lookups.
const (
	Contains    Lookup = "contains"
	NotContains Lookup = "not_contains"
	IContains   Lookup = "icontains"
)

// String-matching lookups. These render through SurrealQL string functions
// rather than infix operators.
const (
	Like        Lookup = "like"
	ILike       Lookup = "ilike"
	StartsWith  Lookup = "startswith"
	IStartsWith Lookup = "istartswith"
	EndsWith    Lookup = "endswith"
	IEndsWith   Lookup = "iendswith"
	Regex       Lookup = "regex"
	IRegex      Lookup = "iregex"
)

// Full-text match and null-test lookups.
const (
	Match  Lookup = "match"
	IsNull Lookup = "isnull"
)

// lookupOperators maps infix lookups to their SurrealQL operator.
// Function-based lookups (startswith, like, regex, ...) are rendered in
// renderCond and must not appear here.
var lookupOperators = map[Lookup]string{
	Exact:       "=",
	GT:          ">",
	GTE:         ">=",
	LT:          "<",
	LTE:         "<=",
	In:          "IN",
	NotIn:       "NOT IN",
	Contains:    "CONTAINS",
	NotContains: "CONTAINSNOT",
	ContainsAll: "CONTAINSALL",
	ContainsAny: "CONTAINSANY",
}

// functionLookups render through SurrealQL function calls or special
// syntax instead of the infix operator table.
var functionLookups = map[Lookup]bool{
	Like:        true,
	ILike:       true,
	StartsWith:  true,
	IStartsWith: true,
	EndsWith:    true,
	IEndsWith:   true,
	IContains:   true,
	Regex:       true,
	IRegex:      true,
	Match:       true,
	IsNull:      true,
}

// knownLookup reports whether l belongs to the closed lookup set.
func knownLookup(l Lookup) bool {
	_, ok := lookupOperators[l]
	return ok || functionLookups[l]
}

// collectionLookups require a list-valued operand bound as one variable.
var collectionLookups = map[Lookup]bool{
	In:          true,
	NotIn:       true,
	ContainsAll: true,
	ContainsAny: true,
}

// directionMap translates string directions to SurrealQL directions.
var directionMap = map[string]string{
	"asc":  "ASC",
	"desc": "DESC",
}

// validateDirection converts a string direction to its SurrealQL form.
func validateDirection(dir string) (string, error) {
	d, ok := directionMap[strings.ToLower(dir)]
	if !ok {
		return "", newDirectionError(dir)
	}
	return d, nil
}

// identRe matches names that are safe to concatenate into query text.
// SurrealQL cannot parameterize identifiers, so everything that is not a
// bound variable must pass this before any string is built.
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateIdent checks a field, table, or fetch-target name.
func validateIdent(name string) error {
	if !identRe.MatchString(name) {
		return newIdentifierError(name)
	}
	return nil
}

// likeToRegex translates a SQL LIKE pattern into an anchored regex:
// % becomes .*, _ becomes ., and every other regex metacharacter is escaped.
func likeToRegex(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteByte('.')
		case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('$')
	return b.String()
}
