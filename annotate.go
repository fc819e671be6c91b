package tofu

import (
	"strconv"
	"strings"
)

// Annotation is a computed column attached to a query with Annotate.
// Implementations render themselves as "expr AS alias" fragments.
type Annotation interface {
	renderColumn(alias string, b *binder) (string, error)
}

// aggregation is a grouped-query reduction such as count() or math::sum.
type aggregation struct {
	fn    string
	field string
}

func (a aggregation) renderColumn(alias string, _ *binder) (string, error) {
	if a.field == "" {
		return a.fn + "() AS " + alias, nil
	}
	if err := validateIdent(a.field); err != nil {
		return "", newFieldError(a.field, err)
	}
	return a.fn + "(" + a.field + ") AS " + alias, nil
}

// Count counts rows per group.
func Count() Annotation { return aggregation{fn: "count"} }

// Sum sums field per group.
func Sum(field string) Annotation { return aggregation{fn: "math::sum", field: field} }

// Avg averages field per group.
func Avg(field string) Annotation { return aggregation{fn: "math::mean", field: field} }

// Min takes the minimum of field per group.
func Min(field string) Annotation { return aggregation{fn: "math::min", field: field} }

// Max takes the maximum of field per group.
func Max(field string) Annotation { return aggregation{fn: "math::max", field: field} }

// searchScore projects the relevance score of a full-text match clause.
type searchScore struct {
	ref int
}

func (s searchScore) renderColumn(alias string, _ *binder) (string, error) {
	return "search::score(" + strconv.Itoa(s.ref) + ") AS " + alias, nil
}

// SearchScore projects the relevance score of the full-text match clause
// with the given reference number. References are assigned in the order
// Search was called, starting at 0.
func SearchScore(ref int) Annotation { return searchScore{ref: ref} }

// searchHighlight projects the matched text of a full-text match clause
// wrapped in open/close markers.
type searchHighlight struct {
	open  string
	close string
	ref   int
}

func (s searchHighlight) renderColumn(alias string, _ *binder) (string, error) {
	return "search::highlight(" + quoteSurreal(s.open) + ", " + quoteSurreal(s.close) + ", " +
		strconv.Itoa(s.ref) + ") AS " + alias, nil
}

// SearchHighlight projects the matched text of the full-text match clause
// with the given reference number, wrapping each hit in the open and close
// markers.
func SearchHighlight(open, close string, ref int) Annotation {
	return searchHighlight{open: open, close: close, ref: ref}
}

// Point is a WGS84 coordinate pair.
type Point struct {
	Lon float64
	Lat float64
}

// surql renders the point as an inline (lon, lat) tuple. Coordinates are
// plain numbers, so inlining them carries no injection risk.
func (p Point) surql() string {
	return "(" + strconv.FormatFloat(p.Lon, 'g', -1, 64) + ", " +
		strconv.FormatFloat(p.Lat, 'g', -1, 64) + ")"
}

// geoDistance projects the distance in meters between a geometry field and
// a fixed point.
type geoDistance struct {
	field string
	point Point
}

func (g geoDistance) renderColumn(alias string, _ *binder) (string, error) {
	if err := validateIdent(g.field); err != nil {
		return "", newFieldError(g.field, err)
	}
	return "geo::distance(" + g.field + ", " + g.point.surql() + ") AS " + alias, nil
}

// GeoDistance projects the distance in meters between the geometry field
// and point.
func GeoDistance(field string, point Point) Annotation {
	return geoDistance{field: field, point: point}
}

// quoteSurreal single-quotes a literal for inline use, escaping embedded
// quotes.
func quoteSurreal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
