// ABOUTME: Builder for oslc.where filter expressions and oslc.select field lists
// ABOUTME: Produces the quoted predicate strings Maximo's OSLC query layer expects
package oslc

import (
	"fmt"
	"strings"
)

// Where accumulates predicates joined with "and".
type Where struct {
	terms []string
}

// NewWhere returns an empty filter.
func NewWhere() *Where {
	return &Where{}
}

// Eq appends `field="value"` for strings or `field=value` for raw values.
func (w *Where) Eq(field, value string) *Where {
	w.terms = append(w.terms, fmt.Sprintf("%s=%q", field, value))
	return w
}

// EqRaw appends an unquoted comparison, e.g. historyflag=0.
func (w *Where) EqRaw(field, value string) *Where {
	w.terms = append(w.terms, fmt.Sprintf("%s=%s", field, value))
	return w
}

// NotIn appends `field not in ("a","b")`.
func (w *Where) NotIn(field string, values ...string) *Where {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	w.terms = append(w.terms, fmt.Sprintf("%s not in (%s)", field, strings.Join(quoted, ",")))
	return w
}

// Gte appends `field>="value"`.
func (w *Where) Gte(field, value string) *Where {
	w.terms = append(w.terms, fmt.Sprintf("%s>=%q", field, value))
	return w
}

// Raw appends a predicate verbatim.
func (w *Where) Raw(expr string) *Where {
	w.terms = append(w.terms, expr)
	return w
}

// Empty reports whether no predicate has been added.
func (w *Where) Empty() bool {
	return len(w.terms) == 0
}

// String renders the filter as an oslc.where value.
func (w *Where) String() string {
	return strings.Join(w.terms, " and ")
}

// Select renders an oslc.select list. Nested collections use the
// `name{*}` selector form.
func Select(fields ...string) string {
	return strings.Join(fields, ",")
}

// Nested renders a nested-collection selector such as invbalances{*}.
func Nested(collection string) string {
	return collection + "{*}"
}
