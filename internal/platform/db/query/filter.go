package query

import (
	"strconv"
	"strings"
)

// Filter accumulates positional WHERE clauses. Each clause uses a single "?"
// placeholder that is rewritten to the next $n.
type Filter struct {
	clauses []string
	args    []any
}

func (f *Filter) Add(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, strings.Replace(clause, "?", "$"+strconv.Itoa(len(f.args)), 1))
}

// AddAny attaches the same argument to every "?" in clause.
func (f *Filter) AddAny(clause string, arg any) {
	f.args = append(f.args, arg)
	f.clauses = append(f.clauses, strings.ReplaceAll(clause, "?", "$"+strconv.Itoa(len(f.args))))
}

func (f *Filter) Where() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.clauses, " AND ")
}

func (f *Filter) Args() []any {
	return f.args
}

// Page returns the LIMIT/OFFSET suffix and the arguments including them.
func (f *Filter) Page(limit, offset int) (string, []any) {
	args := append(append([]any{}, f.args...), limit, offset)
	n := len(args)
	return " LIMIT $" + strconv.Itoa(n-1) + " OFFSET $" + strconv.Itoa(n), args
}
