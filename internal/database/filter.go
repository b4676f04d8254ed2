package database

import (
	"fmt"
	"strings"
)

// Filter accumulates parameterized WHERE clauses and a whitelisted
// order-by column so every query package builds SQL the same safe way:
// no caller-supplied string ever reaches the column-name position.
type Filter struct {
	clauses []string
	args    []any
	orderBy string
	desc    bool
	limit   int
	offset  int
}

// NewFilter starts an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Where appends a parameterized clause, e.g. Where("freq_hz >= ?", min).
func (f *Filter) Where(clause string, args ...any) *Filter {
	f.clauses = append(f.clauses, clause)
	f.args = append(f.args, args...)
	return f
}

// TimeRange restricts column to [r.Start, r.End], skipping either bound
// that is the zero time.
func (f *Filter) TimeRange(column string, r TimeRange) *Filter {
	if !r.Start.IsZero() {
		f.Where(fmt.Sprintf("%s >= ?", column), r.Start)
	}
	if !r.End.IsZero() {
		f.Where(fmt.Sprintf("%s <= ?", column), r.End)
	}
	return f
}

// OrderBy sets the sort column and sort direction. The column is not
// checked here; callers that take it from user input validate it against
// a whitelist first (signalSortColumns for signals).
func (f *Filter) OrderBy(column string, descending bool) *Filter {
	f.orderBy = column
	f.desc = descending
	return f
}

// Page sets LIMIT/OFFSET from a 0-based page number and page size.
func (f *Filter) Page(pageNumber, pageSize int) *Filter {
	if pageSize <= 0 {
		pageSize = 100
	}
	if pageNumber < 0 {
		pageNumber = 0
	}
	f.limit = pageSize
	f.offset = pageNumber * pageSize
	return f
}

// whereSQL renders "WHERE a AND b" or "" if there are no clauses.
func (f *Filter) whereSQL() string {
	if len(f.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(f.clauses, " AND ")
}

// buildQuery renders "<base> <where> [ORDER BY ...] [LIMIT ? OFFSET ?]"
// and returns the bound args in the correct order.
func (f *Filter) buildQuery(base string) (string, []any) {
	var b strings.Builder
	b.WriteString(base)
	if where := f.whereSQL(); where != "" {
		b.WriteString(" ")
		b.WriteString(where)
	}
	args := append([]any{}, f.args...)

	if f.orderBy != "" {
		dir := "ASC"
		if f.desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s", f.orderBy, dir)
	}
	if f.limit > 0 {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, f.limit, f.offset)
	}
	return b.String(), args
}

// buildCount renders "SELECT count(*) FROM (<base> <where>)" ignoring
// ordering and pagination.
func (f *Filter) buildCount(base string) (string, []any) {
	where := f.whereSQL()
	query := fmt.Sprintf("SELECT count(*) FROM (%s %s) AS t", base, where)
	return query, append([]any{}, f.args...)
}
