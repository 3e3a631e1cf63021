// Package listquery implements the pagination/filter/count contract shared
// by every list endpoint: parse (page, per_page) with safe defaults, run the
// filtered read plus a count of the same set, return rows and a page count.
package listquery

import (
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Params holds normalized pagination parameters
type Params struct {
	Page    int
	PerPage int
}

// ParseParams reads page/per_page from query values. Absent or malformed
// values fall back to (1, 10); page is clamped to >= 1 so the offset can
// never go negative, per_page is capped at MaxPerPage.
func ParseParams(q url.Values) Params {
	p := Params{Page: 1, PerPage: DefaultPerPage}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("per_page")); err == nil && v >= 1 {
		p.PerPage = v
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// Offset returns the row offset for the current page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of a filtered listing
type Page[T any] struct {
	Rows      []T
	PageCount int
}

// Find runs the count + paginated read against an already-filtered query.
// The count is taken from the same filtered set as the rows, and PageCount
// is ceil(total/per_page); an empty set yields PageCount 0 and Rows [].
func Find[T any](tx *gorm.DB, p Params, order string) (Page[T], error) {
	page := Page[T]{Rows: []T{}}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return page, err
	}
	if total == 0 {
		return page, nil
	}

	q := tx.Session(&gorm.Session{})
	if order != "" {
		q = q.Order(order)
	}
	if err := q.Offset(p.Offset()).Limit(p.PerPage).Find(&page.Rows).Error; err != nil {
		return page, err
	}

	page.PageCount = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return page, nil
}

// ILike adds a case-insensitive contains filter on column when term is
// non-empty. LOWER/LIKE is used instead of ILIKE so the same query runs on
// both Postgres and the SQLite test database.
func ILike(tx *gorm.DB, column, term string) *gorm.DB {
	if term == "" {
		return tx
	}
	return tx.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
}
