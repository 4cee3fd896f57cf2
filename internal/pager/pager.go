// Package pager provides stable pagination and role filtering over
// collection snapshots for the admin views.
package pager

import "github.com/Shivanand-hulikatti/ticketdesk/internal/model"

const (
	// DefaultPageSize matches the admin dashboard's page length.
	DefaultPageSize = 50
	// MaxPageSize caps caller-supplied page sizes.
	MaxPageSize = 1000
)

// Page is one window of a collection.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the page-th window of items. Pages are 1-based; a page
// past the end yields an empty, non-nil Items slice. pageSize is clamped to
// [1, MaxPageSize].
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)
	if page < 1 {
		page = 1
	}

	total := len(items)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	p := Page[T]{
		Items:      []T{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
	if page > totalPages {
		return p
	}

	// page <= totalPages keeps start below total.
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	p.Items = make([]T, end-start)
	copy(p.Items, items[start:end])
	return p
}

// FilterByRole keeps users whose role equals role. RoleAll and the empty
// role keep everything.
func FilterByRole(users []*model.User, role model.Role) []*model.User {
	if role == model.RoleAll || role == "" {
		return users
	}
	out := make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

// Query is the admin view state: an active role filter and a page cursor.
type Query struct {
	Role     model.Role
	Page     int
	PageSize int
}

// NewQuery starts at page 1 with no filter.
func NewQuery() Query {
	return Query{Role: model.RoleAll, Page: 1, PageSize: DefaultPageSize}
}

// WithFilter switches the role filter. A changed filter resets to page 1.
func (q Query) WithFilter(role model.Role) Query {
	if role == "" {
		role = model.RoleAll
	}
	if role != q.Role {
		q.Page = 1
	}
	q.Role = role
	return q
}

// WithPage moves the cursor.
func (q Query) WithPage(page int) Query {
	q.Page = page
	return q
}

// Users applies q to a user snapshot.
func (q Query) Users(users []*model.User) Page[*model.User] {
	return Paginate(FilterByRole(users, q.Role), q.PageSize, q.Page)
}
