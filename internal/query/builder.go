// Package query turns untrusted filter/sort input into safe, parameterized
// GORM scopes. Field names are resolved through a fixed allow-list and filter
// values are always bound parameters, never spliced into the query.
package query

import (
	"strings"

	"gorm.io/gorm"
)

// Params holds client-supplied filter and sort input from the query string.
// An absent filter means "no constraint on this field".
type Params struct {
	Name    string
	Email   string
	Address string
	Role    string
	SortBy  string
	Order   string // "asc" (default) or "desc"
}

// Builder applies an entity's filter/sort allow-list.
type Builder struct {
	fields      map[string]string // recognized field name -> column
	defaultSort string
}

// NewBuilder creates a builder whose allow-list is the given field names.
// Column names equal the field names for every current entity.
func NewBuilder(defaultSort string, fields ...string) *Builder {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f] = f
	}
	return &Builder{fields: m, defaultSort: defaultSort}
}

var (
	// Accounts filters and sorts account listings.
	Accounts = NewBuilder("name", "name", "email", "address", "role")
	// Stores filters and sorts store listings.
	Stores = NewBuilder("name", "name", "email", "address")
)

// Scope returns a GORM scope applying p. Name, email, and address filter as
// case-insensitive substring matches; role is exact. A sort field outside the
// allow-list falls back to the entity default, and results are always ordered
// by (field, id) so ties break reproducibly.
func (b *Builder) Scope(p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Name != "" {
			db = db.Where("LOWER(name) LIKE ?", contains(p.Name))
		}
		if p.Email != "" {
			db = db.Where("LOWER(email) LIKE ?", contains(p.Email))
		}
		if p.Address != "" {
			db = db.Where("LOWER(address) LIKE ?", contains(p.Address))
		}
		if p.Role != "" {
			if _, ok := b.fields["role"]; ok {
				db = db.Where("role = ?", p.Role)
			}
		}

		sortColumn := b.defaultSort
		if column, ok := b.fields[strings.ToLower(p.SortBy)]; ok {
			sortColumn = column
		}
		direction := "ASC"
		if strings.EqualFold(p.Order, "desc") {
			direction = "DESC"
		}
		return db.Order(sortColumn + " " + direction).Order("id ASC")
	}
}

func contains(value string) string {
	return "%" + strings.ToLower(value) + "%"
}
