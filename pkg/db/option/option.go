// Package option provides composable query options for gorm statements.
package option

import "gorm.io/gorm"

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type optionFunc func(db *gorm.DB) *gorm.DB

func (f optionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// WithLimit caps the number of returned rows.
func WithLimit(limit int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Limit(limit)
	})
}

// WithOffset skips the first n rows.
func WithOffset(offset int) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset)
	})
}

// WithOrder appends an ORDER BY clause.
func WithOrder(order string) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Order(order)
	})
}

// WithCondition appends an arbitrary WHERE clause.
func WithCondition(query any, args ...any) QueryOption {
	return optionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}
