package repository

import (
	"strings"

	"gorm.io/gorm"
)

// conn returns tx when the caller runs inside a transaction, otherwise db
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

// likePattern builds a lower-cased substring pattern for LOWER(col) LIKE ?
func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// paginate applies 1-based page/perPage; non-positive values disable paging
func paginate(q *gorm.DB, page, perPage int) *gorm.DB {
	if perPage <= 0 {
		return q
	}
	if page < 1 {
		page = 1
	}
	return q.Offset((page - 1) * perPage).Limit(perPage)
}
