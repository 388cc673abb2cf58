package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Raw unique-violation markers per dialect. gorm translates these into
// ErrDuplicatedKey for some drivers but not all, so the messages are
// matched as a fallback.
// postgres 23505, mysql 1062, sqlite 2067
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique constraint
// violation on any supported dialect.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
