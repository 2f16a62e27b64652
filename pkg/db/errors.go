package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintName is provided, the helper looks for
// the constraint name in the error message. The sqlite message shape is also
// recognized so test databases behave like Postgres: sqlite reports the index
// name for partial indexes but table.column for plain unique indexes, so the
// column derived from the conventional <table>_<column>_key name is matched
// as a fallback.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	unique := strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if constraintName == "" {
		return unique
	}
	if unique && strings.Contains(msg, constraintName) {
		return true
	}
	if strings.Contains(msg, "UNIQUE constraint failed") {
		column := strings.TrimSuffix(constraintName, "_key")
		if i := strings.Index(column, "_"); i > 0 {
			if strings.Contains(msg, "."+column[i+1:]) {
				return true
			}
		}
	}
	return false
}
