package query

import "github.com/tdoa-platform/core/internal/database"

// Facade is the typed read surface other subsystems use instead of
// reaching into internal/database directly.
type Facade struct {
	db *database.DB
}

// New wraps an open database.DB.
func New(db *database.DB) *Facade {
	return &Facade{db: db}
}
