package services

import (
	"context"
	"time"

	"maidmatch_backend/internal/models"

	"gorm.io/gorm"
)

// Actor is the caller of a mutating operation.
type Actor struct {
	ID   string
	Role models.UserRole
}

// SystemActor is used by internal callers such as scheduled jobs.
var SystemActor = Actor{ID: "system", Role: models.UserRoleSystem}

func (a Actor) IsAdmin() bool  { return a.Role == models.UserRoleAdmin }
func (a Actor) IsSystem() bool { return a.Role == models.UserRoleSystem }

// store bounds every unit of work by the configured query timeout.
type store struct {
	timeout time.Duration
}

func (s store) scoped(db *gorm.DB) (*gorm.DB, context.CancelFunc) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout <= 0 {
		return db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	return db.WithContext(ctx), cancel
}

// read runs fn against a timeout-scoped handle and translates its error.
func (s store) read(db *gorm.DB, fn func(db *gorm.DB) error) error {
	db, cancel := s.scoped(db)
	defer cancel()
	return translate(fn(db))
}

// transaction runs fn in a single all-or-nothing transaction.
func (s store) transaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	db, cancel := s.scoped(db)
	defer cancel()
	return translate(db.Transaction(fn))
}

func contextOf(db *gorm.DB) context.Context {
	if db.Statement != nil && db.Statement.Context != nil {
		return db.Statement.Context
	}
	return context.Background()
}

func now() time.Time {
	return time.Now().UTC()
}
