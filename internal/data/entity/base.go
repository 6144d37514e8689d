package entity

import (
	"time"

	"github.com/google/uuid"
)

// Model carries the identity and timestamps of mutable rows.
type Model struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// NewModel returns a fresh id stamped at now.
func NewModel(now time.Time) Model {
	return Model{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Immutable rows are written once and never updated.
type Immutable struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}

func NewImmutable(now time.Time) Immutable {
	return Immutable{ID: uuid.New(), CreatedAt: now}
}
