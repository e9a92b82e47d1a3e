package model

import (
	"time"

	"github.com/google/uuid"
)

// Socio is the member identity referenced by the ledger. Master data lives in
// the back-office CRUD; the core only reads the Activo flag when selecting
// members for charge generation.
type Socio struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Email     *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
