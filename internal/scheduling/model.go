package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Doctor and Patient are external identity records. The scheduling core only
// needs them for existence checks and display; account management lives
// elsewhere.

type Doctor struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
