package staff

import (
	"errors"
	"time"

	"vairanya/internal/session"
)

var (
	ErrNotFound  = errors.New("staff member not found")
	ErrDuplicate = errors.New("user is already a staff member")
)

// Member is a row in the staff directory. SubjectID ties the entry to the
// identity the authenticator issues tokens for; a user absent from this table
// is a plain customer no matter what their token says.
type Member struct {
	ID          int64        `json:"id"`
	SubjectID   string       `json:"subject_id"`
	DisplayName string       `json:"display_name"`
	Role        session.Role `json:"role"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
