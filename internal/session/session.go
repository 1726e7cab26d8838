package session

import (
	"context"
	"errors"

	"github.com/bobarin/echoverse/internal/models"
	"github.com/google/uuid"
)

// ErrInvalidID is returned for session ids that were not issued by NewID.
var ErrInvalidID = errors.New("invalid session id")

// Store keeps each session's narration history for the life of the session.
// Histories are only reachable through their own session id.
type Store interface {
	// Load returns the session's history. Unknown sessions have an empty history.
	Load(ctx context.Context, id string) (models.History, error)
	// Append adds one narration to the end of the session's history.
	Append(ctx context.Context, id string, n *models.Narration) error
}

// NewID issues a fresh, unguessable session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the shape NewID produces.
func ValidID(id string) bool {
	parsed, err := uuid.Parse(id)
	return err == nil && parsed.Version() == 4 && parsed.String() == id
}
