// Package session defines storage for storefront view sessions.
package session

import (
	"context"

	"github.com/keremustuner/Case-Study/internal/domain"
)

// Store defines the persistence operations for view sessions. Implementations
// expire sessions that have not been read or saved within their TTL.
type Store interface {
	// Get retrieves a session by ID and extends its lifetime.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save stores a session, overwriting any existing one with the same ID.
	Save(ctx context.Context, s *domain.Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error
}

// Sweeper is implemented by stores that must evict expired sessions
// themselves.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}
