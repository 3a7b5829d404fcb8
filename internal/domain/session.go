package domain

import "time"

// LoadState is the catalog load state of a view session.
type LoadState string

const (
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateError   LoadState = "error"
)

// Terminal reports whether the state can no longer change without a reload.
func (s LoadState) Terminal() bool {
	return s == StateReady || s == StateError
}

// Session is the view state of one mounted storefront page.
type Session struct {
	ID        string        `json:"id"`
	State     LoadState     `json:"state"`
	Products  []ViewProduct `json:"products"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSession returns a session in the loading state.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateLoading,
		Products:  []ViewProduct{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Ready commits a successful load.
func (s *Session) Ready(products []ViewProduct, now time.Time) {
	s.State = StateReady
	s.Products = products
	s.Error = ""
	s.UpdatedAt = now
}

// Fail commits a failed load. Any previously loaded products are dropped.
func (s *Session) Fail(err error, now time.Time) {
	s.State = StateError
	s.Products = []ViewProduct{}
	s.Error = err.Error()
	s.UpdatedAt = now
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	out := *s
	out.Products = cloneAll(s.Products)
	return &out
}
