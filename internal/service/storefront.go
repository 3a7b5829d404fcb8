package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/keremustuner/Case-Study/internal/catalog"
	"github.com/keremustuner/Case-Study/internal/domain"
	"github.com/keremustuner/Case-Study/internal/session"
	apperrors "github.com/keremustuner/Case-Study/pkg/errors"
	"github.com/keremustuner/Case-Study/pkg/logger"
)

const lockStripes = 64

// ErrShuttingDown is returned by Mount and Reload once Shutdown has begun.
var ErrShuttingDown = apperrors.ServiceUnavailable("storefront is shutting down")

type loader struct {
	cancel context.CancelFunc
}

// StorefrontService owns the lifecycle of view sessions: mounting, the
// background catalog load of each session, color selection and teardown.
type StorefrontService struct {
	store   session.Store
	catalog catalog.Fetcher
	policy  domain.ColorPolicy
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time

	// Serializes read-modify-write of one session. A loader commits while
	// holding its session's stripe, and Reload/Unmount cancel while holding
	// it, so a cancelled load can never commit.
	stripes [lockStripes]sync.Mutex

	mu      sync.Mutex
	loaders map[string]*loader
	closed  bool
	wg      sync.WaitGroup
}

// NewStorefrontService creates a new storefront service.
func NewStorefrontService(
	store session.Store,
	fetcher catalog.Fetcher,
	policy domain.ColorPolicy,
	metrics *Metrics,
	logger *slog.Logger,
) *StorefrontService {
	return &StorefrontService{
		store:   store,
		catalog: fetcher,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
		now:     func() time.Time { return time.Now().UTC() },
		loaders: make(map[string]*loader),
	}
}

func (s *StorefrontService) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &s.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

// Mount returns the session with the given ID, creating it and starting its
// catalog load if it does not exist. The second return value reports whether
// a new session was created.
func (s *StorefrontService) Mount(ctx context.Context, id string) (*domain.Session, bool, error) {
	if id == "" {
		return nil, false, apperrors.InvalidInput("session id is required")
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	switch {
	case err == nil:
		// A session left loading by a previous process has no loader here.
		if sess.State == domain.StateLoading && !s.loading(id) {
			if err := s.startLoad(ctx, id); err != nil {
				return nil, false, err
			}
		}
		return sess, false, nil
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, false, fmt.Errorf("mount session: %w", err)
	}

	sess = domain.NewSession(id, s.now())
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, false, fmt.Errorf("mount session: %w", err)
	}
	if err := s.startLoad(ctx, id); err != nil {
		return nil, false, err
	}
	s.metrics.mounts.Inc()

	s.logger.InfoContext(ctx, "view session mounted", slog.String("session_id", id))
	return sess, true, nil
}

// View returns the current snapshot of a mounted session.
func (s *StorefrontService) View(ctx context.Context, id string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("view session: %w", err)
	}
	return sess, nil
}

// SelectColor changes the selected color of one product in a ready session.
// productKey is the product name or its slug.
func (s *StorefrontService) SelectColor(ctx context.Context, id, productKey, color string) (*domain.Session, error) {
	c, err := domain.ParseColor(color)
	if err != nil {
		return nil, &apperrors.AppError{
			Code:    "INVALID_INPUT",
			Message: fmt.Sprintf("unknown color %q", color),
			Status:  http.StatusBadRequest,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, err),
		}
	}

	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("select color: %w", err)
	}
	if sess.State != domain.StateReady {
		return nil, apperrors.Unprocessable(fmt.Sprintf("catalog is %s", sess.State))
	}

	name, ok := domain.ResolveName(sess.Products, productKey)
	if !ok {
		return nil, &apperrors.AppError{
			Code:    "NOT_FOUND",
			Message: fmt.Sprintf("product %q not found", productKey),
			Status:  http.StatusNotFound,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrNotFound, domain.ErrProductNotFound),
		}
	}

	products, err := domain.SelectColor(sess.Products, name, c)
	if err != nil {
		return nil, &apperrors.AppError{
			Code:    "UNPROCESSABLE",
			Message: fmt.Sprintf("%s is not available for %q", c.Label(), name),
			Status:  http.StatusUnprocessableEntity,
			Err:     fmt.Errorf("%w: %w", apperrors.ErrUnprocessable, err),
		}
	}

	sess.Products = products
	sess.UpdatedAt = s.now()
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("select color: %w", err)
	}
	s.metrics.selections.WithLabelValues(string(c)).Inc()

	s.logger.DebugContext(ctx, "color selected",
		slog.String("session_id", id),
		slog.String("product", name),
		slog.String("color", string(c)),
	)
	return sess, nil
}

// Reload discards the session's view state, cancels any running load and
// starts a new one.
func (s *StorefrontService) Reload(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	unlock := s.lock(id)
	defer unlock()

	s.cancelLoad(id)

	sess := domain.NewSession(id, s.now())
	if prev, err := s.store.Get(ctx, id); err == nil {
		sess.CreatedAt = prev.CreatedAt
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	if err := s.startLoad(ctx, id); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "view session reloaded", slog.String("session_id", id))
	return sess, nil
}

// Unmount tears a session down: its load is cancelled and its state dropped.
func (s *StorefrontService) Unmount(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	s.cancelLoad(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("unmount session: %w", err)
	}

	s.logger.InfoContext(ctx, "view session unmounted", slog.String("session_id", id))
	return nil
}

// Shutdown cancels every running load and waits for the loaders to exit or
// for ctx to end.
func (s *StorefrontService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	for _, l := range s.loaders {
		l.cancel()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for catalog loaders: %w", ctx.Err())
	}
}

// InFlight returns the number of running catalog loads.
func (s *StorefrontService) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.loaders)
}

func (s *StorefrontService) loading(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.loaders[id]
	return ok
}

// cancelLoad must be called with the session's stripe held.
func (s *StorefrontService) cancelLoad(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.loaders[id]; ok {
		l.cancel()
		delete(s.loaders, id)
	}
}

// startLoad must be called with the session's stripe held. The load keeps the
// request's values (logger, trace) but not its cancellation.
func (s *StorefrontService) startLoad(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrShuttingDown
	}

	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	l := &loader{cancel: cancel}
	s.loaders[id] = l
	s.wg.Add(1)
	s.metrics.loadsRunning.Inc()

	go s.load(loadCtx, id, l)
	return nil
}

func (s *StorefrontService) load(ctx context.Context, id string, l *loader) {
	start := time.Now()
	outcome := outcomeCancelled
	defer func() {
		s.mu.Lock()
		if s.loaders[id] == l {
			delete(s.loaders, id)
		}
		s.mu.Unlock()
		l.cancel()

		s.metrics.loadsRunning.Dec()
		s.metrics.loads.WithLabelValues(outcome).Inc()
		s.metrics.loadDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		s.wg.Done()
	}()

	log := logger.WithContext(ctx, s.logger).With(slog.String("session_id", id))

	products, fetchErr := s.catalog.FetchProducts(ctx)

	unlock := s.lock(id)
	defer unlock()

	if ctx.Err() != nil {
		log.Debug("catalog load discarded after teardown")
		return
	}

	// Commit with a context that outlives the cancellation checked above.
	commitCtx := context.WithoutCancel(ctx)
	sess, err := s.store.Get(commitCtx, id)
	if err != nil {
		log.Warn("catalog load finished for a missing session", slog.String("error", err.Error()))
		return
	}
	if sess.State != domain.StateLoading {
		return
	}

	now := s.now()
	if fetchErr != nil {
		sess.Fail(fetchErr, now)
		outcome = outcomeError
	} else {
		sess.Ready(domain.NewViewProducts(products, s.policy), now)
		outcome = outcomeReady
	}

	if err := s.store.Save(commitCtx, sess); err != nil {
		log.Error("failed to commit catalog load", slog.String("error", err.Error()))
		outcome = outcomeError
		return
	}

	if fetchErr != nil {
		log.Warn("catalog load failed",
			slog.String("error", fetchErr.Error()),
			slog.Duration("took", time.Since(start)),
		)
		return
	}
	log.Info("catalog loaded",
		slog.Int("products", len(products)),
		slog.Duration("took", time.Since(start)),
	)
}
