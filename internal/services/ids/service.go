package ids

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rubberove/switflake/internal/runtime"
	logpkg "github.com/rubberove/switflake/pkg/log"
	"github.com/rubberove/switflake/pkg/switflake"
)

// ErrClosed reports use of a closed service.
var ErrClosed = errors.New("ids: service closed")

// Service generates and decodes identifiers on behalf of transports.
type Service struct {
	rt     *runtime.Runtime
	logger logpkg.Logger

	mu      sync.Mutex
	created int
	closed  bool
	pool    chan *switflake.Session
}

// New constructs the service with a default logger.
func New(rt *runtime.Runtime) *Service {
	return NewWithLogger(rt, logpkg.NewLogger())
}

// NewWithLogger constructs the service with the provided logger.
func NewWithLogger(rt *runtime.Runtime, logger logpkg.Logger) *Service {
	return &Service{
		rt:     rt,
		logger: logger.WithComponent("ids"),
		pool:   make(chan *switflake.Session, switflake.Slots),
	}
}

// checkout hands the caller an exclusive session. Sessions are created
// lazily up to the slot count; once all exist, callers wait for one to be
// checked back in or for ctx to end. Capacity is therefore a queueing
// concern here, not an error, while direct library users still see
// ErrCapacityExceeded.
func (s *Service) checkout(ctx context.Context) (*switflake.Session, error) {
	select {
	case sess := <-s.pool:
		return sess, nil
	default:
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.created < switflake.Slots {
		sess, err := s.rt.Generator().Acquire()
		if err == nil {
			s.created++
			s.mu.Unlock()
			return sess, nil
		}
		// All slots held elsewhere (e.g. a direct library user); fall
		// through to waiting on the pool.
	}
	s.mu.Unlock()

	select {
	case sess := <-s.pool:
		return sess, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) checkin(sess *switflake.Session) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		sess.Release()
		return
	}
	select {
	case s.pool <- sess:
	default:
		// Pool full can only mean double checkin; drop the slot.
		sess.Release()
	}
}

// Generate produces count identifiers on one slot. The count is capped by
// configuration; zero or negative counts are rejected.
func (s *Service) Generate(ctx context.Context, count int) ([]uint64, error) {
	maxBatch := s.rt.Config().GenerateMaxBatch
	if count <= 0 {
		return nil, fmt.Errorf("ids: count must be positive, got %d", count)
	}
	if count > maxBatch {
		return nil, fmt.Errorf("ids: count %d exceeds max batch %d", count, maxBatch)
	}

	start := time.Now()
	sess, err := s.checkout(ctx)
	if err != nil {
		s.rt.Metrics().ObserveError(errorReason(err))
		return nil, err
	}
	defer s.checkin(sess)

	out := make([]uint64, 0, count)
	for i := 0; i < count; i++ {
		id, err := sess.Next()
		if err != nil {
			s.rt.Metrics().ObserveError(errorReason(err))
			s.logger.Warn("generate failed",
				logpkg.Err(err),
				logpkg.Int("produced", len(out)),
				logpkg.Int("requested", count))
			return nil, err
		}
		out = append(out, id)
	}

	s.rt.Metrics().ObserveGenerate(len(out), time.Since(start))
	s.rt.Metrics().SlotsInUse.Set(float64(s.rt.Generator().SlotsInUse()))
	return out, nil
}

// Decode unpacks an identifier. Total; decoding proves nothing about
// provenance.
func (s *Service) Decode(id uint64) switflake.Decoded {
	return switflake.Decode(id)
}

// InspectResult pairs an identifier with its decoded fields.
type InspectResult struct {
	ID      uint64
	Decoded switflake.Decoded
}

// Inspect decodes ids and keeps those matching the CEL filter expression.
// An empty filter matches everything.
func (s *Service) Inspect(ids []uint64, filter string) ([]InspectResult, error) {
	f, err := newCELFilter(filter)
	if err != nil {
		return nil, fmt.Errorf("ids: filter: %w", err)
	}
	out := make([]InspectResult, 0, len(ids))
	for _, id := range ids {
		d := switflake.Decode(id)
		ok, err := f.Eval(d)
		if err != nil {
			return nil, fmt.Errorf("ids: filter eval: %w", err)
		}
		if ok {
			out = append(out, InspectResult{ID: id, Decoded: d})
		}
	}
	return out, nil
}

// Close releases every pooled session. In-flight checkouts finish; their
// checkin releases the slot instead of pooling it.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for {
		select {
		case sess := <-s.pool:
			sess.Release()
		default:
			return
		}
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, switflake.ErrClockBackwards):
		return "clock_backwards"
	case errors.Is(err, switflake.ErrClockOverflow):
		return "clock_overflow"
	case errors.Is(err, switflake.ErrCapacityExceeded):
		return "capacity"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
