// Package finder holds the interactive state of a recommendation finder:
// three preference slots with debounced title search, a category choice and
// the recommendation submission.
//
// Each Session is owned by one event-loop goroutine. Commands from the API,
// timer expiries and upstream responses are all closures run serially by
// that loop, so session state needs no locks. Network calls and timers run
// elsewhere and post their outcome back; responses are matched to requests by
// sequence numbers, never by arrival order.
package finder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/sse"
)

// Searcher finds candidates for a raw query. *service.TitleSearchService implements it.
type Searcher interface {
	Search(ctx context.Context, raw string, limit int) ([]domain.Candidate, error)
}

// Recommender fetches recommendations. *service.RecommendationService implements it.
type Recommender interface {
	Recommend(ctx context.Context, keys []string, category domain.Category) ([]domain.Recommendation, error)
}

// Emitter publishes session events. *sse.Manager implements it.
type Emitter interface {
	Emit(event sse.Event)
}

// MsgSubmitFailed is shown when a submission produced no results.
const MsgSubmitFailed = "We couldn't fetch recommendations right now. Please try again."

// ErrSessionClosed is returned for commands sent to a closed session.
var ErrSessionClosed = domainerrors.NotFound("finder session is closed")

// Options tune a session.
type Options struct {
	// DebounceWindow is how long a slot's input must be quiet before it is searched.
	DebounceWindow time.Duration
	// FocusGrace delays focus and blur so a candidate click that blurs the input still lands.
	FocusGrace time.Duration
	// SearchLimit caps the candidates per search.
	SearchLimit int
	// SearchTimeout bounds one title search.
	SearchTimeout time.Duration
	// SubmitTimeout bounds one recommendation request.
	SubmitTimeout time.Duration
}

// DefaultOptions returns the standard finder timings.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		FocusGrace:     500 * time.Millisecond,
		SearchLimit:    5,
		SearchTimeout:  10 * time.Second,
		SubmitTimeout:  60 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = d.DebounceWindow
	}
	if o.FocusGrace <= 0 {
		o.FocusGrace = d.FocusGrace
	}
	if o.SearchLimit <= 0 {
		o.SearchLimit = d.SearchLimit
	}
	if o.SearchTimeout <= 0 {
		o.SearchTimeout = d.SearchTimeout
	}
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = d.SubmitTimeout
	}
	return o
}

// Session is one visitor's finder form.
type Session struct {
	searcher    Searcher
	recommender Recommender
	emitter     Emitter
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cmds      chan func()
	done      chan struct{}
	closeOnce sync.Once

	createdAt  time.Time
	lastActive atomic.Int64

	id   string
	opts Options

	// Owned by the loop goroutine.
	slots        [domain.SlotCount]*slotState
	category     domain.Category
	results      *dto.Results
	submitCancel context.CancelFunc
	notice       string
	updatedAt    time.Time
	submitSeq    uint64
	loading      bool
}

func newSession(sessionID string, searcher Searcher, recommender Recommender, emitter Emitter, logger *slog.Logger, opts Options) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now()

	s := &Session{
		id:          sessionID,
		searcher:    searcher,
		recommender: recommender,
		emitter:     emitter,
		logger:      logger.With(slog.String("session_id", sessionID)),
		opts:        opts.withDefaults(),
		ctx:         ctx,
		cancel:      cancel,
		cmds:        make(chan func(), 64),
		done:        make(chan struct{}),
		createdAt:   now,
		updatedAt:   now,
	}
	s.lastActive.Store(now.UnixNano())

	for i, slot := range domain.NewSlots() {
		s.slots[i] = newSlotState(s, slot)
	}

	go s.run()
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// LastActive is when a client last sent a command.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Done is closed once the session has shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-s.ctx.Done():
			s.shutdown()
			return
		}
	}
}

// shutdown stops timers and in-flight work. Runs on the loop goroutine.
func (s *Session) shutdown() {
	for _, slot := range s.slots {
		slot.stop()
	}
	if s.submitCancel != nil {
		s.submitCancel()
		s.submitCancel = nil
	}
}

// close ends the session. Safe to call more than once.
func (s *Session) close(reason string) {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.emit(sse.NewSessionClosedEvent(s.id, reason))
		s.logger.Info("finder session closed", slog.String("reason", reason))
	})
}

// do runs fn on the loop and waits for it.
func (s *Session) do(ctx context.Context, fn func()) error {
	s.lastActive.Store(time.Now().UnixNano())

	finished := make(chan struct{})
	cmd := func() {
		fn()
		close(finished)
	}

	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-s.done:
		// The loop may have run the command just before stopping.
		select {
		case <-finished:
			return nil
		default:
			return ErrSessionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn from a timer or a network goroutine. Dropped once the session is closed.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	case <-s.ctx.Done():
	}
}

func (s *Session) emit(event sse.Event) {
	if s.emitter != nil {
		s.emitter.Emit(event)
	}
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}

func (s *Session) slot(slotID int) (*slotState, error) {
	if !domain.ValidSlotID(slotID) {
		return nil, domainerrors.Validationf("slot must be between 1 and %d", domain.SlotCount)
	}
	return s.slots[slotID-1], nil
}
