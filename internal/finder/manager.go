package finder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/id"
	"github.com/kz4killua/wikirec/internal/metrics"
)

// Session close reasons.
const (
	ReasonDeleted  = "deleted"
	ReasonExpired  = "expired"
	ReasonShutdown = "shutdown"
)

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Options
	// SessionTTL is how long a session may sit idle before it is closed.
	SessionTTL time.Duration
	// MaxSessions caps how many sessions are held at once.
	MaxSessions int
}

// Manager owns the live finder sessions.
type Manager struct {
	searcher    Searcher
	recommender Recommender
	emitter     Emitter
	logger      *slog.Logger

	sessions map[string]*Session
	cfg      ManagerConfig
	mu       sync.RWMutex
}

// NewManager creates a session manager.
func NewManager(searcher Searcher, recommender Recommender, emitter Emitter, logger *slog.Logger, cfg ManagerConfig) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	cfg.Options = cfg.Options.withDefaults()

	return &Manager{
		searcher:    searcher,
		recommender: recommender,
		emitter:     emitter,
		logger:      logger.With(slog.String("component", "finder")),
		sessions:    make(map[string]*Session),
		cfg:         cfg,
	}
}

// Create starts a new session.
func (m *Manager) Create() (*Session, error) {
	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate session id")
	}

	m.mu.Lock()
	if len(m.sessions) >= m.cfg.MaxSessions {
		m.mu.Unlock()
		return nil, domainerrors.Unavailable("too many active finder sessions, try again later")
	}
	s := newSession(sessionID, m.searcher, m.recommender, m.emitter, m.logger, m.cfg.Options)
	m.sessions[sessionID] = s
	count := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	m.logger.Info("finder session created",
		slog.String("session_id", sessionID),
		slog.Int("active_sessions", count))
	return s, nil
}

// Get returns a live session.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, domainerrors.NotFoundf("finder session %q not found", sessionID)
	}
	return s, nil
}

// Close ends a session.
func (m *Manager) Close(sessionID string) error {
	return m.remove(sessionID, ReasonDeleted)
}

func (m *Manager) remove(sessionID, reason string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	count := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return domainerrors.NotFoundf("finder session %q not found", sessionID)
	}
	metrics.ActiveSessions.Set(float64(count))
	s.close(reason)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start runs the idle-session janitor until ctx is done.
func (m *Manager) Start(ctx context.Context) {
	interval := max(m.cfg.SessionTTL/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := m.sweep(now); n > 0 {
				m.logger.Info("expired idle finder sessions", slog.Int("count", n))
			}
		case <-ctx.Done():
			return
		}
	}
}

// sweep closes sessions idle for longer than the TTL.
func (m *Manager) sweep(now time.Time) int {
	var expired []string
	m.mu.RLock()
	for sid, s := range m.sessions {
		if now.Sub(s.LastActive()) > m.cfg.SessionTTL {
			expired = append(expired, sid)
		}
	}
	m.mu.RUnlock()

	n := 0
	for _, sid := range expired {
		if m.remove(sid, ReasonExpired) == nil {
			n++
		}
	}
	return n
}

// Shutdown closes every session. The janitor stops with its own context.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.close(ReasonShutdown)
	}
	metrics.ActiveSessions.Set(0)

	m.logger.Info("finder sessions closed", slog.Int("count", len(sessions)))
}
