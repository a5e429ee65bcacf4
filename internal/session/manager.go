package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/geoquiz/internal/catalog"
	"github.com/playperu/geoquiz/internal/clock"
	"github.com/playperu/geoquiz/internal/geo"
	"github.com/playperu/geoquiz/internal/scoreboard"
	"github.com/playperu/geoquiz/internal/view"
)

// DefaultIdleTimeout is how long an untouched session survives.
const DefaultIdleTimeout = 30 * time.Minute

type Config struct {
	Catalog   *catalog.Catalog
	Geodesy   geo.Geodesy
	Board     *scoreboard.Board
	Publisher view.Publisher
	Clock     clock.Clock
	Logger    *slog.Logger

	ThresholdMeters float64
	AdvanceDelay    time.Duration
	TimerTick       time.Duration
	IdleTimeout     time.Duration
}

// Manager holds live sessions by ID. Sessions idle longer than IdleTimeout
// are stopped and removed by Run.
type Manager struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cfg Config) *Manager {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Board == nil {
		cfg.Board = scoreboard.New(context.Background(), scoreboard.Options{Logger: cfg.Logger})
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	return &Manager{
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// Catalog returns the locations every session plays through.
func (m *Manager) Catalog() *catalog.Catalog { return m.cfg.Catalog }

// Board returns the shared leaderboard.
func (m *Manager) Board() *scoreboard.Board { return m.cfg.Board }

// Create starts a new session with a random ID.
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.cfg)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	s.logger.Info("session created")
	return s
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Remove stops and forgets the session with the given ID.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Stop()
	}
}

// ReapIdle removes sessions not touched since IdleTimeout before now and
// returns how many were removed.
func (m *Manager) ReapIdle(now time.Time) int {
	cutoff := now.Add(-m.cfg.IdleTimeout)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Stop()
		s.logger.Info("session expired")
	}
	return len(idle)
}

// Run reaps idle sessions until ctx is done, then stops every session.
func (m *Manager) Run(ctx context.Context) error {
	interval := min(m.cfg.IdleTimeout/2, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.Close()
			return nil
		case <-ticker.C:
			if n := m.ReapIdle(m.cfg.Clock.Now()); n > 0 {
				m.cfg.Logger.Info("reaped idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}

// Close stops every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
