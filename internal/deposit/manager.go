package deposit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/google/uuid"

	"bdc-storefront/internal/observability"
	"bdc-storefront/internal/pricing"
	"bdc-storefront/internal/sale"
	"bdc-storefront/internal/solana"
	"bdc-storefront/pkg/logx"
)

// Manager errors.
var (
	ErrSessionNotFound = errors.New("deposit session not found")
	ErrInvalidAmount   = errors.New("invalid deposit amount")
)

// Manager owns all live deposit sessions. Each session gets its own
// goroutine driving the countdown and the poll schedule; push hints from
// the chain watcher trigger immediate checks across all live sessions.
type Manager struct {
	checker checker
	clock   Clock
	log     *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager. A nil clock falls back to the
// real one.
func NewManager(checker checker, clock Clock, log *slog.Logger) *Manager {
	if clock == nil {
		clock = RealClock()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		checker:  checker,
		clock:    clock,
		log:      log,
		sessions: make(map[string]*Session),
		shutdown: make(chan struct{}),
	}
}

// Create opens a new deposit session for the given base purchase amount.
// The expected on-chain amount is the base amount plus the fixed network
// fee, rounded to 4 decimals to match the displayed figure.
func (m *Manager) Create(baseAmount float64, email, referralCode string) (*Session, error) {
	if baseAmount < pricing.MinPurchaseAmount {
		return nil, fmt.Errorf("%w: %.4f (minimum %.0f USDC)", ErrInvalidAmount, baseAmount, pricing.MinPurchaseAmount)
	}

	now := m.clock.Now()
	s := &Session{
		ID:             uuid.NewString(),
		Address:        m.checker.DepositAddress(),
		BaseAmount:     baseAmount,
		ExpectedAmount: math.Round((baseAmount+sale.NetworkFee)*10000) / 10000,
		Email:          email,
		ReferralCode:   referralCode,
		CreatedAt:      now,
		status:         StatusWaiting,
		message:        waitingMessage,
		deadline:       now.Add(CountdownDuration),
		remaining:      int(CountdownDuration.Seconds()),
		checkNow:       make(chan struct{}, 1),
		done:           make(chan struct{}),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(s)

	observability.RecordSessionCreated()
	m.log.Info("deposit session created",
		slog.String(logx.FieldSessionID, s.ID),
		slog.Float64("expected_amount", s.ExpectedAmount),
	)
	return s, nil
}

// Get returns a session by ID. Terminal sessions stay retrievable until
// explicitly closed.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Check runs an immediate balance check for the session and returns the
// resulting snapshot. This is the manual "I have paid" path.
func (m *Manager) Check(ctx context.Context, id string) (Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	m.check(ctx, s)
	return s.Snapshot(), nil
}

// Close removes a session and stops its goroutine.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	wasLive := !s.terminal()
	s.mu.Unlock()

	if wasLive {
		observability.RecordSessionFinished("closed")
	}
	return nil
}

// CheckAll nudges every live session to check immediately. Called on
// push hints from the chain watcher.
func (m *Manager) CheckAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		select {
		case s.checkNow <- struct{}{}:
		default:
			// A check is already queued
		}
	}
}

// WatchHints consumes account notifications and converts each into an
// immediate check across live sessions. Returns when the channel closes
// or the context is cancelled.
func (m *Manager) WatchHints(ctx context.Context, hints <-chan solana.AccountNotification) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-hints:
			if !ok {
				return
			}
			observability.RecordPushHint()
			m.CheckAll()
		}
	}
}

// Stop terminates all session goroutines and waits for them.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.shutdown)
	})
	m.wg.Wait()
}

// run drives one session until it reaches a terminal state or is closed.
func (m *Manager) run(s *Session) {
	defer m.wg.Done()

	tick := m.clock.NewTicker(TickInterval)
	defer tick.Stop()
	poll := m.clock.NewTicker(PollInterval)
	defer poll.Stop()

	ctx := context.Background()
	for {
		select {
		case <-m.shutdown:
			return
		case <-s.done:
			return
		case now := <-tick.C():
			if s.HandleTick(now) {
				m.finish(s)
				return
			}
		case <-poll.C():
			if m.check(ctx, s) {
				m.finish(s)
				return
			}
		case <-s.checkNow:
			if m.check(ctx, s) {
				m.finish(s)
				return
			}
		}
	}
}

// check runs one oracle round trip for the session. The session lock is
// not held across the network call.
func (m *Manager) check(ctx context.Context, s *Session) bool {
	if !s.beginCheck() {
		return true
	}

	result, err := m.checker.CheckDeposit(ctx, s.Address, s.ExpectedAmount, s.Email, s.ReferralCode)
	if err != nil {
		m.log.Error("deposit check failed",
			slog.String(logx.FieldSessionID, s.ID),
			logx.Error(err),
		)
	}
	return s.applyResult(result, err)
}

// finish records the terminal outcome of a session.
func (m *Manager) finish(s *Session) {
	snap := s.Snapshot()
	observability.RecordSessionFinished(string(snap.Status))
	m.log.Info("deposit session finished",
		slog.String(logx.FieldSessionID, s.ID),
		slog.String("outcome", string(snap.Status)),
	)
}
