// Package deposit runs the per-deposit countdown and polling state
// machine sitting between the HTTP surface and the sale service.
package deposit

import (
	"context"
	"math"
	"sync"
	"time"

	"bdc-storefront/internal/sale"
)

// Status is the lifecycle state of a deposit session.
type Status string

// Session statuses. Waiting and Checking are live; Confirmed and Timeout
// are terminal and absorb further ticks and polls.
const (
	StatusWaiting   Status = "waiting"
	StatusChecking  Status = "checking"
	StatusConfirmed Status = "confirmed"
	StatusTimeout   Status = "timeout"
)

// Session timing.
const (
	// CountdownDuration is the deposit window length.
	CountdownDuration = 300 * time.Second
	// TickInterval drives the countdown.
	TickInterval = 1 * time.Second
	// PollInterval drives automatic balance checks.
	PollInterval = 10 * time.Second
)

// User-facing status messages.
const (
	waitingMessage = "Menunggu pembayaran..."
	timeoutMessage = "Waktu habis. Silakan lakukan deposit ke alamat yang sudah diberikan. " +
		"Tunggu konfirmasi kami akan memberikan alamat address wallet BDC COIN untuk Anda."
)

// Session is one buyer's deposit attempt. All state transitions go
// through HandleTick and applyResult under the session lock; the manager
// is the only writer after creation.
type Session struct {
	ID             string
	Address        string
	BaseAmount     float64
	ExpectedAmount float64
	Email          string
	ReferralCode   string
	CreatedAt      time.Time

	mu        sync.Mutex
	status    Status
	message   string
	deadline  time.Time
	remaining int
	attempts  int
	result    *sale.CheckResult

	checkNow chan struct{}
	done     chan struct{}
	closed   bool
}

// Snapshot is an immutable view of a session for the HTTP surface.
type Snapshot struct {
	ID               string
	Address          string
	BaseAmount       float64
	ExpectedAmount   float64
	Email            string
	Status           Status
	Message          string
	RemainingSeconds int
	AttemptCount     int
	CreatedAt        time.Time
	Result           *sale.CheckResult
}

// Snapshot returns the session's current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:               s.ID,
		Address:          s.Address,
		BaseAmount:       s.BaseAmount,
		ExpectedAmount:   s.ExpectedAmount,
		Email:            s.Email,
		Status:           s.status,
		Message:          s.message,
		RemainingSeconds: s.remaining,
		AttemptCount:     s.attempts,
		CreatedAt:        s.CreatedAt,
		Result:           s.result,
	}
}

// terminal reports whether the session reached a final state.
func (s *Session) terminal() bool {
	return s.status == StatusConfirmed || s.status == StatusTimeout
}

// HandleTick advances the countdown. Returns true when the session is in
// a terminal state afterwards.
func (s *Session) HandleTick(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal() {
		return true
	}

	if !now.Before(s.deadline) {
		s.remaining = 0
		s.status = StatusTimeout
		s.message = timeoutMessage
		return true
	}
	// The displayed countdown rounds up so the session never shows zero
	// seconds while the window is still open.
	s.remaining = int(math.Ceil(s.deadline.Sub(now).Seconds()))
	return false
}

// beginCheck marks the session as checking and reports whether a check
// should run at all. Each started check bumps the attempt counter.
func (s *Session) beginCheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminal() {
		return false
	}
	s.status = StatusChecking
	s.attempts++
	return true
}

// applyResult folds an oracle check outcome into the session. A deposit
// confirmed by a check that raced past the timeout still wins: the sale
// side effects already settled, so the buyer must see the confirmation.
// Any other late result is absorbed by the terminal state. Returns true
// when the session is terminal afterwards.
func (s *Session) applyResult(result *sale.CheckResult, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		if !s.terminal() {
			s.message = "Sedang mengecek pembayaran..."
		}
		return s.terminal()
	}

	if result.Status == sale.StatusConfirmed {
		s.status = StatusConfirmed
		s.message = result.Message
		s.result = result
		return true
	}

	if s.terminal() {
		return true
	}
	s.message = result.Message
	s.result = result
	return false
}

// checker is the slice of the sale service the session manager depends on.
type checker interface {
	CheckDeposit(ctx context.Context, address string, expectedAmount float64, email, referralCode string) (*sale.CheckResult, error)
	DepositAddress() string
}

var _ checker = (*sale.Service)(nil)
