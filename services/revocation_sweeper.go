package services

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// RevocationSweeper menghapus token yang sudah dicabut dan juga sudah lewat
// masa berlakunya, agar tabel revoked_tokens tidak tumbuh tanpa batas.
type RevocationSweeper struct {
	Auth     *AuthService
	StopChan chan struct{}
	Interval time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

func NewRevocationSweeper(auth *AuthService, interval time.Duration) *RevocationSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RevocationSweeper{
		Auth:     auth,
		StopChan: make(chan struct{}),
		Interval: interval,
		done:     make(chan struct{}),
	}
}

func (rs *RevocationSweeper) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.started || rs.stopped {
		return
	}
	rs.started = true

	go func() {
		defer close(rs.done)
		ticker := time.NewTicker(rs.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rs.Sweep(context.Background())
			case <-rs.StopChan:
				return
			}
		}
	}()
}

// Stop menghentikan goroutine dan menunggu sweep yang sedang berjalan selesai.
func (rs *RevocationSweeper) Stop() {
	rs.mu.Lock()
	if rs.stopped {
		rs.mu.Unlock()
		return
	}
	rs.stopped = true
	close(rs.StopChan)
	started := rs.started
	rs.mu.Unlock()

	if started {
		<-rs.done
	}
}

// Sweep runs one purge pass and returns the number of rows removed.
func (rs *RevocationSweeper) Sweep(ctx context.Context) int64 {
	removed, err := rs.Auth.PurgeExpiredRevocations(ctx)
	if err != nil {
		utils.ErrorLogger.Errorf("revocation sweep failed: %v", err)
		return 0
	}
	if removed > 0 {
		utils.InfoLogger.WithField("removed", removed).Info("revocation sweep")
	}
	return removed
}
