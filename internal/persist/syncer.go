package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/terraincognita07/cyclemate/internal/logger"
	"github.com/terraincognita07/cyclemate/internal/models"
	"github.com/terraincognita07/cyclemate/internal/services"
)

var (
	ErrStateLoadFailed = errors.New("state load failed")
	ErrStateSaveFailed = errors.New("state save failed")
)

const remoteTimeout = 5 * time.Second

// LocalStore is the authoritative on-device copy of the state document.
type LocalStore interface {
	Load() (models.StateSnapshot, bool, error)
	Save(schemaVersion int, payload []byte) error
}

// RemoteStore is an optional best-effort mirror.
type RemoteStore interface {
	Fetch(ctx context.Context) ([]byte, bool, error)
	Store(ctx context.Context, payload []byte) error
}

// Syncer loads the state document at startup and coalesces later writes.
type Syncer struct {
	local    LocalStore
	remote   RemoteStore
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *models.AppState

	writeMu sync.Mutex
}

// NewSyncer returns a Syncer. remote may be nil.
func NewSyncer(local LocalStore, remote RemoteStore, debounce time.Duration) *Syncer {
	return &Syncer{local: local, remote: remote, debounce: debounce}
}

// Load prefers the remote copy and falls back to the local one when the
// remote is unreachable, empty or unreadable.
func (syncer *Syncer) Load(ctx context.Context) (models.AppState, error) {
	if syncer.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
		payload, found, err := syncer.remote.Fetch(remoteCtx)
		cancel()
		switch {
		case err != nil:
			logger.Log.WithError(err).Warn("persist: remote load failed, using local copy")
		case found:
			state, upgradeErr := services.UpgradeState(payload)
			if upgradeErr == nil {
				return state, nil
			}
			logger.Log.WithError(upgradeErr).Warn("persist: remote document unreadable, using local copy")
		}
	}

	snapshot, found, err := syncer.local.Load()
	if err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrStateLoadFailed, err)
	}
	if !found {
		return models.NewAppState(), nil
	}
	state, err := services.UpgradeState([]byte(snapshot.Payload))
	if err != nil {
		return models.AppState{}, fmt.Errorf("%w: %v", ErrStateLoadFailed, err)
	}
	return state, nil
}

// Schedule records state as the next document to write. Calls arriving within
// the debounce window collapse into a single save of the latest state.
func (syncer *Syncer) Schedule(state models.AppState) {
	syncer.mu.Lock()
	syncer.pending = &state
	if syncer.debounce <= 0 {
		syncer.mu.Unlock()
		if err := syncer.Flush(context.Background()); err != nil {
			logger.Log.WithError(err).Error("persist: save failed")
		}
		return
	}

	if syncer.timer == nil {
		syncer.timer = time.AfterFunc(syncer.debounce, func() {
			if err := syncer.Flush(context.Background()); err != nil {
				logger.Log.WithError(err).Error("persist: debounced save failed")
			}
		})
	} else {
		syncer.timer.Reset(syncer.debounce)
	}
	syncer.mu.Unlock()
}

// Flush writes the pending document immediately, if any. The pending
// document is taken under writeMu so overlapping flushes save in order.
func (syncer *Syncer) Flush(ctx context.Context) error {
	syncer.writeMu.Lock()
	defer syncer.writeMu.Unlock()

	syncer.mu.Lock()
	if syncer.timer != nil {
		syncer.timer.Stop()
		syncer.timer = nil
	}
	pending := syncer.pending
	syncer.pending = nil
	syncer.mu.Unlock()

	if pending == nil {
		return nil
	}
	return syncer.writeLocked(ctx, *pending)
}

// writeLocked requires writeMu.
func (syncer *Syncer) writeLocked(ctx context.Context, state models.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStateSaveFailed, err)
	}
	if err := syncer.local.Save(state.SchemaVersion, payload); err != nil {
		return fmt.Errorf("%w: %v", ErrStateSaveFailed, err)
	}

	if syncer.remote != nil {
		remoteCtx, cancel := context.WithTimeout(ctx, remoteTimeout)
		defer cancel()
		if err := syncer.remote.Store(remoteCtx, payload); err != nil {
			logger.Log.WithError(err).Warn("persist: remote save failed")
		}
	}
	logger.Log.WithField("bytes", len(payload)).Debug("persist: state saved")
	return nil
}
