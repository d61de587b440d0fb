package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
)

// Readiness reports the service ready once its reference data is loaded.
type Readiness struct {
	ready atomic.Bool
}

// MarkReady flags the reference data as loaded.
func (r *Readiness) MarkReady() { r.ready.Store(true) }

// CheckReadiness returns nil once MarkReady has been called.
func (r *Readiness) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("reference data not loaded yet")
	}
	return nil
}
