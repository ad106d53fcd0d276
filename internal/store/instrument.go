package store

import (
	"context"
	"errors"
	"time"

	"github.com/dimitrije/socketkey-api/internal/metrics"
	"github.com/dimitrije/socketkey-api/internal/models"
)

type instrumented struct {
	next    Store
	backend string
}

type instrumentedSweeper struct {
	instrumented
	sweeper Sweeper
}

// Instrument wraps s so every call is timed and failures are counted under
// the given backend label. The result still implements Sweeper when s does.
func Instrument(s Store, backend string) Store {
	base := instrumented{next: s, backend: backend}
	if sw, ok := s.(Sweeper); ok {
		return &instrumentedSweeper{instrumented: base, sweeper: sw}
	}
	return &base
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	metrics.StoreOperationDuration.WithLabelValues(i.backend, op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.StoreErrorsTotal.WithLabelValues(i.backend, op).Inc()
	}
}

func (i *instrumented) Set(ctx context.Context, key string, rec models.APIKeyRecord, ttl time.Duration) error {
	start := time.Now()
	err := i.next.Set(ctx, key, rec, ttl)
	i.observe("set", start, err)
	return err
}

func (i *instrumented) Get(ctx context.Context, key string) (*models.APIKeyRecord, error) {
	start := time.Now()
	rec, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return rec, err
}

func (i *instrumented) Exists(ctx context.Context, key string) (bool, error) {
	start := time.Now()
	ok, err := i.next.Exists(ctx, key)
	i.observe("exists", start, err)
	return ok, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}

func (i *instrumentedSweeper) CleanupExpired(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := i.sweeper.CleanupExpired(ctx)
	i.observe("cleanup", start, err)
	if n > 0 {
		metrics.ExpiredEntriesRemoved.WithLabelValues(i.backend).Add(float64(n))
	}
	return n, err
}
