package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"corpride/internal/domain/ride"
	"corpride/internal/ports"

	"github.com/google/uuid"
)

// memUnitOfWork runs the function directly; the in-memory repos below are
// their own source of truth and need no transaction boundary.
type memUnitOfWork struct{}

func (memUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memRideRepo is an in-memory RideRepository with the same compare-and-set
// semantics as the Postgres implementation.
type memRideRepo struct {
	mu    sync.Mutex
	rides map[string]*ride.Ride
}

func newMemRideRepo() *memRideRepo {
	return &memRideRepo{rides: make(map[string]*ride.Ride)}
}

func (repo *memRideRepo) CreateRide(_ context.Context, r *ride.Ride) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	repo.rides[r.ID] = cloneRide(r)
	return nil
}

func (repo *memRideRepo) GetByID(_ context.Context, id string) (*ride.Ride, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r, ok := repo.rides[id]
	if !ok {
		return nil, ride.ErrNotFound
	}
	return cloneRide(r), nil
}

func (repo *memRideRepo) List(_ context.Context, f ports.RideFilter) ([]*ride.Ride, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matched []*ride.Ride
	for _, r := range repo.rides {
		if f.RequesterID != "" && r.RequesterID != f.RequesterID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if f.Type != nil && r.Type != *f.Type {
			continue
		}
		if f.Purpose != nil && r.Purpose != *f.Purpose {
			continue
		}
		matched = append(matched, cloneRide(r))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	page, limit := f.Page, f.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (repo *memRideRepo) TransitionStatus(_ context.Context, id string, from, to ride.Status, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r, ok := repo.rides[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	r.UpdatedAt = at
	if to == ride.StatusCompleted {
		completed := at
		r.CompletedAt = &completed
	}
	return true, nil
}

func (repo *memRideRepo) Cancel(_ context.Context, id string, from ride.Status, reason, cancelledBy string, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r, ok := repo.rides[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = ride.StatusCancelled
	r.UpdatedAt = at
	if reason != "" {
		r.CancellationReason = &reason
	}
	r.CancelledBy = &cancelledBy
	cancelledAt := at
	r.CancelledAt = &cancelledAt
	return true, nil
}

func (repo *memRideRepo) SetDriver(_ context.Context, id string, d ride.DriverInfo, at time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	r, ok := repo.rides[id]
	if !ok || r.Status != ride.StatusApproved {
		return false, nil
	}
	r.Driver = &d
	r.UpdatedAt = at
	return true, nil
}

func (repo *memRideRepo) Aggregate(_ context.Context, q ports.AnalyticsQuery) ([]ports.AnalyticsBucket, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	byKey := map[string]*ports.AnalyticsBucket{}
	for _, r := range repo.rides {
		day := r.RideDate.Format("2006-01-02")
		if day < q.From.Format("2006-01-02") || day > q.To.Format("2006-01-02") {
			continue
		}

		var key string
		switch q.GroupBy {
		case ports.GroupByDate:
			key = day
		case ports.GroupByStatus:
			key = r.Status.String()
		case ports.GroupByPurpose:
			key = r.Purpose.String()
		}

		b, ok := byKey[key]
		if !ok {
			b = &ports.AnalyticsBucket{Key: key}
			byKey[key] = b
		}
		b.Count++
		b.TotalEstimatedFare += r.EstimatedFare
		b.TotalActualFare += r.ActualFare
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]ports.AnalyticsBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byKey[k])
	}
	return out, nil
}

func cloneRide(r *ride.Ride) *ride.Ride {
	cp := *r
	if r.Driver != nil {
		d := *r.Driver
		cp.Driver = &d
	}
	if r.RecurringDays != nil {
		cp.RecurringDays = append([]ride.Weekday(nil), r.RecurringDays...)
	}
	return &cp
}
