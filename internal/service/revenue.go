package service

import "context"

// RevenueStore exposes the one aggregate the revenue projection needs.
// Implementations must return 0 (not an absence) when no reservation
// is both CONFIRMED and PAID.
type RevenueStore interface {
	SumRevenueCents(ctx context.Context) (int64, error)
}

// RevenueAggregator derives total revenue from confirmed, paid
// reservations.  It is a pure read projection with no state of its own;
// the store answers with a single aggregate query.
type RevenueAggregator struct {
	store RevenueStore
}

// NewRevenueAggregator constructs the projection over the given store.
func NewRevenueAggregator(store RevenueStore) *RevenueAggregator {
	if store == nil {
		panic("nil store passed to NewRevenueAggregator")
	}
	return &RevenueAggregator{store: store}
}

// TotalRevenueCents returns the sum of total prices over reservations
// with status CONFIRMED and payment status PAID; zero when none match.
func (a *RevenueAggregator) TotalRevenueCents(ctx context.Context) (int64, error) {
	return a.store.SumRevenueCents(ctx)
}
