// Package metrics holds the Prometheus counters exported by the grocery service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewAssignmentsCreatedTotal returns a counter of delivery assignments created by matcher runs
func NewAssignmentsCreatedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_assignments_created_total",
		Help: "Total number of delivery assignments created by matcher runs",
	})
}

// NewNoCandidatesTotal returns a counter of matcher runs that found no eligible courier
func NewNoCandidatesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_matcher_no_candidates_total",
		Help: "Total number of matcher runs that found no eligible courier",
	})
}

// NewAssignmentFailuresTotal returns a counter of status updates whose assignment step failed
func NewAssignmentFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_assignment_failures_total",
		Help: "Total number of order status updates whose assignment step failed",
	})
}

// NewAcceptConflictsTotal returns a counter of acceptances lost to another courier
func NewAcceptConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_accept_conflicts_total",
		Help: "Total number of assignment acceptances rejected because another courier won",
	})
}

// NewStoreRetriesTotal returns a counter of retry attempts against the store and geo index
func NewStoreRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_store_retries_total",
		Help: "Total number of retry attempts performed against the store and geo index",
	})
}

// NewBroadcastsPublishedTotal returns a counter of offers pushed to couriers
func NewBroadcastsPublishedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_broadcasts_published_total",
		Help: "Total number of assignment offers pushed to courier connections",
	})
}

// NewLocationUpdatesTotal returns a counter of courier position reports applied
func NewLocationUpdatesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_location_updates_total",
		Help: "Total number of courier position reports applied",
	})
}

// NewAssignmentsExpiredTotal returns a counter of broadcasts retired without acceptance
func NewAssignmentsExpiredTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_assignments_expired_total",
		Help: "Total number of broadcasted assignments expired without acceptance",
	})
}

// NewPresenceTimeoutsTotal returns a counter of couriers taken offline for going silent
func NewPresenceTimeoutsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_presence_timeouts_total",
		Help: "Total number of couriers marked offline after their channel went silent",
	})
}

// Set bundles every counter so the composition root can register them at once.
type Set struct {
	AssignmentsCreated  prometheus.Counter
	NoCandidates        prometheus.Counter
	AssignmentFailures  prometheus.Counter
	AcceptConflicts     prometheus.Counter
	StoreRetries        prometheus.Counter
	BroadcastsPublished prometheus.Counter
	LocationUpdates     prometheus.Counter
	AssignmentsExpired  prometheus.Counter
	PresenceTimeouts    prometheus.Counter
}

// NewSet creates unregistered counters.
func NewSet() *Set {
	return &Set{
		AssignmentsCreated:  NewAssignmentsCreatedTotal(),
		NoCandidates:        NewNoCandidatesTotal(),
		AssignmentFailures:  NewAssignmentFailuresTotal(),
		AcceptConflicts:     NewAcceptConflictsTotal(),
		StoreRetries:        NewStoreRetriesTotal(),
		BroadcastsPublished: NewBroadcastsPublishedTotal(),
		LocationUpdates:     NewLocationUpdatesTotal(),
		AssignmentsExpired:  NewAssignmentsExpiredTotal(),
		PresenceTimeouts:    NewPresenceTimeoutsTotal(),
	}
}

// Register adds all counters to reg.
func (s *Set) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		s.AssignmentsCreated,
		s.NoCandidates,
		s.AssignmentFailures,
		s.AcceptConflicts,
		s.StoreRetries,
		s.BroadcastsPublished,
		s.LocationUpdates,
		s.AssignmentsExpired,
		s.PresenceTimeouts,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
