package subscription

import (
	"testing"
	"time"
)

func TestActiveAtAndQuota(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	s := &BrokerSubscription{MaxProperties: 2}
	s.Activate(now, 3)

	if s.Status != StatusActive || !s.EndDate.Equal(now.AddDate(0, 3, 0)) {
		t.Fatalf("activate: %+v", s)
	}
	if !s.ActiveAt(now.AddDate(0, 2, 0)) {
		t.Fatal("must be active inside the window")
	}
	// ACTIVE row past its end_date is not active even before the sweep runs
	if s.ActiveAt(now.AddDate(0, 3, 0)) {
		t.Fatal("must not be active at end_date")
	}

	if !s.CanPost() {
		t.Fatal("fresh subscription must allow posting")
	}
	s.PropertiesPosted = 2
	if s.CanPost() {
		t.Fatal("quota exhausted")
	}
}
