package store

import (
	"testing"
	"time"

	"github.com/SentryView/sentryview/pkg/models"
)

func TestReplaceIsWholesale(t *testing.T) {
	s := New[models.Alert](nil)

	s.Replace([]models.Alert{{ID: 1, Status: "pending"}, {ID: 2, Status: "pending"}})
	s.Replace([]models.Alert{{ID: 3, Status: "resolved"}})

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != 3 {
		t.Fatalf("store must hold exactly the last snapshot, got %v", snap)
	}
}

func TestLastWriteWins(t *testing.T) {
	// Two loads where the one issued first resolves last: the store must end
	// up holding whichever response arrived last in real time.
	s := New[models.Alert](nil)

	newer := []models.Alert{{ID: 2, Title: "second load"}}
	older := []models.Alert{{ID: 1, Title: "first load"}}

	s.Replace(newer) // second request resolves first
	s.Replace(older) // first request resolves last and overwrites

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != 1 {
		t.Fatalf("last resolved load must own the store, got %v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New[models.Alert](nil)
	s.Replace([]models.Alert{{ID: 1, Status: "pending"}})

	snap := s.Snapshot()
	snap[0].Status = "resolved"

	if got, _ := s.Get(1); got.Status != "pending" {
		t.Errorf("mutating a snapshot must not touch the store, status = %q", got.Status)
	}
}

func TestPatchMutatesSingleRecord(t *testing.T) {
	s := New[models.Alert](nil)
	s.Replace([]models.Alert{
		{ID: 1, Status: "pending"},
		{ID: 2, Status: "pending"},
	})

	ok := s.Patch(1, func(a *models.Alert) { a.Status = "resolved" })
	if !ok {
		t.Fatal("Patch reported no match for an existing id")
	}

	one, _ := s.Get(1)
	two, _ := s.Get(2)
	if one.Status != "resolved" {
		t.Errorf("patched record status = %q, want resolved", one.Status)
	}
	if two.Status != "pending" {
		t.Errorf("untouched record status = %q, want pending", two.Status)
	}

	if s.Patch(99, func(a *models.Alert) { a.Status = "resolved" }) {
		t.Error("Patch must report false for an unknown id")
	}
}

func TestRemovePreservesOrder(t *testing.T) {
	s := New[models.WhiteRule](nil)
	s.Replace([]models.WhiteRule{{ID: 1}, {ID: 2}, {ID: 3}})

	if !s.Remove(2) {
		t.Fatal("Remove reported no match for an existing id")
	}

	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].ID != 1 || snap[1].ID != 3 {
		t.Errorf("Remove must keep remaining order, got %v", snap)
	}
}

func TestReplaceAtStampsOrigin(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := New[models.Alert](func() time.Time { return base })

	s.Replace(nil)
	if !s.RefreshedAt().Equal(base) {
		t.Errorf("Replace must stamp the injected clock, got %v", s.RefreshedAt())
	}

	remote := base.Add(30 * time.Second)
	s.ReplaceAt([]models.Alert{{ID: 1}}, remote)
	if !s.RefreshedAt().Equal(remote) {
		t.Errorf("ReplaceAt must keep the origin timestamp, got %v", s.RefreshedAt())
	}
}
