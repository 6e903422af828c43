package readings

import (
	"sync"
	"testing"
	"time"
)

func TestSaveAssignsSequentialIDs(t *testing.T) {
	repo := NewRepository()
	ts := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	for want := 1; want <= 3; want++ {
		saved := repo.Save(Reading{Timestamp: ts, ImageKey: "k"})
		if saved.ID != want {
			t.Fatalf("expected id %d, got %d", want, saved.ID)
		}
	}
}

func TestSaveDoesNotMutateInput(t *testing.T) {
	repo := NewRepository()
	input := Reading{Timestamp: time.Now(), ImageKey: "k"}

	saved := repo.Save(input)
	if input.ID != 0 {
		t.Fatalf("input record was mutated: id %d", input.ID)
	}
	if saved.ID != 1 {
		t.Fatalf("expected saved id 1, got %d", saved.ID)
	}
}

func TestConcurrentSavesAssignDistinctIDs(t *testing.T) {
	repo := NewRepository()
	const n = 100

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- repo.Save(Reading{Timestamp: time.Now(), ImageKey: "k"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		if id < 1 || id > n {
			t.Fatalf("id %d outside expected range 1..%d", id, n)
		}
		if seen[id] {
			t.Fatalf("id %d assigned twice", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct ids, got %d", n, len(seen))
	}
}

func TestFindByID(t *testing.T) {
	repo := NewRepository()
	ts := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)
	saved := repo.Save(Reading{Timestamp: ts, ImageKey: "2026/02/19/reading_x.jpg"})

	got, ok := repo.FindByID(saved.ID)
	if !ok {
		t.Fatal("expected record to be found")
	}
	if got != saved {
		t.Fatalf("record mismatch: got %+v, want %+v", got, saved)
	}

	if _, ok := repo.FindByID(99); ok {
		t.Fatal("expected absent for unassigned id")
	}
}

func TestFindAllReturnsDefensiveCopyInInsertionOrder(t *testing.T) {
	repo := NewRepository()
	for i := 0; i < 3; i++ {
		repo.Save(Reading{Timestamp: time.Now(), ImageKey: "k"})
	}

	all := repo.FindAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	for i, r := range all {
		if r.ID != i+1 {
			t.Fatalf("expected insertion order, got id %d at position %d", r.ID, i)
		}
	}

	all[0].ImageKey = "tampered"
	fresh := repo.FindAll()
	if fresh[0].ImageKey == "tampered" {
		t.Fatal("FindAll result should not alias internal state")
	}
}
