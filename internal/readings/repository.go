package readings

import "sync"

// Repository is the in-memory table of reading records. Ids are assigned from
// a guarded counter starting at 1; concurrent saves never repeat an id. The
// repository is constructed explicitly and injected, not ambient state.
type Repository struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]Reading
	order  []int
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		byID: make(map[int]Reading),
	}
}

// Save assigns the next id and stores the record. The input is not mutated;
// the stored copy with its id is returned.
func (r *Repository) Save(reading Reading) Reading {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	reading.ID = r.nextID
	r.byID[reading.ID] = reading
	r.order = append(r.order, reading.ID)
	return reading
}

// FindByID returns the record with the given id, if present.
func (r *Repository) FindByID(id int) (Reading, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reading, ok := r.byID[id]
	return reading, ok
}

// FindAll returns all records in insertion order as a fresh slice.
func (r *Repository) FindAll() []Reading {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]Reading, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.byID[id])
	}
	return all
}
