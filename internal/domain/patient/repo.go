package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/visioncare/records/internal/platform/kvstore"
)

// SearchField selects which record field a search matches against.
type SearchField string

const (
	SearchByName   SearchField = "name"
	SearchByMobile SearchField = "mobile"
)

// ImportResult reports the outcome of a bulk import. Duplicates are not an
// error; they are skipped and counted. ValidCount is the number of candidates
// that passed validation, whether or not a duplicate mobile later filtered
// them out.
type ImportResult struct {
	Accepted      []Record
	RejectedCount int
	ValidCount    int
}

// Repository holds the ordered record list in memory and writes the whole
// snapshot through to the key-value store on every mutation. All operations
// are serialized by a single mutex; the mobile-uniqueness check and the
// append are not otherwise atomic.
type Repository struct {
	mu      sync.Mutex
	store   kvstore.Store
	records []Record
}

// NewRepository loads the persisted snapshot from the store. A missing or
// unparseable snapshot is treated as an empty record set, not an error.
func NewRepository(ctx context.Context, store kvstore.Store) (*Repository, error) {
	payload, ok, err := store.Get(ctx, kvstore.KeyPatients)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	var records []Record
	if ok {
		if err := json.Unmarshal(payload, &records); err != nil {
			records = nil
		}
	}
	return &Repository{store: store, records: records}, nil
}

func (r *Repository) save(ctx context.Context) error {
	snapshot := r.records
	if snapshot == nil {
		snapshot = []Record{}
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal patients: %w", err)
	}
	if err := r.store.Set(ctx, kvstore.KeyPatients, payload); err != nil {
		return fmt.Errorf("save patients: %w", err)
	}
	return nil
}

func (r *Repository) hasMobile(mobile string) bool {
	for _, rec := range r.records {
		if rec.Mobile == mobile {
			return true
		}
	}
	return false
}

// Add validates the candidate, rejects duplicate mobile numbers, assigns the
// record's identity and appends it. The stored record is returned.
func (r *Repository) Add(ctx context.Context, candidate Record) (Record, error) {
	validated, err := ValidateForCreate(candidate)
	if err != nil {
		return Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasMobile(validated.Mobile) {
		return Record{}, ErrDuplicateMobile
	}

	validated.ID = uuid.NewString()
	validated.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if validated.Date == "" {
		validated.Date = Today()
	}

	r.records = append(r.records, validated)
	if err := r.save(ctx); err != nil {
		r.records = r.records[:len(r.records)-1]
		return Record{}, err
	}
	return validated, nil
}

// ImportBatch validates each candidate and filters out any whose mobile
// collides with an existing record or with an earlier candidate in the same
// batch (first occurrence wins). Accepted records keep their decoded identity
// and original relative order; the store is written once for the whole batch.
func (r *Repository) ImportBatch(ctx context.Context, candidates []Record) (ImportResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(r.records))
	for _, rec := range r.records {
		seen[rec.Mobile] = true
	}

	var result ImportResult
	for _, c := range candidates {
		validated, err := ValidateForCreate(c)
		if err != nil {
			result.RejectedCount++
			continue
		}
		result.ValidCount++
		if seen[validated.Mobile] {
			result.RejectedCount++
			continue
		}
		validated.ID = c.ID
		validated.CreatedAt = c.CreatedAt
		if validated.ID == "" {
			validated.ID = uuid.NewString()
		}
		if validated.CreatedAt == "" {
			validated.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}
		seen[validated.Mobile] = true
		result.Accepted = append(result.Accepted, validated)
	}

	if len(result.Accepted) == 0 {
		return result, nil
	}

	prev := len(r.records)
	r.records = append(r.records, result.Accepted...)
	if err := r.save(ctx); err != nil {
		r.records = r.records[:prev]
		return ImportResult{}, err
	}
	return result, nil
}

// Search filters the record list. A blank query returns the full list in
// insertion order. Name matching is a case-insensitive substring match;
// mobile matching is a plain substring match. The filter is stable.
func (r *Repository) Search(query string, field SearchField) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return r.snapshot()
	}

	var out []Record
	for _, rec := range r.records {
		if field == SearchByName {
			if strings.Contains(strings.ToLower(rec.Name), strings.ToLower(query)) {
				out = append(out, rec)
			}
		} else {
			if strings.Contains(rec.Mobile, query) {
				out = append(out, rec)
			}
		}
	}
	return out
}

// List returns the full record list in insertion order.
func (r *Repository) List() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Count returns the number of stored records.
func (r *Repository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func (r *Repository) snapshot() []Record {
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}
