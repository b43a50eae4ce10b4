package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/fwrp/backend/internal/models"
	"github.com/fwrp/backend/internal/storage"
)

var (
	ErrDonationNotFound = errors.New("donation not found")
	ErrUserNotFound     = errors.New("user profile not found")
	ErrUserExists       = errors.New("user profile already exists")
)

// DonationStore is the document-store surface for food listings.
type DonationStore interface {
	// Create assigns an id, persists the record and returns the id.
	Create(ctx context.Context, d *models.Donation) (string, error)
	GetByID(ctx context.Context, id string) (*models.Donation, error)
	// List returns all listings ordered by createdAt descending.
	List(ctx context.Context) ([]*models.Donation, error)
	// Patch overwrites exactly the supplied fields.
	Patch(ctx context.Context, id string, fields map[string]interface{}) error
	// Delete removes the record. Deleting an absent id is not an error,
	// matching the store semantics the clients rely on.
	Delete(ctx context.Context, id string) error
}

// MemoryDonationStore keeps listings in memory and persists them to a JSON
// file. It backs development setups and the tests; Mongo is the production
// store.
type MemoryDonationStore struct {
	mu        sync.RWMutex
	donations map[string]*models.Donation
	order     []string // insertion order, oldest first
	file      *storage.JSONStore
}

func NewMemoryDonationStore(dataDir string) (*MemoryDonationStore, error) {
	file, err := storage.NewJSONStore(dataDir, "donations.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryDonationStore{
		donations: make(map[string]*models.Donation),
		file:      file,
	}

	var saved []*models.Donation
	if err := file.Load(&saved); err != nil {
		return nil, err
	}
	for _, d := range saved {
		s.donations[d.ID] = d
		s.order = append(s.order, d.ID)
	}

	return s, nil
}

func (s *MemoryDonationStore) Create(ctx context.Context, d *models.Donation) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uuid.New().String()
	s.donations[d.ID] = d
	s.order = append(s.order, d.ID)
	s.persist()
	return d.ID, nil
}

func (s *MemoryDonationStore) GetByID(ctx context.Context, id string) (*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.donations[id]
	if !exists {
		return nil, ErrDonationNotFound
	}

	copied := *d
	return &copied, nil
}

func (s *MemoryDonationStore) List(ctx context.Context) ([]*models.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first. Insertion order matches createdAt order since createdAt
	// is set once by the server at creation.
	results := make([]*models.Donation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if d, exists := s.donations[s.order[i]]; exists {
			copied := *d
			results = append(results, &copied)
		}
	}
	return results, nil
}

func (s *MemoryDonationStore) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, exists := s.donations[id]
	if !exists {
		return ErrDonationNotFound
	}

	for name, value := range fields {
		v, ok := value.(string)
		if !ok {
			continue
		}
		switch name {
		case "foodName":
			d.FoodName = v
		case "description":
			d.Description = v
		case "location":
			d.Location = v
		case "expiryDate":
			d.ExpiryDate = v
		case "pickupInstructions":
			d.PickupInstructions = v
		case "imageUrl":
			d.ImageURL = v
		}
	}

	s.persist()
	return nil
}

func (s *MemoryDonationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.donations[id]; !exists {
		return nil
	}

	delete(s.donations, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.persist()
	return nil
}

// persist snapshots the store to disk. Callers hold the write lock. Failures
// are logged, not surfaced; the in-memory state stays authoritative.
func (s *MemoryDonationStore) persist() {
	saved := make([]*models.Donation, 0, len(s.order))
	for _, id := range s.order {
		if d, exists := s.donations[id]; exists {
			saved = append(saved, d)
		}
	}
	if err := s.file.Save(saved); err != nil {
		log.Printf("[DonationStore] persist failed: %v", err)
	}
}
