package services

import (
	"context"
	"log"
	"sync"

	"github.com/fwrp/backend/internal/models"
	"github.com/fwrp/backend/internal/storage"
)

// UserDirectory is the document-store surface for profile records, keyed by
// the identity's uid.
type UserDirectory interface {
	Create(ctx context.Context, p *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	List(ctx context.Context) ([]*models.UserProfile, error)
	// Patch overwrites exactly the supplied fields.
	Patch(ctx context.Context, id string, fields map[string]interface{}) error
	// Delete removes the record; deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// MemoryUserDirectory keeps profiles in memory and persists them to a JSON
// file, mirroring MemoryDonationStore.
type MemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[string]*models.UserProfile
	file  *storage.JSONStore
}

func NewMemoryUserDirectory(dataDir string) (*MemoryUserDirectory, error) {
	file, err := storage.NewJSONStore(dataDir, "users.json")
	if err != nil {
		return nil, err
	}

	s := &MemoryUserDirectory{
		users: make(map[string]*models.UserProfile),
		file:  file,
	}

	var saved []*models.UserProfile
	if err := file.Load(&saved); err != nil {
		return nil, err
	}
	for _, p := range saved {
		s.users[p.ID] = p
	}

	return s, nil
}

func (s *MemoryUserDirectory) Create(ctx context.Context, p *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[p.ID]; exists {
		return ErrUserExists
	}

	s.users[p.ID] = p
	s.persist()
	return nil
}

func (s *MemoryUserDirectory) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.users[id]
	if !exists {
		return nil, ErrUserNotFound
	}

	copied := *p
	return &copied, nil
}

func (s *MemoryUserDirectory) List(ctx context.Context) ([]*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*models.UserProfile, 0, len(s.users))
	for _, p := range s.users {
		copied := *p
		results = append(results, &copied)
	}
	return results, nil
}

func (s *MemoryUserDirectory) Patch(ctx context.Context, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.users[id]
	if !exists {
		return ErrUserNotFound
	}

	for name, value := range fields {
		v, ok := value.(string)
		if !ok {
			continue
		}
		switch name {
		case "name":
			p.Name = v
		case "email":
			p.Email = v
		case "phone":
			p.Phone = v
		case "address":
			p.Address = v
		case "city":
			p.City = v
		case "state":
			p.State = v
		case "postalCode":
			p.PostalCode = v
		case "bio":
			p.Bio = v
		case "avatar":
			p.Avatar = v
		}
	}

	s.persist()
	return nil
}

func (s *MemoryUserDirectory) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	s.persist()
	return nil
}

func (s *MemoryUserDirectory) persist() {
	saved := make([]*models.UserProfile, 0, len(s.users))
	for _, p := range s.users {
		saved = append(saved, p)
	}
	if err := s.file.Save(saved); err != nil {
		log.Printf("[UserDirectory] persist failed: %v", err)
	}
}
