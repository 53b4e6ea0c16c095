package season

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"clubportal/pkg/contracts/domain"
)

// Store errors
var (
	ErrSeasonNotFound  = errors.New("season not found")
	ErrRegattaNotFound = errors.New("regatta not found")
	ErrInvalidSeason   = errors.New("season must not be empty")
)

// Store holds the sailor's working data: one profile and an ordered list of
// regatta records per season.
type Store interface {
	SaveProfile(season string, profile domain.ProfileRecord) error
	Profile(season string) (domain.ProfileRecord, error)
	AddRegatta(season string, record domain.RegattaRecord) (domain.RegattaRecord, error)
	UpdateRegatta(season, id string, record domain.RegattaRecord) (domain.RegattaRecord, error)
	DeleteRegatta(season, id string) error
	Regattas(season string) ([]domain.RegattaRecord, error)
	Seasons() []string
	Snapshot(season string) (domain.SeasonExport, error)
}

type seasonData struct {
	profile  domain.ProfileRecord
	regattas []domain.RegattaRecord
}

// MemoryStore is an in-memory implementation of Store. Records are copied
// on the way in and out, so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	seasons map[string]*seasonData
	newID   func() string
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seasons: make(map[string]*seasonData),
		newID:   uuid.NewString,
	}
}

// season returns the data for name, creating it when create is set. Callers hold mu.
func (s *MemoryStore) season(name string, create bool) (*seasonData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidSeason
	}
	data, ok := s.seasons[name]
	if !ok {
		if !create {
			return nil, fmt.Errorf("%w: %s", ErrSeasonNotFound, name)
		}
		data = &seasonData{}
		s.seasons[name] = data
	}
	return data, nil
}

// SaveProfile replaces the season's profile
func (s *MemoryStore) SaveProfile(season string, profile domain.ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.season(season, true)
	if err != nil {
		return err
	}
	data.profile = profile
	return nil
}

// Profile returns the season's profile. A season without a saved profile
// yields the zero profile.
func (s *MemoryStore) Profile(season string) (domain.ProfileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.season(season, false)
	if err != nil {
		return domain.ProfileRecord{}, err
	}
	return data.profile, nil
}

// AddRegatta appends record to the season and assigns it a new ID
func (s *MemoryStore) AddRegatta(season string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.season(season, true)
	if err != nil {
		return domain.RegattaRecord{}, err
	}

	stored := record.Clone()
	stored.ID = s.newID()
	data.regattas = append(data.regattas, stored)
	return stored.Clone(), nil
}

// UpdateRegatta replaces the record with the given ID, keeping its position
func (s *MemoryStore) UpdateRegatta(season, id string, record domain.RegattaRecord) (domain.RegattaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.season(season, false)
	if err != nil {
		return domain.RegattaRecord{}, err
	}

	i := indexOf(data.regattas, id)
	if i < 0 {
		return domain.RegattaRecord{}, fmt.Errorf("%w: %s", ErrRegattaNotFound, id)
	}

	stored := record.Clone()
	stored.ID = id
	data.regattas[i] = stored
	return stored.Clone(), nil
}

// DeleteRegatta removes the record with the given ID
func (s *MemoryStore) DeleteRegatta(season, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.season(season, false)
	if err != nil {
		return err
	}

	i := indexOf(data.regattas, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegattaNotFound, id)
	}
	data.regattas = slices.Delete(data.regattas, i, i+1)
	return nil
}

// Regattas returns the season's records in insertion order. An unknown
// season has no records.
func (s *MemoryStore) Regattas(season string) ([]domain.RegattaRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.season(season, false)
	if errors.Is(err, ErrSeasonNotFound) {
		return []domain.RegattaRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cloneAll(data.regattas), nil
}

// Seasons lists every season that has data, sorted
func (s *MemoryStore) Seasons() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.seasons))
	for name := range s.seasons {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns the season's profile and records as one export payload
func (s *MemoryStore) Snapshot(season string) (domain.SeasonExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.season(season, false)
	if err != nil {
		return domain.SeasonExport{}, err
	}
	return domain.SeasonExport{
		Season:   strings.TrimSpace(season),
		Profile:  data.profile,
		Regattas: cloneAll(data.regattas),
	}, nil
}

func indexOf(records []domain.RegattaRecord, id string) int {
	return slices.IndexFunc(records, func(r domain.RegattaRecord) bool { return r.ID == id })
}

func cloneAll(records []domain.RegattaRecord) []domain.RegattaRecord {
	out := make([]domain.RegattaRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
