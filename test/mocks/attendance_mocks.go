package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

type MockAttendanceRepository struct {
	mu sync.RWMutex

	records map[string]domain.AttendanceRecord

	UpsertCalls []domain.AttendanceRecord

	UpsertError error
	FetchError  error
	StatsError  error
}

var _ ports.AttendanceRepository = (*MockAttendanceRepository)(nil)

func NewMockAttendanceRepository() *MockAttendanceRepository {
	return &MockAttendanceRepository{records: make(map[string]domain.AttendanceRecord)}
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, rec domain.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertCalls = append(m.UpsertCalls, rec)
	if m.UpsertError != nil {
		return m.UpsertError
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MockAttendanceRepository) FetchByDate(ctx context.Context, date, subProgram string) ([]domain.AttendanceRecord, error) {
	if m.FetchError != nil {
		return nil, m.FetchError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.AttendanceRecord
	for _, rec := range m.records {
		if rec.Date == date && rec.SubProgram == subProgram {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *MockAttendanceRepository) Stats(ctx context.Context, from, to, subProgram string) (domain.AttendanceStats, error) {
	if m.StatsError != nil {
		return domain.AttendanceStats{}, m.StatsError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stats domain.AttendanceStats
	for _, rec := range m.records {
		if rec.SubProgram != subProgram || rec.Date < from || rec.Date > to {
			continue
		}
		stats.Total++
		if rec.Attended {
			stats.Present++
		}
	}
	return stats, nil
}

// StoredCount reports how many distinct keys are stored.
func (m *MockAttendanceRepository) StoredCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

type MockStructureRepository struct {
	mu sync.RWMutex

	structures map[string]domain.ProgramStructure
	teamMap    map[string]domain.TeamSubProgramMap

	LookupCalls []string

	LookupError error
	ListError   error
	WriteError  error
}

var _ ports.StructureRepository = (*MockStructureRepository)(nil)

func NewMockStructureRepository() *MockStructureRepository {
	return &MockStructureRepository{
		structures: make(map[string]domain.ProgramStructure),
		teamMap:    make(map[string]domain.TeamSubProgramMap),
	}
}

func (m *MockStructureRepository) SeedStructure(s domain.ProgramStructure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structures[s.SubProgram] = s
}

func (m *MockStructureRepository) SeedTeamMap(t domain.TeamSubProgramMap) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamMap[t.SubProgram] = t
}

func (m *MockStructureRepository) LookupSubProgram(ctx context.Context, name string) (*domain.ProgramStructure, error) {
	m.mu.Lock()
	m.LookupCalls = append(m.LookupCalls, name)
	m.mu.Unlock()

	if m.LookupError != nil {
		return nil, m.LookupError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.structures[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *MockStructureRepository) ListStructure(ctx context.Context) ([]domain.ProgramStructure, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.ProgramStructure
	for _, s := range m.structures {
		out = append(out, s)
	}
	return out, nil
}

func (m *MockStructureRepository) CreateStructure(ctx context.Context, s domain.ProgramStructure) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.structures[s.SubProgram] = s
	return nil
}

func (m *MockStructureRepository) UpdateStructure(ctx context.Context, s domain.ProgramStructure) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.structures[s.SubProgram]; !ok {
		return domain.ErrNotFound
	}
	m.structures[s.SubProgram] = s
	return nil
}

func (m *MockStructureRepository) DeleteStructure(ctx context.Context, subProgram string) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.structures[subProgram]; !ok {
		return domain.ErrNotFound
	}
	delete(m.structures, subProgram)
	return nil
}

func (m *MockStructureRepository) ListTeamMap(ctx context.Context) ([]domain.TeamSubProgramMap, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.TeamSubProgramMap
	for _, t := range m.teamMap {
		out = append(out, t)
	}
	return out, nil
}

func (m *MockStructureRepository) UpsertTeamMap(ctx context.Context, t domain.TeamSubProgramMap) error {
	if m.WriteError != nil {
		return m.WriteError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teamMap[t.SubProgram] = t
	return nil
}

// MockStructureCache is a map-backed ports.StructureCache; TTLs are ignored.
type MockStructureCache struct {
	mu      sync.RWMutex
	entries map[string]domain.ProgramStructure

	GetCalls        []string
	SetCalls        []string
	InvalidateCalls []string
}

var _ ports.StructureCache = (*MockStructureCache)(nil)

func NewMockStructureCache() *MockStructureCache {
	return &MockStructureCache{entries: make(map[string]domain.ProgramStructure)}
}

func (m *MockStructureCache) Get(ctx context.Context, subProgram string) (*domain.ProgramStructure, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls = append(m.GetCalls, subProgram)
	s, ok := m.entries[subProgram]
	if !ok {
		return nil, false
	}
	return &s, true
}

func (m *MockStructureCache) Set(ctx context.Context, s domain.ProgramStructure, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, s.SubProgram)
	m.entries[s.SubProgram] = s
}

func (m *MockStructureCache) Invalidate(ctx context.Context, subProgram string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InvalidateCalls = append(m.InvalidateCalls, subProgram)
	delete(m.entries, subProgram)
}
