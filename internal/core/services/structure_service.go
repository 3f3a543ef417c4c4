package services

import (
	"context"
	"strings"
	"time"

	"github.com/hanbit-center/attendance-service/internal/core/domain"
	"github.com/hanbit-center/attendance-service/internal/core/ports"
)

const structureCacheTTL = 5 * time.Minute

// StructureService is the directory mapping a sub-program to its owning
// (function, unit) pair, plus the admin-entered team map. Lookups are
// memoized with a short TTL; mutations invalidate the cached entry.
type StructureService struct {
	repo  ports.StructureRepository
	cache ports.StructureCache
}

var _ ports.StructureService = (*StructureService)(nil)

func NewStructureService(repo ports.StructureRepository, cache ports.StructureCache) *StructureService {
	return &StructureService{repo: repo, cache: cache}
}

// Lookup resolves a sub-program name after trimming whitespace. Exact match
// only; a missing row returns domain.ErrNotFound, never a panic.
func (s *StructureService) Lookup(ctx context.Context, subProgram string) (*domain.ProgramStructure, error) {
	name := strings.TrimSpace(subProgram)
	if name == "" {
		return nil, domain.ErrNotFound
	}
	if st, ok := s.cache.Get(ctx, name); ok {
		return st, nil
	}
	st, err := s.repo.LookupSubProgram(ctx, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, *st, structureCacheTTL)
	return st, nil
}

func (s *StructureService) List(ctx context.Context) ([]domain.ProgramStructure, error) {
	return s.repo.ListStructure(ctx)
}

func (s *StructureService) Create(ctx context.Context, st domain.ProgramStructure) error {
	st.SubProgram = strings.TrimSpace(st.SubProgram)
	if err := s.repo.CreateStructure(ctx, st); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, st.SubProgram)
	return nil
}

func (s *StructureService) Update(ctx context.Context, st domain.ProgramStructure) error {
	st.SubProgram = strings.TrimSpace(st.SubProgram)
	if err := s.repo.UpdateStructure(ctx, st); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, st.SubProgram)
	return nil
}

func (s *StructureService) Delete(ctx context.Context, subProgram string) error {
	name := strings.TrimSpace(subProgram)
	if err := s.repo.DeleteStructure(ctx, name); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, name)
	return nil
}

func (s *StructureService) ListTeamMap(ctx context.Context) ([]domain.TeamSubProgramMap, error) {
	return s.repo.ListTeamMap(ctx)
}

func (s *StructureService) SaveTeamMap(ctx context.Context, m domain.TeamSubProgramMap) error {
	m.SubProgram = strings.TrimSpace(m.SubProgram)
	return s.repo.UpsertTeamMap(ctx, m)
}

// ReconcileTeamMap reports where the two independently-owned directories
// diverge: sub-programs present in only one of them, and unit/function
// values that disagree.
func (s *StructureService) ReconcileTeamMap(ctx context.Context) ([]domain.StructureMismatch, error) {
	structure, err := s.repo.ListStructure(ctx)
	if err != nil {
		return nil, err
	}
	teamMap, err := s.repo.ListTeamMap(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.ProgramStructure, len(structure))
	for _, st := range structure {
		byName[st.SubProgram] = st
	}

	var mismatches []domain.StructureMismatch
	seen := make(map[string]bool, len(teamMap))
	for _, tm := range teamMap {
		seen[tm.SubProgram] = true
		st, ok := byName[tm.SubProgram]
		if !ok {
			mismatches = append(mismatches, domain.StructureMismatch{
				SubProgram: tm.SubProgram,
				Field:      "missing-in-structure",
				TeamMap:    tm.Unit,
			})
			continue
		}
		if st.Unit != tm.Unit {
			mismatches = append(mismatches, domain.StructureMismatch{
				SubProgram: tm.SubProgram,
				Field:      "unit",
				Structure:  st.Unit,
				TeamMap:    tm.Unit,
			})
		}
		if st.Function != tm.Function {
			mismatches = append(mismatches, domain.StructureMismatch{
				SubProgram: tm.SubProgram,
				Field:      "function",
				Structure:  st.Function,
				TeamMap:    tm.Function,
			})
		}
	}
	for _, st := range structure {
		if !seen[st.SubProgram] {
			mismatches = append(mismatches, domain.StructureMismatch{
				SubProgram: st.SubProgram,
				Field:      "missing-in-team-map",
				Structure:  st.Unit,
			})
		}
	}
	return mismatches, nil
}
