package gateway

import (
	"context"
	"sort"
	"sync"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/engine"
)

// MemoryRepository keeps consignments in a map. The return policy and the
// COMPLETED guard are checked under the write lock, so concurrent attaches
// cannot both succeed.
type MemoryRepository struct {
	consignments map[string]domain.Consignment
	policy       engine.ReturnPolicy
	mu           sync.RWMutex
}

func NewMemoryRepository(policy engine.ReturnPolicy) *MemoryRepository {
	return &MemoryRepository{
		consignments: make(map[string]domain.Consignment),
		policy:       policy,
	}
}

func (s *MemoryRepository) CreateConsignment(ctx context.Context, c domain.Consignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.consignments[c.ID]; exists {
		return ErrDuplicateConsignment
	}
	s.consignments[c.ID] = clone(c)
	return nil
}

func (s *MemoryRepository) GetConsignment(ctx context.Context, id string) (domain.Consignment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Consignment{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.consignments[id]
	if !ok {
		return domain.Consignment{}, domain.ErrConsignmentNotFound
	}
	return clone(c), nil
}

func (s *MemoryRepository) AttachReturn(ctx context.Context, consignmentID string, r domain.Return) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consignments[consignmentID]
	if !ok {
		return domain.ErrConsignmentNotFound
	}
	if !engine.AcceptsReturns(c.Status) {
		return domain.ErrConsignmentClosed
	}
	if s.policy != engine.MultipleReturns && c.HasReturns() {
		return domain.ErrReturnAlreadyExists
	}
	r.ConsignmentID = consignmentID
	c.Returns = append(append([]domain.Return(nil), c.Returns...), r)
	s.consignments[consignmentID] = c
	return nil
}

func (s *MemoryRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consignments[id]
	if !ok {
		return domain.ErrConsignmentNotFound
	}
	if c.Status != from {
		return domain.ErrStatusConflict
	}
	c.Status = to
	s.consignments[id] = c
	return nil
}

func (s *MemoryRepository) DeleteConsignment(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.consignments[id]
	if !ok {
		return domain.ErrConsignmentNotFound
	}
	if c.HasReturns() {
		return domain.ErrConsignmentHasReturns
	}
	delete(s.consignments, id)
	return nil
}

func (s *MemoryRepository) ListConsignments(ctx context.Context, filter domain.ListFilter) ([]domain.Consignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Consignment
	for _, c := range s.consignments {
		if engine.InRange(c, filter) {
			result = append(result, clone(c))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// clone copies the parts of c that are shared by reference.
func clone(c domain.Consignment) domain.Consignment {
	if c.Packaging != nil {
		p := *c.Packaging
		c.Packaging = &p
	}
	if c.Returns != nil {
		c.Returns = append([]domain.Return(nil), c.Returns...)
	}
	return c
}
