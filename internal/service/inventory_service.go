package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mvallbona/stockledger/internal/cascade"
	"github.com/mvallbona/stockledger/internal/domain"
	"github.com/mvallbona/stockledger/internal/schema"
)

// The repository interfaces below are the subsets of the store types that
// InventoryService requires.

type familyRepository interface {
	Create(ctx context.Context, name string) (*domain.Family, error)
	GetByID(ctx context.Context, id string) (*domain.Family, error)
	List(ctx context.Context) ([]*domain.Family, error)
	Update(ctx context.Context, id, name string) error
}

type subfamilyRepository interface {
	Create(ctx context.Context, name, familyID string) (*domain.Subfamily, error)
	GetByID(ctx context.Context, id string) (*domain.Subfamily, error)
	List(ctx context.Context) ([]*domain.Subfamily, error)
	ListByFamilyID(ctx context.Context, familyID string) ([]*domain.Subfamily, error)
	Update(ctx context.Context, id, name, familyID string) error
}

type locationRepository interface {
	Create(ctx context.Context, name string) (*domain.Location, error)
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context) ([]*domain.Location, error)
	Update(ctx context.Context, id, name string) error
}

type userRepository interface {
	Create(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, id, email string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}

type itemRepository interface {
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	List(ctx context.Context) ([]*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
}

type cascadePlanner interface {
	Plan(ctx context.Context, root schema.Entity, id string) (*cascade.Plan, error)
}

type planExecutor interface {
	ExecutePlan(ctx context.Context, plan *cascade.Plan) error
}

// InventoryService is the CRUD surface over the taxonomy and ledger
// entities. Deletions of entities with dependents route through the
// cascade planner; everything else is a validated pass-through.
type InventoryService struct {
	families    familyRepository
	subfamilies subfamilyRepository
	locations   locationRepository
	users       userRepository
	items       itemRepository
	planner     cascadePlanner
	executor    planExecutor
	locks       *KeyedLock
	logger      *slog.Logger
}

func NewInventoryService(
	families familyRepository,
	subfamilies subfamilyRepository,
	locations locationRepository,
	users userRepository,
	items itemRepository,
	planner cascadePlanner,
	executor planExecutor,
	locks *KeyedLock,
	logger *slog.Logger,
) *InventoryService {
	return &InventoryService{
		families:    families,
		subfamilies: subfamilies,
		locations:   locations,
		users:       users,
		items:       items,
		planner:     planner,
		executor:    executor,
		locks:       locks,
		logger:      logger,
	}
}

// Families

func (s *InventoryService) CreateFamily(ctx context.Context, name string) (*domain.Family, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "family", Field: "name", Reason: "required"}
	}
	return s.families.Create(ctx, name)
}

func (s *InventoryService) ListFamilies(ctx context.Context) ([]*domain.Family, error) {
	return s.families.List(ctx)
}

func (s *InventoryService) UpdateFamily(ctx context.Context, id, name string) (*domain.Family, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "family", Field: "name", Reason: "required"}
	}
	if err := s.families.Update(ctx, id, name); err != nil {
		return nil, err
	}
	return s.families.GetByID(ctx, id)
}

// Subfamilies

func (s *InventoryService) CreateSubfamily(ctx context.Context, name, familyID string) (*domain.Subfamily, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "name", Reason: "required"}
	}
	if familyID == "" {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "family_id", Reason: "required"}
	}
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check family: %w", err)
	}
	if family == nil {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "family_id", Reason: "unknown family"}
	}
	return s.subfamilies.Create(ctx, name, familyID)
}

func (s *InventoryService) UpdateSubfamily(ctx context.Context, id, name, familyID string) (*domain.Subfamily, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "name", Reason: "required"}
	}
	if familyID == "" {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "family_id", Reason: "required"}
	}
	family, err := s.families.GetByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check family: %w", err)
	}
	if family == nil {
		return nil, &domain.ValidationError{Entity: "subfamily", Field: "family_id", Reason: "unknown family"}
	}
	if err := s.subfamilies.Update(ctx, id, name, familyID); err != nil {
		return nil, err
	}
	return s.subfamilies.GetByID(ctx, id)
}

func (s *InventoryService) ListSubfamilies(ctx context.Context, familyID string) ([]*domain.Subfamily, error) {
	if familyID != "" {
		return s.subfamilies.ListByFamilyID(ctx, familyID)
	}
	return s.subfamilies.List(ctx)
}

// Locations

func (s *InventoryService) CreateLocation(ctx context.Context, name string) (*domain.Location, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "location", Field: "name", Reason: "required"}
	}
	return s.locations.Create(ctx, name)
}

func (s *InventoryService) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	return s.locations.List(ctx)
}

func (s *InventoryService) UpdateLocation(ctx context.Context, id, name string) (*domain.Location, error) {
	if name == "" {
		return nil, &domain.ValidationError{Entity: "location", Field: "name", Reason: "required"}
	}
	if err := s.locations.Update(ctx, id, name); err != nil {
		return nil, err
	}
	return s.locations.GetByID(ctx, id)
}

// Users

func (s *InventoryService) CreateUser(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if email == "" {
		return nil, &domain.ValidationError{Entity: "user", Field: "email", Reason: "required"}
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, &domain.ValidationError{Entity: "user", Field: "role", Reason: "must be admin or user"}
	}
	return s.users.Create(ctx, email, role)
}

func (s *InventoryService) UpdateUser(ctx context.Context, id, email string, role domain.Role) (*domain.User, error) {
	if email == "" {
		return nil, &domain.ValidationError{Entity: "user", Field: "email", Reason: "required"}
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, &domain.ValidationError{Entity: "user", Field: "role", Reason: "must be admin or user"}
	}
	if err := s.users.Update(ctx, id, email, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *InventoryService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// DeleteUser is a direct delete: users have no dependents.
func (s *InventoryService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// Items

func (s *InventoryService) CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := s.validateItem(ctx, item); err != nil {
		return nil, err
	}
	return s.items.Create(ctx, item)
}

func (s *InventoryService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *InventoryService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.items.List(ctx)
}

func (s *InventoryService) UpdateItem(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := s.validateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return s.items.GetByID(ctx, item.ID)
}

// validateItem checks required fields and that the item's subfamily
// actually belongs to the item's family. It touches nothing.
func (s *InventoryService) validateItem(ctx context.Context, item *domain.Item) error {
	switch {
	case item.Name == "":
		return &domain.ValidationError{Entity: "item", Field: "name", Reason: "required"}
	case item.Model == "":
		return &domain.ValidationError{Entity: "item", Field: "model", Reason: "required"}
	case item.FamilyID == "":
		return &domain.ValidationError{Entity: "item", Field: "family_id", Reason: "required"}
	case item.SubfamilyID == "":
		return &domain.ValidationError{Entity: "item", Field: "subfamily_id", Reason: "required"}
	}
	if item.Usage != domain.UsageInternal && item.Usage != domain.UsageExternal {
		return &domain.ValidationError{Entity: "item", Field: "usage", Reason: "must be internal or external"}
	}

	subfamily, err := s.subfamilies.GetByID(ctx, item.SubfamilyID)
	if err != nil {
		return fmt.Errorf("failed to check subfamily: %w", err)
	}
	if subfamily == nil {
		return &domain.ValidationError{Entity: "item", Field: "subfamily_id", Reason: "unknown subfamily"}
	}
	if subfamily.FamilyID != item.FamilyID {
		return &domain.ValidationError{Entity: "item", Field: "subfamily_id", Reason: "subfamily does not belong to the item's family"}
	}
	return nil
}

// Cascade deletes

func (s *InventoryService) DeleteFamily(ctx context.Context, id string) (*cascade.Plan, error) {
	return s.cascadeDelete(ctx, schema.Families, id)
}

func (s *InventoryService) DeleteSubfamily(ctx context.Context, id string) (*cascade.Plan, error) {
	return s.cascadeDelete(ctx, schema.Subfamilies, id)
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string) (*cascade.Plan, error) {
	return s.cascadeDelete(ctx, schema.Items, id)
}

func (s *InventoryService) DeleteLocation(ctx context.Context, id string) (*cascade.Plan, error) {
	return s.cascadeDelete(ctx, schema.Locations, id)
}

// cascadeDelete plans and executes removal of (entity, id) and all its
// dependents in destructive order, under the same subtree exclusion the
// ledger uses.
func (s *InventoryService) cascadeDelete(ctx context.Context, entity schema.Entity, id string) (*cascade.Plan, error) {
	release, ok := s.locks.TryAcquire(subtreeKey(entity, id))
	if !ok {
		return nil, domain.ErrConcurrencyConflict
	}
	defer release()

	plan, err := s.planner.Plan(ctx, entity, id)
	if err != nil {
		return nil, err
	}
	if err := s.executor.ExecutePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("cascade delete executed",
		"entity", string(entity),
		"id", id,
		"rows_removed", plan.TotalRows(),
	)
	return plan, nil
}
