package resolver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"compgrip/internal/catalogue"
	"compgrip/internal/domain"
	"compgrip/internal/eventbus"
)

var (
	// ErrNotLoaded is returned before the catalogue has been fetched
	ErrNotLoaded = errors.New("component list not loaded")
	// ErrUnknownNode is returned for ids that name neither a component nor a category
	ErrUnknownNode = errors.New("unknown component or category")
)

// Service owns the dependency graph and the authoritative selection
type Service interface {
	FetchCatalogue(ctx context.Context) (*domain.Catalogue, domain.Selection, error)
	ResolveDependants(ctx context.Context, id string) ([]string, error)
	ResolveDependencies(ctx context.Context, id string) ([]string, error)
	SelectComponent(ctx context.Context, id string) error
	UnselectComponent(ctx context.Context, id string) error
	Replace(cat *domain.Catalogue)
	Selection() domain.Selection
	Plan() Plan
}

// service is the in-process implementation
type service struct {
	bus    eventbus.EventBus
	loader catalogue.Loader
	source string

	mu       sync.Mutex
	cat      *domain.Catalogue
	graph    *graph
	selected map[string]bool
	required map[string]bool
	revision uint64
}

// NewService creates a resolver for the component list at source
func NewService(bus eventbus.EventBus, loader catalogue.Loader, source string) Service {
	s := &service{
		bus:      bus,
		loader:   loader,
		source:   source,
		selected: make(map[string]bool),
		required: make(map[string]bool),
	}

	bus.Subscribe(eventbus.EventCatalogueChanged, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.CatalogueChangedEvent); ok && event.Catalogue != nil {
			s.Replace(event.Catalogue)
		}
	})

	return s
}

// FetchCatalogue loads the component list on first use and returns it with the current selection
func (s *service) FetchCatalogue(ctx context.Context) (*domain.Catalogue, domain.Selection, error) {
	s.mu.Lock()
	if s.cat != nil {
		defer s.mu.Unlock()
		return s.cat, s.selectionLocked(), nil
	}
	s.mu.Unlock()

	cat, err := s.loader.Load(ctx, s.source)
	if err != nil {
		return nil, domain.Selection{}, fmt.Errorf("failed to fetch component list: %w", err)
	}

	s.mu.Lock()
	if s.cat == nil {
		s.installLocked(cat)
	}
	cat, sel := s.cat, s.selectionLocked()
	s.mu.Unlock()

	s.bus.Publish(eventbus.CatalogueLoadedEvent{Source: s.source, Components: len(cat.Components())})
	return cat, sel, nil
}

// ResolveDependants returns every component that would have to go along with id
func (s *service) ResolveDependants(ctx context.Context, id string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph == nil {
		return nil, ErrNotLoaded
	}
	ids, ok := s.graph.dependantsOf(id, s.required)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return ids, nil
}

// ResolveDependencies returns id's components and everything they depend on
func (s *service) ResolveDependencies(ctx context.Context, id string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.graph == nil {
		return nil, ErrNotLoaded
	}
	ids, ok := s.graph.dependencies(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return ids, nil
}

// SelectComponent selects id together with its dependencies
func (s *service) SelectComponent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.graph == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	deps, ok := s.graph.dependencies(id)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	for _, d := range deps {
		s.selected[d] = true
	}
	event := s.syncEventLocked(false)
	s.mu.Unlock()

	log.Printf("Resolver: selected %s (%d components)", id, len(deps))
	s.bus.Publish(event)
	return nil
}

// UnselectComponent removes id and its dependants from the selection. Required components stay.
func (s *service) UnselectComponent(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	if s.graph == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	dependants, ok := s.graph.dependantsOf(id, s.required)
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	for _, d := range dependants {
		delete(s.selected, d)
	}
	event := s.syncEventLocked(false)
	s.mu.Unlock()

	log.Printf("Resolver: unselected %s (%d components)", id, len(dependants))
	s.bus.Publish(event)
	return nil
}

// Replace swaps in a new catalogue, keeping the selection that still exists
func (s *service) Replace(cat *domain.Catalogue) {
	s.mu.Lock()
	previous := s.selected
	s.installLocked(cat)
	for id := range previous {
		if _, ok := s.graph.components[id]; ok {
			s.selected[id] = true
		}
	}
	count := len(s.graph.components)
	event := s.syncEventLocked(true)
	s.mu.Unlock()

	log.Printf("Resolver: component list replaced (%d components)", count)
	s.bus.Publish(event)
}

// Selection returns the current authoritative selection
func (s *service) Selection() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

// Plan returns the install plan for the current selection
func (s *service) Plan() Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cat == nil {
		return Plan{}
	}
	return BuildPlan(s.cat, s.selected, s.required)
}

func (s *service) installLocked(cat *domain.Catalogue) {
	s.cat = cat
	s.graph = newGraph(cat)
	s.required = s.graph.required()
	s.selected = make(map[string]bool)

	if missing := s.graph.unknownDependencies(); len(missing) > 0 {
		log.Printf("Resolver: component list references unknown dependencies: %v", missing)
	}
}

func (s *service) selectionLocked() domain.Selection {
	return domain.Selection{
		Selected: domain.SortedIDs(s.selected),
		Required: domain.SortedIDs(s.required),
		Revision: s.revision,
	}
}

func (s *service) syncEventLocked(withCatalogue bool) eventbus.StateSyncedEvent {
	s.revision++
	event := eventbus.StateSyncedEvent{Selection: s.selectionLocked()}
	if withCatalogue {
		event.Catalogue = s.cat
	}
	return event
}
