package coordinator

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"compgrip/internal/domain"
	"compgrip/internal/eventbus"
	"compgrip/internal/logic"
)

// Resolver is the dependency authority the coordinator drives
type Resolver interface {
	FetchCatalogue(ctx context.Context) (*domain.Catalogue, domain.Selection, error)
	ResolveDependants(ctx context.Context, id string) ([]string, error)
	SelectComponent(ctx context.Context, id string) error
	UnselectComponent(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question. Confirm blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, message string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// Op is the kind of toggle request
type Op string

const (
	OpSelect   Op = "select"
	OpUnselect Op = "unselect"
)

// RequestState is a step of the select/unselect protocol
type RequestState string

const (
	StateIdle                 RequestState = "idle"
	StateResolvingDependants  RequestState = "resolving-dependants"
	StateAwaitingConfirmation RequestState = "awaiting-confirmation"
	StateAborted              RequestState = "aborted"
	StateConfirmed            RequestState = "confirmed"
	StateMutatingLocal        RequestState = "mutating-local"
	StateCallingResolver      RequestState = "calling-resolver"
	StateDone                 RequestState = "done"
	StateFailed               RequestState = "failed"
	StateDropped              RequestState = "dropped"
)

// View is a consistent read of everything the tree needs to render
type View struct {
	Catalogue *domain.Catalogue
	Selected  map[string]bool
	Required  map[string]bool
	Expanded  map[string]bool
	Tree      map[string]domain.TriState
	InFlight  map[string]bool
	Revision  uint64
}

// ComponentState returns the row state for a component in this view
func (v View) ComponentState(comp domain.Component) logic.ComponentState {
	return logic.ComputeComponentState(comp, v.Selected, v.Required)
}

type pendingEdit struct {
	seq    uint64
	add    []string
	remove []string
	acked  bool
}

// Coordinator applies toggles optimistically and keeps the store in step with the resolver
type Coordinator struct {
	resolver Resolver
	store    logic.SelectionStore
	bus      eventbus.EventBus
	timeout  time.Duration

	mu        sync.Mutex
	confirmer Confirmer
	cat       *domain.Catalogue
	revision  uint64
	inFlight  map[string]string // target id -> request id
	pending   map[string]*pendingEdit
	seq       uint64
}

// New creates a coordinator. bus may be nil; when set, state syncs published on it are applied.
func New(resolver Resolver, confirmer Confirmer, store logic.SelectionStore, bus eventbus.EventBus) *Coordinator {
	c := &Coordinator{
		resolver:  resolver,
		confirmer: confirmer,
		store:     store,
		bus:       bus,
		timeout:   30 * time.Second,
		cat:       &domain.Catalogue{},
		inFlight:  make(map[string]string),
		pending:   make(map[string]*pendingEdit),
	}

	if bus != nil {
		bus.Subscribe(eventbus.EventStateSynced, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.StateSyncedEvent); ok {
				c.ApplySync(event.Catalogue, event.Selection)
			}
		})
	}

	return c
}

// SetConfirmer replaces the confirmation gate
func (c *Coordinator) SetConfirmer(confirmer Confirmer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmer = confirmer
}

// SetTimeout bounds every resolver call
func (c *Coordinator) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Load fetches the catalogue and the initial selection from the resolver
func (c *Coordinator) Load(ctx context.Context) (*domain.Catalogue, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cat, sel, err := c.resolver.FetchCatalogue(ctx)
	if err != nil {
		return nil, newToggleError(ErrCodeResolverCommunication, "", "", err)
	}
	c.ApplySync(cat, sel)
	return cat, nil
}

// Catalogue returns the catalogue currently in use
func (c *Coordinator) Catalogue() *domain.Catalogue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cat
}

// Toggle selects or unselects id depending on its current derived state
func (c *Coordinator) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	comp := c.cat.FindComponent(id)
	var checked bool
	switch {
	case comp != nil:
		checked = c.store.IsEffectivelySelected(id)
	case c.cat.FindCategory(id) != nil:
		checked = c.treeLocked()[id] == domain.Checked
	default:
		c.mu.Unlock()
		return newToggleError(ErrCodeStaleReference, "", id, nil)
	}
	c.mu.Unlock()

	if checked {
		return c.Unselect(ctx, id)
	}
	return c.Select(ctx, id)
}

// Select adds id (or every member of a category) and asks the resolver to pull in dependencies
func (c *Coordinator) Select(ctx context.Context, id string) error {
	reqID := uuid.NewString()

	c.mu.Lock()
	if err := c.admitLocked(OpSelect, id); err != nil {
		c.mu.Unlock()
		return c.reject(reqID, OpSelect, id, err)
	}
	if c.fullySelectedLocked(id) {
		c.mu.Unlock()
		log.Printf("Coordinator[%s]: select %s is a no-op, already selected", short(reqID), id)
		return nil
	}

	targets := c.targetsLocked(id)
	c.inFlight[id] = reqID
	c.transition(reqID, OpSelect, id, StateMutatingLocal)
	c.store.Select(targets...)
	c.recordPendingLocked(id, targets, nil)
	c.mu.Unlock()

	defer c.release(id)
	return c.callResolver(ctx, reqID, OpSelect, id, c.resolver.SelectComponent)
}

// Unselect removes id and, after confirmation, every selected component depending on it
func (c *Coordinator) Unselect(ctx context.Context, id string) error {
	reqID := uuid.NewString()

	c.mu.Lock()
	if err := c.admitLocked(OpUnselect, id); err != nil {
		c.mu.Unlock()
		return c.reject(reqID, OpUnselect, id, err)
	}
	c.inFlight[id] = reqID
	c.mu.Unlock()
	defer c.release(id)

	c.transition(reqID, OpUnselect, id, StateResolvingDependants)
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	dependants, err := c.resolver.ResolveDependants(rctx, id)
	cancel()
	if err != nil {
		return c.fail(reqID, OpUnselect, id, err)
	}

	c.mu.Lock()
	if !c.cat.HasNode(id) {
		c.mu.Unlock()
		return c.drop(reqID, OpUnselect, id)
	}
	others := c.collateralLocked(id, dependants)
	message := c.confirmMessageLocked(id, others)
	confirmer := c.confirmer
	c.mu.Unlock()

	if len(others) > 0 {
		c.transition(reqID, OpUnselect, id, StateAwaitingConfirmation)
		if confirmer == nil {
			return c.finish(reqID, OpUnselect, id, StateAborted, fmt.Errorf("no confirmation available for %d dependants", len(others)))
		}
		ok, err := confirmer.Confirm(ctx, message)
		if err != nil {
			return c.finish(reqID, OpUnselect, id, StateAborted, fmt.Errorf("confirmation failed: %w", err))
		}
		if !ok {
			c.finish(reqID, OpUnselect, id, StateAborted, nil)
			return nil
		}
		c.transition(reqID, OpUnselect, id, StateConfirmed)
	}

	c.mu.Lock()
	if !c.cat.HasNode(id) {
		c.mu.Unlock()
		return c.drop(reqID, OpUnselect, id)
	}
	removals := append(c.targetsLocked(id), others...)
	c.transition(reqID, OpUnselect, id, StateMutatingLocal)
	c.store.Unselect(removals...)
	c.recordPendingLocked(id, nil, removals)
	c.mu.Unlock()

	return c.callResolver(ctx, reqID, OpUnselect, id, c.resolver.UnselectComponent)
}

// SetExpanded changes the presentation-only expanded flag of a category
func (c *Coordinator) SetExpanded(id string, expanded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cat.FindCategory(id) == nil {
		return
	}
	c.store.SetExpanded(id, expanded)
}

// ExpandAll expands every category
func (c *Coordinator) ExpandAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	c.cat.Walk(func(cat *domain.Category, depth int) bool {
		ids = append(ids, cat.ID)
		return true
	})
	c.store.SetAllExpanded(ids)
}

// CollapseAll collapses every category
func (c *Coordinator) CollapseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.SetAllExpanded(nil)
}

// ApplySync replaces local state with the resolver's. Older revisions are ignored,
// ids outside the catalogue are pruned, and unconfirmed local edits are re-applied on top.
func (c *Coordinator) ApplySync(cat *domain.Catalogue, sel domain.Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if sel.Revision < c.revision {
		log.Printf("Coordinator: ignoring state sync revision %d, already at %d", sel.Revision, c.revision)
		return
	}
	c.revision = sel.Revision
	if cat != nil {
		c.cat = cat
	}

	c.store.Replace(sel.Selected, sel.Required)
	dropped := c.store.Prune(c.cat.HasComponent, func(id string) bool { return c.cat.FindCategory(id) != nil })
	if len(dropped) > 0 {
		sort.Strings(dropped)
		log.Printf("Coordinator: invariant violation, pruned ids missing from the catalogue: %v", dropped)
	}

	c.reapplyPendingLocked()
}

// Snapshot returns a consistent view for rendering
func (c *Coordinator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := c.store.Snapshot()
	inFlight := make(map[string]bool, len(c.inFlight))
	for id := range c.inFlight {
		inFlight[id] = true
	}
	return View{
		Catalogue: c.cat,
		Selected:  snap.Selected,
		Required:  snap.Required,
		Expanded:  snap.Expanded,
		Tree:      logic.ComputeTreeState(c.cat.Categories, snap.Selected, snap.Required),
		InFlight:  inFlight,
		Revision:  c.revision,
	}
}

// admitLocked validates a new request for id
func (c *Coordinator) admitLocked(op Op, id string) error {
	comp := c.cat.FindComponent(id)
	if comp == nil && c.cat.FindCategory(id) == nil {
		return newToggleError(ErrCodeStaleReference, op, id, nil)
	}
	if comp != nil && (comp.Required || c.store.IsRequired(id)) {
		return newToggleError(ErrCodeComponentRequired, op, id, nil)
	}
	if _, busy := c.inFlight[id]; busy {
		return newToggleError(ErrCodeRequestInFlight, op, id, nil)
	}
	return nil
}

func (c *Coordinator) fullySelectedLocked(id string) bool {
	if c.cat.FindComponent(id) != nil {
		return c.store.IsSelected(id)
	}
	return c.treeLocked()[id] == domain.Checked
}

func (c *Coordinator) treeLocked() map[string]domain.TriState {
	snap := c.store.Snapshot()
	return logic.ComputeTreeState(c.cat.Categories, snap.Selected, snap.Required)
}

// targetsLocked expands id to the component ids it names
func (c *Coordinator) targetsLocked(id string) []string {
	if c.cat.FindComponent(id) != nil {
		return []string{id}
	}
	return c.cat.CategoryComponents(id)
}

// collateralLocked keeps the dependants that are selected now, other than id and its own members
func (c *Coordinator) collateralLocked(id string, dependants []string) []string {
	own := make(map[string]bool)
	for _, t := range c.targetsLocked(id) {
		own[t] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, d := range dependants {
		if own[d] || seen[d] || !c.store.IsSelected(d) {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func (c *Coordinator) confirmMessageLocked(id string, others []string) string {
	names := make([]string, len(others))
	for i, o := range others {
		names[i] = c.nameLocked(o)
	}
	return fmt.Sprintf("Unselecting %q will also unselect %d other components (%s). Is this okay?",
		c.nameLocked(id), len(others), strings.Join(names, ", "))
}

func (c *Coordinator) nameLocked(id string) string {
	if comp := c.cat.FindComponent(id); comp != nil && comp.Name != "" {
		return comp.Name
	}
	if cat := c.cat.FindCategory(id); cat != nil && cat.Name != "" {
		return cat.Name
	}
	return id
}

func (c *Coordinator) recordPendingLocked(id string, add, remove []string) {
	c.seq++
	c.pending[id] = &pendingEdit{seq: c.seq, add: add, remove: remove}
}

func (c *Coordinator) reapplyPendingLocked() {
	edits := make([]*pendingEdit, 0, len(c.pending))
	for id, edit := range c.pending {
		if edit.acked {
			// the resolver has answered; this sync is at least as new as its mutation
			delete(c.pending, id)
			continue
		}
		if !c.cat.HasNode(id) {
			delete(c.pending, id)
			continue
		}
		edits = append(edits, edit)
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].seq < edits[j].seq })

	for _, edit := range edits {
		for _, a := range edit.add {
			if c.cat.HasComponent(a) {
				c.store.Select(a)
			}
		}
		c.store.Unselect(edit.remove...)
	}
}

func (c *Coordinator) callResolver(ctx context.Context, reqID string, op Op, id string, call func(context.Context, string) error) error {
	c.transition(reqID, op, id, StateCallingResolver)

	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	err := call(rctx, id)
	cancel()

	c.mu.Lock()
	if edit, ok := c.pending[id]; ok {
		if err != nil {
			delete(c.pending, id)
		} else {
			edit.acked = true
		}
	}
	stale := !c.cat.HasNode(id)
	c.mu.Unlock()

	if err != nil {
		return c.fail(reqID, op, id, err)
	}
	if stale {
		return c.drop(reqID, op, id)
	}
	c.finish(reqID, op, id, StateDone, nil)
	return nil
}

func (c *Coordinator) release(id string) {
	c.mu.Lock()
	delete(c.inFlight, id)
	c.mu.Unlock()
}

func (c *Coordinator) fail(reqID string, op Op, id string, err error) error {
	te := newToggleError(ErrCodeResolverCommunication, op, id, err)
	return c.finish(reqID, op, id, StateFailed, te)
}

func (c *Coordinator) drop(reqID string, op Op, id string) error {
	te := newToggleError(ErrCodeStaleReference, op, id, nil)
	return c.finish(reqID, op, id, StateDropped, te)
}

func (c *Coordinator) reject(reqID string, op Op, id string, err error) error {
	if IsStaleReference(err) {
		return c.finish(reqID, op, id, StateDropped, err)
	}
	return c.finish(reqID, op, id, StateAborted, err)
}

func (c *Coordinator) finish(reqID string, op Op, id string, state RequestState, err error) error {
	c.transition(reqID, op, id, state)
	if err != nil {
		log.Printf("Coordinator[%s]: %s %s: %v", short(reqID), op, id, err)
	}
	if c.bus != nil {
		c.bus.Publish(eventbus.ToggleCompletedEvent{
			RequestID: reqID,
			ID:        id,
			Op:        string(op),
			State:     string(state),
			Err:       err,
		})
	}
	return err
}

func (c *Coordinator) transition(reqID string, op Op, id string, state RequestState) {
	log.Printf("Coordinator[%s]: %s %s -> %s", short(reqID), op, id, state)
}

func short(reqID string) string {
	if len(reqID) > 8 {
		return reqID[:8]
	}
	return reqID
}
