package resolver

import "compgrip/internal/domain"

// graph indexes a catalogue for dependency queries
type graph struct {
	cat        *domain.Catalogue
	components map[string]*domain.Component
	// reverse edges: component id -> components that depend on it
	dependants map[string][]string
}

func newGraph(cat *domain.Catalogue) *graph {
	g := &graph{
		cat:        cat,
		components: make(map[string]*domain.Component),
		dependants: make(map[string][]string),
	}
	cat.Walk(func(c *domain.Category, depth int) bool {
		for i := range c.Components {
			comp := &c.Components[i]
			g.components[comp.ID] = comp
		}
		return true
	})
	for _, comp := range g.components {
		for _, dep := range comp.DependsOn {
			g.dependants[dep] = append(g.dependants[dep], comp.ID)
		}
	}
	return g
}

// targets expands id into the component ids it stands for.
// ok is false when id names neither a component nor a category.
func (g *graph) targets(id string) (ids []string, ok bool) {
	if _, isComp := g.components[id]; isComp {
		return []string{id}, true
	}
	if cat := g.cat.FindCategory(id); cat != nil {
		return cat.MemberIDs(), true
	}
	return nil, false
}

// dependencies returns the targets of id plus everything they transitively depend on
func (g *graph) dependencies(id string) ([]string, bool) {
	roots, ok := g.targets(id)
	if !ok {
		return nil, false
	}
	seen := make(map[string]bool)
	var visit func(string)
	visit = func(cid string) {
		if seen[cid] {
			return
		}
		comp, exists := g.components[cid]
		if !exists {
			return
		}
		seen[cid] = true
		for _, dep := range comp.DependsOn {
			visit(dep)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	return domain.SortedIDs(seen), true
}

// dependantsOf returns the targets of id plus everything that transitively depends on them,
// minus the required set
func (g *graph) dependantsOf(id string, required map[string]bool) ([]string, bool) {
	roots, ok := g.targets(id)
	if !ok {
		return nil, false
	}
	seen := make(map[string]bool)
	var visit func(string)
	visit = func(cid string) {
		if seen[cid] {
			return
		}
		seen[cid] = true
		for _, d := range g.dependants[cid] {
			visit(d)
		}
	}
	for _, r := range roots {
		visit(r)
	}
	for r := range required {
		delete(seen, r)
	}
	return domain.SortedIDs(seen), true
}

// required computes the set of components that can never be deselected:
// flagged components with their dependencies, and every member of a flagged category
func (g *graph) required() map[string]bool {
	out := make(map[string]bool)
	g.cat.Walk(func(c *domain.Category, depth int) bool {
		if c.Required {
			for _, id := range c.MemberIDs() {
				out[id] = true
			}
		}
		for _, comp := range c.Components {
			if !comp.Required {
				continue
			}
			deps, _ := g.dependencies(comp.ID)
			for _, id := range deps {
				out[id] = true
			}
		}
		return true
	})
	return out
}

// unknownDependencies lists depends entries that name no component, sorted
func (g *graph) unknownDependencies() []string {
	missing := make(map[string]bool)
	for _, comp := range g.components {
		for _, dep := range comp.DependsOn {
			if _, ok := g.components[dep]; !ok {
				missing[dep] = true
			}
		}
	}
	return domain.SortedIDs(missing)
}
