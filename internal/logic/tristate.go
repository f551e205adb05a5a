package logic

import "compgrip/internal/domain"

// ComputeTreeState derives the checkbox state of every category, bottom-up.
// A component counts as selected when it is in selected or required.
// Categories with nothing to contribute are Unchecked, including empty ones.
func ComputeTreeState(categories []domain.Category, selected, required map[string]bool) map[string]domain.TriState {
	states := make(map[string]domain.TriState)
	for i := range categories {
		computeCategory(&categories[i], selected, required, states)
	}
	return states
}

func computeCategory(cat *domain.Category, selected, required map[string]bool, states map[string]domain.TriState) domain.TriState {
	anyContributes := false
	allChecked := true

	for i := range cat.Subcategories {
		sub := computeCategory(&cat.Subcategories[i], selected, required, states)
		if sub != domain.Unchecked {
			anyContributes = true
		}
		if sub != domain.Checked {
			allChecked = false
		}
	}

	for _, comp := range cat.Components {
		if selected[comp.ID] || required[comp.ID] {
			anyContributes = true
		} else {
			allChecked = false
		}
	}

	var state domain.TriState
	switch {
	case !anyContributes:
		state = domain.Unchecked
	case allChecked:
		state = domain.Checked
	default:
		state = domain.Indeterminate
	}
	states[cat.ID] = state
	return state
}

// ComponentState is the derived row state of a single component
type ComponentState struct {
	Checked bool
	Locked  bool
}

// ComputeComponentState reports whether a component is checked and whether it may be toggled
func ComputeComponentState(comp domain.Component, selected, required map[string]bool) ComponentState {
	locked := required[comp.ID] || comp.Required
	return ComponentState{
		Checked: selected[comp.ID] || required[comp.ID],
		Locked:  locked,
	}
}
