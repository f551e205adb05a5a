package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"compgrip/internal/coordinator"
	"compgrip/internal/domain"
)

// RenderDetails builds the pager text for a component or category
func RenderDetails(view coordinator.View, id string) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
	}

	if comp := view.Catalogue.FindComponent(id); comp != nil {
		state := view.ComponentState(*comp)
		b.WriteString(titleStyle.Render(displayName(comp.Name, comp.ID)))
		b.WriteString("\n\n")
		field("ID", comp.ID)
		field("State", componentStateLabel(state.Checked, state.Locked))
		field("Download", humanize.IBytes(comp.DownloadSize))
		field("Installed size", humanize.IBytes(comp.InstallSize))
		field("Path", comp.Path)
		field("Hash", comp.Hash)
		field("Modified", comp.DateModified)
		field("Depends on", strings.Join(comp.DependsOn, ", "))
		if comp.Description != "" {
			b.WriteString("\n")
			b.WriteString(comp.Description)
			b.WriteString("\n")
		}
		return b.String()
	}

	if cat := view.Catalogue.FindCategory(id); cat != nil {
		b.WriteString(titleStyle.Render(displayName(cat.Name, cat.ID)))
		b.WriteString("\n\n")
		field("ID", cat.ID)
		field("State", view.Tree[cat.ID].String())
		members := view.Catalogue.CategoryComponents(cat.ID)
		field("Components", fmt.Sprintf("%d", len(members)))
		var download uint64
		for _, m := range members {
			if comp := view.Catalogue.FindComponent(m); comp != nil {
				download += comp.DownloadSize
			}
		}
		field("Download", humanize.IBytes(download))
		if cat.Required {
			field("Required", "yes")
		}
		if cat.Description != "" {
			b.WriteString("\n")
			b.WriteString(cat.Description)
			b.WriteString("\n")
		}
		return b.String()
	}

	return fmt.Sprintf("%s no longer exists\n", id)
}

func componentStateLabel(checked, locked bool) string {
	switch {
	case locked:
		return "required"
	case checked:
		return "selected"
	default:
		return "not selected"
	}
}

// RenderTree renders the whole catalogue, fully expanded, as plain indented text
func RenderTree(view coordinator.View) string {
	var b strings.Builder
	var visit func(cat *domain.Category, depth int)
	visit = func(cat *domain.Category, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s %s (%s)\n", indent, CheckBox(view.Tree[cat.ID]), displayName(cat.Name, cat.ID), cat.ID)
		for i := range cat.Subcategories {
			visit(&cat.Subcategories[i], depth+1)
		}
		for _, comp := range cat.Components {
			state := view.ComponentState(comp)
			box := "[ ]"
			switch {
			case state.Locked:
				box = "[#]"
			case state.Checked:
				box = "[x]"
			}
			fmt.Fprintf(&b, "%s  %s %s (%s) %s\n", indent, box, displayName(comp.Name, comp.ID), comp.ID, humanize.IBytes(comp.DownloadSize))
		}
	}
	for i := range view.Catalogue.Categories {
		visit(&view.Catalogue.Categories[i], 0)
	}
	return b.String()
}
