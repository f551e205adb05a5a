package resolver

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"compgrip/internal/domain"
)

// PlanItem is one component scheduled for installation
type PlanItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path,omitempty"`
	Hash         string `json:"hash,omitempty"`
	DownloadSize uint64 `json:"download_size"`
	InstallSize  uint64 `json:"install_size"`
	Required     bool   `json:"required"`
}

// Plan is the handoff to the installer: components in catalogue order with totals
type Plan struct {
	URL          string     `json:"url"`
	Components   []PlanItem `json:"components"`
	DownloadSize uint64     `json:"download_size"`
	InstallSize  uint64     `json:"install_size"`
}

// BuildPlan collects every component in selected or required, in catalogue order
func BuildPlan(cat *domain.Catalogue, selected, required map[string]bool) Plan {
	plan := Plan{URL: cat.URL, Components: []PlanItem{}}
	for _, comp := range cat.Components() {
		if !selected[comp.ID] && !required[comp.ID] {
			continue
		}
		if comp.Installed {
			continue
		}
		plan.Components = append(plan.Components, PlanItem{
			ID:           comp.ID,
			Name:         comp.Name,
			Path:         comp.Path,
			Hash:         comp.Hash,
			DownloadSize: comp.DownloadSize,
			InstallSize:  comp.InstallSize,
			Required:     required[comp.ID],
		})
		plan.DownloadSize += comp.DownloadSize
		plan.InstallSize += comp.InstallSize
	}
	return plan
}

// Summary is a one-line description of the plan
func (p Plan) Summary() string {
	return fmt.Sprintf("%d components, %s download, %s installed",
		len(p.Components), humanize.IBytes(p.DownloadSize), humanize.IBytes(p.InstallSize))
}

// String renders the plan as a human readable table
func (p Plan) String() string {
	var b strings.Builder
	for _, item := range p.Components {
		marker := " "
		if item.Required {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %-40s %10s\n", marker, item.ID, humanize.IBytes(item.DownloadSize))
	}
	b.WriteString(p.Summary())
	b.WriteString("\n")
	return b.String()
}
