package catalogue

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"compgrip/internal/domain"
)

type xmlList struct {
	XMLName    xml.Name      `xml:"list"`
	URL        string        `xml:"url,attr"`
	Categories []xmlCategory `xml:"category"`
}

type xmlCategory struct {
	ID              string         `xml:"id,attr"`
	Title           string         `xml:"title,attr"`
	Required        string         `xml:"required,attr"`
	DescriptionAttr string         `xml:"description,attr"`
	Description     string         `xml:"description"`
	Categories      []xmlCategory  `xml:"category"`
	Components      []xmlComponent `xml:"component"`
}

type xmlComponent struct {
	ID              string `xml:"id,attr"`
	Title           string `xml:"title,attr"`
	DescriptionAttr string `xml:"description,attr"`
	Description     string `xml:"description"`
	DateModified    string `xml:"date-modified,attr"`
	DownloadSize    string `xml:"download-size,attr"`
	InstallSize     string `xml:"install-size,attr"`
	Path            string `xml:"path,attr"`
	Hash            string `xml:"hash,attr"`
	Depends         string `xml:"depends,attr"`
	Required        string `xml:"required,attr"`
	Installed       string `xml:"installed,attr"`
}

// Parse decodes a component list and rewrites ids to dash-joined paths
func Parse(r io.Reader) (*domain.Catalogue, error) {
	var list xmlList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode component list: %w", err)
	}

	cat := &domain.Catalogue{URL: list.URL}
	for _, c := range list.Categories {
		converted, err := convertCategory(c, "")
		if err != nil {
			return nil, err
		}
		cat.Categories = append(cat.Categories, converted)
	}

	if err := checkUniqueIDs(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseString is Parse for in-memory documents
func ParseString(doc string) (*domain.Catalogue, error) {
	return Parse(strings.NewReader(doc))
}

func convertCategory(c xmlCategory, parentID string) (domain.Category, error) {
	if c.ID == "" {
		return domain.Category{}, fmt.Errorf("category %q has no id", c.Title)
	}
	id := joinID(parentID, c.ID)
	out := domain.Category{
		ID:          id,
		Name:        c.Title,
		Description: pickDescription(c.Description, c.DescriptionAttr),
		Required:    parseFlag(c.Required),
	}

	for _, sub := range c.Categories {
		converted, err := convertCategory(sub, id)
		if err != nil {
			return domain.Category{}, err
		}
		out.Subcategories = append(out.Subcategories, converted)
	}

	for _, comp := range c.Components {
		converted, err := convertComponent(comp, id)
		if err != nil {
			return domain.Category{}, err
		}
		out.Components = append(out.Components, converted)
	}
	return out, nil
}

func convertComponent(c xmlComponent, categoryID string) (domain.Component, error) {
	if c.ID == "" {
		return domain.Component{}, fmt.Errorf("component %q in %s has no id", c.Title, categoryID)
	}
	id := joinID(categoryID, c.ID)

	downloadSize, err := parseSize(c.DownloadSize)
	if err != nil {
		return domain.Component{}, fmt.Errorf("component %s: invalid download-size: %w", id, err)
	}
	installSize, err := parseSize(c.InstallSize)
	if err != nil {
		return domain.Component{}, fmt.Errorf("component %s: invalid install-size: %w", id, err)
	}

	return domain.Component{
		ID:           id,
		Name:         c.Title,
		Description:  pickDescription(c.Description, c.DescriptionAttr),
		DateModified: c.DateModified,
		DownloadSize: downloadSize,
		InstallSize:  installSize,
		Path:         c.Path,
		Hash:         strings.ToUpper(c.Hash),
		DependsOn:    strings.Fields(c.Depends),
		Required:     parseFlag(c.Required),
		Installed:    parseFlag(c.Installed),
	}, nil
}

func joinID(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "-" + id
}

// parseFlag accepts only "1" as true
func parseFlag(s string) bool {
	return strings.TrimSpace(s) == "1"
}

func parseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseUint(s, 10, 64)
}

func pickDescription(child, attr string) string {
	if d := strings.TrimSpace(child); d != "" {
		return d
	}
	return strings.TrimSpace(attr)
}

func checkUniqueIDs(cat *domain.Catalogue) error {
	seen := make(map[string]bool)
	var dup string
	cat.Walk(func(c *domain.Category, depth int) bool {
		if seen[c.ID] {
			dup = c.ID
			return false
		}
		seen[c.ID] = true
		for _, comp := range c.Components {
			if seen[comp.ID] {
				dup = comp.ID
				return false
			}
			seen[comp.ID] = true
		}
		return true
	})
	if dup != "" {
		return fmt.Errorf("duplicate id %q in component list", dup)
	}
	return nil
}
