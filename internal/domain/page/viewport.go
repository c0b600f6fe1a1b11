package page

import (
	"fmt"
	"sort"
)

// Breakpoint maps viewports narrower than MaxWidth to a page size.
// A MaxWidth of 0 is the catch-all for wider viewports.
type Breakpoint struct {
	MaxWidth int `yaml:"max_width"`
	PerPage  int `yaml:"per_page"`
}

// Breakpoints resolves a viewport width to items-per-page.
type Breakpoints []Breakpoint

// DefaultBreakpoints: phones, tablets, desktops.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{
		{MaxWidth: 768, PerPage: 4},
		{MaxWidth: 1280, PerPage: 6},
		{MaxWidth: 0, PerPage: DefaultPerPage},
	}
}

// Validate checks that every breakpoint has a positive page size and that
// at most one catch-all exists.
func (b Breakpoints) Validate() error {
	catchAll := 0
	for i, bp := range b {
		if bp.PerPage <= 0 {
			return fmt.Errorf("breakpoint %d: per_page must be positive", i)
		}
		if bp.MaxWidth < 0 {
			return fmt.Errorf("breakpoint %d: max_width must not be negative", i)
		}
		if bp.MaxWidth == 0 {
			catchAll++
		}
	}
	if catchAll > 1 {
		return fmt.Errorf("only one catch-all breakpoint (max_width 0) is allowed")
	}
	return nil
}

// PerPage returns the page size for a viewport width.
func (b Breakpoints) PerPage(width int) int {
	sorted := make(Breakpoints, 0, len(b))
	fallback := DefaultPerPage
	for _, bp := range b {
		if bp.MaxWidth == 0 {
			fallback = bp.PerPage
			continue
		}
		sorted = append(sorted, bp)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MaxWidth < sorted[j].MaxWidth })
	for _, bp := range sorted {
		if width < bp.MaxWidth {
			return bp.PerPage
		}
	}
	return fallback
}
