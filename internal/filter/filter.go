// Package filter decides which work items a FilterConfig lets through.
package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

// Matches reports whether item passes every field condition of cfg.
// The Where expression is not consulted here; Apply evaluates it.
func Matches(item domain.WorkItem, cfg domain.FilterConfig) bool {
	if cfg.Search != "" && !matchesSearch(item, cfg.Search) {
		return false
	}
	if len(cfg.Types) > 0 && !slices.Contains(cfg.Types, item.Type) {
		return false
	}
	if len(cfg.Statuses) > 0 && !slices.Contains(cfg.Statuses, item.Status) {
		return false
	}
	if len(cfg.Priorities) > 0 && !slices.Contains(cfg.Priorities, item.Priority) {
		return false
	}
	// Unassigned items always pass an assignee filter.
	if len(cfg.Assignees) > 0 && item.HasAssignee() && !slices.Contains(cfg.Assignees, item.Assignee) {
		return false
	}
	if len(cfg.Approvals) > 0 && !slices.Contains(cfg.Approvals, item.Approval) {
		return false
	}
	if r := cfg.DateRange; r.Start != nil && item.EndDate.Before(*r.Start) {
		return false
	}
	if r := cfg.DateRange; r.End != nil && item.StartDate.After(*r.End) {
		return false
	}
	return true
}

func matchesSearch(item domain.WorkItem, search string) bool {
	term := strings.ToLower(search)
	for _, field := range []string{item.Name, item.Description, item.Assignee} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// Apply returns the items that pass cfg, in snapshot order. The result is
// always a fresh slice.
//
// A Where expression that fails to compile is ignored; callers are expected
// to have run Validate first. An item whose evaluation errors is excluded.
func Apply(items []domain.WorkItem, cfg domain.FilterConfig) []domain.WorkItem {
	var where *Expression
	if cfg.Where != "" {
		where, _ = defaultCache.Get(cfg.Where)
	}

	out := make([]domain.WorkItem, 0, len(items))
	for _, item := range items {
		if !Matches(item, cfg) {
			continue
		}
		if where != nil {
			ok, err := where.Match(item)
			if err != nil || !ok {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// Validate rejects filter values that can never match a real item.
func Validate(cfg domain.FilterConfig) error {
	for _, t := range cfg.Types {
		if !domain.ValidItemTypes[string(t)] {
			return domain.NewValidationError("type", "unknown item type %q", t)
		}
	}
	for _, s := range cfg.Statuses {
		if !domain.ValidStatuses[string(s)] {
			return domain.NewValidationError("status", "unknown status %q", s)
		}
	}
	for _, p := range cfg.Priorities {
		if !domain.ValidPriorities[string(p)] {
			return domain.NewValidationError("priority", "unknown priority %q", p)
		}
	}
	for _, a := range cfg.Approvals {
		if !domain.ValidApprovals[string(a)] {
			return domain.NewValidationError("approval", "unknown approval %q", a)
		}
	}
	if r := cfg.DateRange; r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return domain.NewValidationError("date range", "start %s is after end %s",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	}
	if cfg.Where != "" {
		if _, err := defaultCache.Get(cfg.Where); err != nil {
			return err
		}
	}
	return nil
}

// Assignees returns the union of the configured default assignees and every
// assignee seen on items, de-duplicated and sorted.
func Assignees(items []domain.WorkItem, defaults []string) []string {
	seen := make(map[string]bool, len(defaults)+len(items))
	var out []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}
	for _, d := range defaults {
		add(d)
	}
	for _, item := range items {
		add(item.Assignee)
	}
	sort.Strings(out)
	return out
}
