package filter

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/alexanderramin/ganttboard/internal/dateutil"
	"github.com/alexanderramin/ganttboard/internal/domain"
)

// Expression is a compiled boolean predicate over a work item, written in
// expr-lang, e.g. `priority == "high" && progress < 50`.
//
// Variables available to the expression: id, name, type, status, progress,
// priority, assignee, approval, description, parent, color, blockers,
// dependencies, start, end (time values) and duration_days.
type Expression struct {
	source  string
	program *vm.Program
}

// Compile parses and type-checks source. Errors are ValidationErrors.
func Compile(source string) (*Expression, error) {
	prg, err := expr.Compile(source, expr.Env(env(domain.WorkItem{})), expr.AsBool())
	if err != nil {
		return nil, domain.NewValidationError("where", "%s", err.Error())
	}
	return &Expression{source: source, program: prg}, nil
}

// String returns the expression source.
func (e *Expression) String() string { return e.source }

// Match evaluates the expression against item.
func (e *Expression) Match(item domain.WorkItem) (bool, error) {
	out, err := vm.Run(e.program, env(item))
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", e.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func env(item domain.WorkItem) map[string]any {
	blockers := item.Blockers
	if blockers == nil {
		blockers = []string{}
	}
	deps := item.Dependencies
	if deps == nil {
		deps = []string{}
	}
	return map[string]any{
		"id":            item.ID,
		"name":          item.Name,
		"type":          string(item.Type),
		"status":        string(item.Status),
		"progress":      item.Progress,
		"priority":      string(item.Priority),
		"assignee":      item.Assignee,
		"approval":      string(item.Approval),
		"description":   item.Description,
		"parent":        item.Parent(),
		"color":         item.Color,
		"blockers":      blockers,
		"dependencies":  deps,
		"start":         item.StartDate,
		"end":           item.EndDate,
		"duration_days": dateutil.DaysBetween(item.StartDate, item.EndDate),
	}
}

// DefaultCacheSize bounds the package-level expression cache.
const DefaultCacheSize = 256

// Cache holds up to limit compiled expressions keyed by source, evicting the
// oldest entry when full. Safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	limit int
	progs map[string]*Expression
	order []string
}

// NewCache returns a cache holding at most limit expressions. A limit below
// one is treated as one.
func NewCache(limit int) *Cache {
	return &Cache{limit: max(limit, 1), progs: make(map[string]*Expression)}
}

var defaultCache = NewCache(DefaultCacheSize)

// Len reports the number of cached expressions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.progs)
}

// Get returns the compiled expression for source, compiling it on first use.
// Failed compilations are not cached.
func (c *Cache) Get(source string) (*Expression, error) {
	c.mu.RLock()
	if e, ok := c.progs[source]; ok {
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.progs[source]; ok {
		return e, nil
	}
	e, err := Compile(source)
	if err != nil {
		return nil, err
	}
	if len(c.order) >= c.limit {
		delete(c.progs, c.order[0])
		c.order = c.order[1:]
	}
	c.progs[source] = e
	c.order = append(c.order, source)
	return e, nil
}
