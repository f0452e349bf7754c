// Package palette holds the dashboard's colour tables and the assigner that
// picks a colour for each new work item.
package palette

import (
	"math/rand/v2"
	"sync"

	"github.com/alexanderramin/ganttboard/internal/domain"
)

const (
	Gray   = "#6B7280"
	Blue   = "#3B82F6"
	Green  = "#10B981"
	Amber  = "#F59E0B"
	Red    = "#EF4444"
	Orange = "#F97316"
	Violet = "#8B5CF6"
)

var StatusColors = map[domain.ItemStatus]string{
	domain.StatusNotStarted: Gray,
	domain.StatusInProgress: Blue,
	domain.StatusCompleted:  Green,
	domain.StatusOnHold:     Amber,
	domain.StatusCancelled:  Red,
}

var PriorityColors = map[domain.Priority]string{
	domain.PriorityLow:      Green,
	domain.PriorityMedium:   Amber,
	domain.PriorityHigh:     Orange,
	domain.PriorityCritical: Red,
}

var TypeColors = map[domain.ItemType]string{
	domain.ItemPhase:     Violet,
	domain.ItemMilestone: Amber,
	domain.ItemTask:      Blue,
}

var ApprovalColors = map[domain.Approval]string{
	domain.ApprovalPending:     Amber,
	domain.ApprovalApproved:    Green,
	domain.ApprovalRejected:    Red,
	domain.ApprovalNotRequired: Gray,
}

// ItemColors is the rotation used for new item bars. The first entry is the
// default bar colour.
var ItemColors = []string{
	Blue, Green, Amber, Red, Violet,
	"#EC4899", "#14B8A6", Orange, "#84CC16", "#6366F1",
}

// Default is the fallback bar colour.
const Default = Blue

// StatusColor returns the colour for s, or Gray for unknown values.
func StatusColor(s domain.ItemStatus) string { return lookup(StatusColors, s) }

// PriorityColor returns the colour for p, or Gray for unknown values.
func PriorityColor(p domain.Priority) string { return lookup(PriorityColors, p) }

// TypeColor returns the colour for t, or Gray for unknown values.
func TypeColor(t domain.ItemType) string { return lookup(TypeColors, t) }

// ApprovalColor returns the colour for a, or Gray for unknown values.
func ApprovalColor(a domain.Approval) string { return lookup(ApprovalColors, a) }

func lookup[K comparable](m map[K]string, k K) string {
	if c, ok := m[k]; ok {
		return c
	}
	return Gray
}

// Assigner hands out item colours.
type Assigner interface {
	Next() string
}

// RoundRobin cycles through ItemColors starting at the first entry.
type RoundRobin struct {
	mu sync.Mutex
	i  int
}

func NewRoundRobin() *RoundRobin { return &RoundRobin{} }

func (r *RoundRobin) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := ItemColors[r.i%len(ItemColors)]
	r.i++
	return c
}

// Seeded picks colours pseudo-randomly from a fixed seed, so a given seed
// always yields the same sequence.
type Seeded struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeeded(seed uint64) *Seeded {
	return &Seeded{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Seeded) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ItemColors[s.rng.IntN(len(ItemColors))]
}

// Fixed always returns the same colour.
type Fixed string

func (f Fixed) Next() string { return string(f) }

// FromConfig builds an assigner from a mode name: "round-robin" (default),
// "seeded" or "fixed". Unknown modes fall back to round-robin.
func FromConfig(mode string, seed uint64) Assigner {
	switch mode {
	case "seeded":
		return NewSeeded(seed)
	case "fixed":
		return Fixed(Default)
	default:
		return NewRoundRobin()
	}
}
