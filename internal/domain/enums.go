package domain

type ItemType string

const (
	ItemPhase     ItemType = "phase"
	ItemMilestone ItemType = "milestone"
	ItemTask      ItemType = "task"
)

type ItemStatus string

const (
	StatusNotStarted ItemStatus = "not-started"
	StatusInProgress ItemStatus = "in-progress"
	StatusCompleted  ItemStatus = "completed"
	StatusOnHold     ItemStatus = "on-hold"
	StatusCancelled  ItemStatus = "cancelled"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type Approval string

const (
	ApprovalPending     Approval = "pending"
	ApprovalApproved    Approval = "approved"
	ApprovalRejected    Approval = "rejected"
	ApprovalNotRequired Approval = "not-required"
)

// Canonical value orderings, used for pickers and validation messages.
var (
	ItemTypes  = []ItemType{ItemPhase, ItemMilestone, ItemTask}
	Statuses   = []ItemStatus{StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold, StatusCancelled}
	Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
	Approvals  = []Approval{ApprovalPending, ApprovalApproved, ApprovalRejected, ApprovalNotRequired}
)

// ValidItemTypes is the canonical set of accepted item type strings.
var ValidItemTypes = map[string]bool{
	"phase": true, "milestone": true, "task": true,
}

// ValidStatuses is the canonical set of accepted status strings.
var ValidStatuses = map[string]bool{
	"not-started": true, "in-progress": true, "completed": true,
	"on-hold": true, "cancelled": true,
}

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

// ValidApprovals is the canonical set of accepted approval strings.
var ValidApprovals = map[string]bool{
	"pending": true, "approved": true, "rejected": true, "not-required": true,
}
