package model

import "time"

// MilestoneStatus is the state of one checklist item.
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusCompleted MilestoneStatus = "completed"
)

func (s MilestoneStatus) Valid() bool {
	return s == MilestoneStatusPending || s == MilestoneStatusCompleted
}

// Milestone is one item of the ordered production checklist.
type Milestone struct {
	ID          int64
	Name        string
	Status      MilestoneStatus
	CompletedAt *time.Time
}
