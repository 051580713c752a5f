package domain

import "time"

// DispatchStatus is the terminal state of one request.
type DispatchStatus string

const (
	StatusExecuted  DispatchStatus = "executed"
	StatusPending   DispatchStatus = "pending"
	StatusConfirmed DispatchStatus = "confirmed"
	StatusFailed    DispatchStatus = "failed"
)

// DispatchRecord is one audited request.
type DispatchRecord struct {
	ID        string
	RequestID string
	ActorID   string
	ActorName string
	Input     string
	Command   string
	Status    DispatchStatus
	Failure   string
	Message   string
	CreatedAt time.Time
}

// DispatchFilter selects audited requests.
type DispatchFilter struct {
	ActorID string
	Command string
	Status  DispatchStatus
	Since   *time.Time
	Limit   int
}
