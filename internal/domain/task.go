package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// UserRef is a reference to a user that is either a bare id or carries the
// expanded public profile. The authorization code only ever needs ID();
// expanded refs exist so task responses include name and email the way the
// list and detail endpoints return them.
type UserRef struct {
	id   uuid.UUID
	user *PublicUser
}

func RefID(id uuid.UUID) UserRef {
	return UserRef{id: id}
}

func RefUser(u PublicUser) UserRef {
	return UserRef{id: u.ID, user: &u}
}

// ID returns the referenced user id regardless of variant.
func (r UserRef) ID() uuid.UUID {
	return r.id
}

// User returns the expanded profile when present.
func (r UserRef) User() (PublicUser, bool) {
	if r.user == nil {
		return PublicUser{}, false
	}
	return *r.user, true
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.user != nil {
		return json.Marshal(r.user)
	}
	return json.Marshal(r.id)
}

func (r *UserRef) UnmarshalJSON(b []byte) error {
	var u PublicUser
	if err := json.Unmarshal(b, &u); err == nil && u.ID != uuid.Nil {
		*r = RefUser(u)
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	*r = RefID(id)
	return nil
}

type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Creator     UserRef   `json:"creatorId"`
	Assignee    *UserRef  `json:"assignedToId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AssigneeID returns the current assignee id, or uuid.Nil when unassigned.
func (t *Task) AssigneeID() uuid.UUID {
	if t.Assignee == nil {
		return uuid.Nil
	}
	return t.Assignee.ID()
}

// Overdue reports whether the task is past due and still open.
func (t *Task) Overdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != StatusCompleted
}
