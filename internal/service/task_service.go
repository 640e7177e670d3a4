package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// TaskStore is the persistence surface the task service needs.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f repository.TaskFilter, s repository.TaskSort) ([]*domain.Task, error)
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	FindByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	FindOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
}

// AssigneeLookup resolves assignment-by-email.
type AssigneeLookup interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type TaskService struct {
	tasks TaskStore
	users AssigneeLookup
	now   func() time.Time
}

func NewTaskService(tasks TaskStore, users AssigneeLookup) *TaskService {
	return &TaskService{tasks: tasks, users: users, now: time.Now}
}

// NullableString distinguishes an absent JSON field from an explicit null
// or empty string. Absent leaves the current value untouched; null/empty
// clears it. The distinction is load-bearing for un-assignment.
type NullableString struct {
	Set   bool
	Null  bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(b, &n.Value)
}

type CreateTaskInput struct {
	Title        string          `json:"title" binding:"required,max=100"`
	Description  string          `json:"description" binding:"required"`
	DueDate      time.Time       `json:"dueDate" binding:"required"`
	Priority     domain.Priority `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	Status       domain.Status   `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Review' 'Completed'"`
	AssignedTo   string          `json:"assignedTo"`
	AssignedToID string          `json:"assignedToId"`
}

type UpdateTaskInput struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,min=1"`
	DueDate      *time.Time       `json:"dueDate"`
	Priority     *domain.Priority `json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	Status       *domain.Status   `json:"status" binding:"omitempty,oneof='To Do' 'In Progress' 'Review' 'Completed'"`
	AssignedTo   NullableString   `json:"assignedTo"`
	AssignedToID NullableString   `json:"assignedToId"`
}

// resolveAssignee turns an untrusted email/id pair into a user id. Email
// takes precedence and must match an existing user (case-insensitive). A
// bare id is only checked for syntactic validity; existence is not
// re-verified before persisting.
func (s *TaskService) resolveAssignee(ctx context.Context, email, id string) (*uuid.UUID, error) {
	if e := strings.TrimSpace(email); e != "" {
		user, err := s.users.GetByEmail(ctx, e)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return nil, domain.NotFound(fmt.Sprintf("user with email %s not found", e))
			}
			return nil, err
		}
		return &user.ID, nil
	}

	if raw := strings.TrimSpace(id); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, domain.ErrInvalidAssigneeID
		}
		return &parsed, nil
	}

	return nil, nil
}

// Create validates the input and persists a new task owned by creatorID.
// Any authenticated user may create a task.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, creatorID uuid.UUID) (*domain.Task, error) {
	if !in.DueDate.After(s.now()) {
		return nil, domain.ErrDueDateInPast
	}

	assigneeID, err := s.resolveAssignee(ctx, in.AssignedTo, in.AssignedToID)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}

	task := &domain.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     in.DueDate,
		Priority:    priority,
		Status:      status,
		Creator:     domain.RefID(creatorID),
	}
	if assigneeID != nil {
		ref := domain.RefID(*assigneeID)
		task.Assignee = &ref
	}

	return s.tasks.Create(ctx, task)
}

func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *TaskService) List(ctx context.Context, f repository.TaskFilter, sort repository.TaskSort) ([]*domain.Task, error) {
	return s.tasks.List(ctx, f, sort)
}

// Update applies a patch to an existing task. The acting user must be the
// creator or the assignee current before the patch. The assignee id in
// effect before the update is returned alongside the task so the caller can
// notify the right user.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput, actingUserID uuid.UUID) (*domain.Task, *uuid.UUID, error) {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if actingUserID != existing.Creator.ID() && actingUserID != existing.AssigneeID() {
		return nil, nil, domain.ErrNotTaskUpdater
	}

	var previousAssignee *uuid.UUID
	if existing.Assignee != nil {
		prev := existing.Assignee.ID()
		previousAssignee = &prev
	}

	if in.Title != nil {
		existing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		existing.Description = strings.TrimSpace(*in.Description)
	}
	if in.DueDate != nil {
		if !in.DueDate.After(s.now()) {
			return nil, nil, domain.ErrDueDateInPast
		}
		existing.DueDate = *in.DueDate
	}
	if in.Priority != nil {
		existing.Priority = *in.Priority
	}
	if in.Status != nil {
		existing.Status = *in.Status
	}

	// Assignee patch: email takes precedence over id, and an explicit
	// null or empty value un-assigns. An absent field leaves the current
	// assignee untouched.
	switch {
	case in.AssignedTo.Set:
		if in.AssignedTo.Null || strings.TrimSpace(in.AssignedTo.Value) == "" {
			existing.Assignee = nil
		} else {
			assigneeID, err := s.resolveAssignee(ctx, in.AssignedTo.Value, "")
			if err != nil {
				return nil, nil, err
			}
			ref := domain.RefID(*assigneeID)
			existing.Assignee = &ref
		}
	case in.AssignedToID.Set:
		if in.AssignedToID.Null || strings.TrimSpace(in.AssignedToID.Value) == "" {
			existing.Assignee = nil
		} else {
			assigneeID, err := s.resolveAssignee(ctx, "", in.AssignedToID.Value)
			if err != nil {
				return nil, nil, err
			}
			ref := domain.RefID(*assigneeID)
			existing.Assignee = &ref
		}
	}

	updated, err := s.tasks.Update(ctx, existing)
	if err != nil {
		return nil, nil, err
	}
	return updated, previousAssignee, nil
}

// Delete removes a task. Only the creator may delete.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID, actingUserID uuid.UUID) error {
	existing, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if actingUserID != existing.Creator.ID() {
		return domain.ErrNotTaskCreator
	}
	return s.tasks.Delete(ctx, id)
}

// Dashboard is the per-user aggregate view. A task may legitimately appear
// in more than one list.
type Dashboard struct {
	AssignedTasks []*domain.Task `json:"assignedTasks"`
	CreatedTasks  []*domain.Task `json:"createdTasks"`
	OverdueTasks  []*domain.Task `json:"overdueTasks"`
}

// GetDashboard runs the three independent queries concurrently. If any
// sub-query fails, the whole request fails.
func (s *TaskService) GetDashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)
	var d Dashboard

	g.Go(func() error {
		tasks, err := s.tasks.FindByAssignee(ctx, userID)
		d.AssignedTasks = orEmpty(tasks)
		return err
	})
	g.Go(func() error {
		tasks, err := s.tasks.FindByCreator(ctx, userID)
		d.CreatedTasks = orEmpty(tasks)
		return err
	})
	g.Go(func() error {
		tasks, err := s.tasks.FindOverdue(ctx, userID)
		d.OverdueTasks = orEmpty(tasks)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &d, nil
}

func orEmpty(tasks []*domain.Task) []*domain.Task {
	if tasks == nil {
		return []*domain.Task{}
	}
	return tasks
}
