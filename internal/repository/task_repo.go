package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskFilter enumerates the recognized list filters. Each field is
// independently optional.
type TaskFilter struct {
	Status       *domain.Status
	Priority     *domain.Priority
	AssignedToID *uuid.UUID
	CreatorID    *uuid.UUID
	Overdue      bool
}

type SortField string

const (
	SortDueDate   SortField = "dueDate"
	SortCreatedAt SortField = "createdAt"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
)

var sortColumns = map[SortField]string{
	SortDueDate:   "t.due_date",
	SortCreatedAt: "t.created_at",
	SortPriority:  "t.priority",
	SortStatus:    "t.status",
}

type TaskSort struct {
	Field SortField
	Desc  bool
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.due_date, t.priority, t.status,
	       t.creator_id, t.assigned_to_id, t.created_at, t.updated_at,
	       c.name, c.email, a.name, a.email
	FROM tasks t
	JOIN users c ON c.id = t.creator_id
	LEFT JOIN users a ON a.id = t.assigned_to_id`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	var assignee *uuid.UUID
	if t.Assignee != nil {
		id := t.Assignee.ID()
		assignee = &id
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, title, description, due_date, priority, status, creator_id, assigned_to_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Title, t.Description, t.DueDate, t.Priority, t.Status, t.Creator.ID(), assignee)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	return t, err
}

// Update persists the task's mutable fields and returns the fresh row with
// expanded user references.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	var assignee *uuid.UUID
	if t.Assignee != nil {
		id := t.Assignee.ID()
		assignee = &id
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, priority = $4,
		     status = $5, assigned_to_id = $6, updated_at = $7
		 WHERE id = $8`,
		t.Title, t.Description, t.DueDate, t.Priority, t.Status, assignee,
		time.Now().UTC(), t.ID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// List returns tasks matching the filter in the requested order.
func (r *TaskRepository) List(ctx context.Context, f TaskFilter, s TaskSort) ([]*domain.Task, error) {
	var where []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != nil {
		where = append(where, "t.status = "+arg(*f.Status))
	}
	if f.Priority != nil {
		where = append(where, "t.priority = "+arg(*f.Priority))
	}
	if f.AssignedToID != nil {
		where = append(where, "t.assigned_to_id = "+arg(*f.AssignedToID))
	}
	if f.CreatorID != nil {
		where = append(where, "t.creator_id = "+arg(*f.CreatorID))
	}
	if f.Overdue {
		where = append(where, "t.due_date < "+arg(time.Now().UTC()))
		where = append(where, "t.status <> "+arg(domain.StatusCompleted))
	}

	q := taskSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}

	col, ok := sortColumns[s.Field]
	if !ok {
		col = sortColumns[SortDueDate]
	}
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	q += " ORDER BY " + col + " " + dir

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindByAssignee returns tasks currently assigned to the user, soonest due
// first.
func (r *TaskRepository) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		taskSelect+` WHERE t.assigned_to_id = $1 ORDER BY t.due_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindByCreator returns tasks created by the user, soonest due first.
func (r *TaskRepository) FindByCreator(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		taskSelect+` WHERE t.creator_id = $1 ORDER BY t.due_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

// FindOverdue returns open tasks past their due date where the user is
// creator or assignee.
func (r *TaskRepository) FindOverdue(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		taskSelect+` WHERE t.due_date < $1 AND t.status <> $2
		 AND (t.creator_id = $3 OR t.assigned_to_id = $3)
		 ORDER BY t.due_date ASC`,
		time.Now().UTC(), domain.StatusCompleted, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t             domain.Task
		creatorID     uuid.UUID
		assigneeID    *uuid.UUID
		creatorName   string
		creatorEmail  string
		assigneeName  *string
		assigneeEmail *string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Status,
		&creatorID, &assigneeID, &t.CreatedAt, &t.UpdatedAt,
		&creatorName, &creatorEmail, &assigneeName, &assigneeEmail)
	if err != nil {
		return nil, err
	}

	t.Creator = domain.RefUser(domain.PublicUser{ID: creatorID, Name: creatorName, Email: creatorEmail})
	if assigneeID != nil {
		var ref domain.UserRef
		if assigneeName != nil && assigneeEmail != nil {
			ref = domain.RefUser(domain.PublicUser{ID: *assigneeID, Name: *assigneeName, Email: *assigneeEmail})
		} else {
			// assignee id never resolved to a user row; keep the bare id
			ref = domain.RefID(*assigneeID)
		}
		t.Assignee = &ref
	}
	return &t, nil
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}
