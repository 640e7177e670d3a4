package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func createTestUser(t *testing.T, repo *repository.UserRepository, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: "x",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)

	creator := createTestUser(t, users, "creator")
	assignee := createTestUser(t, users, "assignee")

	ref := domain.RefID(assignee.ID)
	created, err := tasks.Create(context.Background(), &domain.Task{
		Title:       "integration",
		Description: "round trip through postgres",
		DueDate:     time.Now().Add(24 * time.Hour),
		Priority:    domain.PriorityHigh,
		Status:      domain.StatusTodo,
		Creator:     domain.RefID(creator.ID),
		Assignee:    &ref,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := tasks.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Creator.ID() != creator.ID {
		t.Fatalf("creator = %v; want %v", got.Creator.ID(), creator.ID)
	}
	cu, ok := got.Creator.User()
	if !ok || cu.Name != "creator" {
		t.Fatalf("creator not expanded: %+v", cu)
	}
	au, ok := got.Assignee.User()
	if !ok || au.ID != assignee.ID {
		t.Fatalf("assignee not expanded: %+v", au)
	}
}

func TestTaskRepository_DanglingAssignee(t *testing.T) {
	db := testDB(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)

	creator := createTestUser(t, users, "creator")

	// A syntactically valid id with no matching user row is persisted as-is
	// and read back as a bare reference.
	ghost := uuid.New()
	ref := domain.RefID(ghost)
	created, err := tasks.Create(context.Background(), &domain.Task{
		Title:       "dangling",
		Description: "assignee row does not exist",
		DueDate:     time.Now().Add(24 * time.Hour),
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusTodo,
		Creator:     domain.RefID(creator.ID),
		Assignee:    &ref,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := tasks.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.AssigneeID() != ghost {
		t.Fatalf("assignee = %v; want %v", got.AssigneeID(), ghost)
	}
	if _, ok := got.Assignee.User(); ok {
		t.Fatal("dangling assignee must not expand to a profile")
	}
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testDB(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)

	creator := createTestUser(t, users, "creator")

	for _, p := range []domain.Priority{domain.PriorityLow, domain.PriorityUrgent} {
		_, err := tasks.Create(context.Background(), &domain.Task{
			Title:       "filter " + string(p),
			Description: "filter fixture",
			DueDate:     time.Now().Add(24 * time.Hour),
			Priority:    p,
			Status:      domain.StatusTodo,
			Creator:     domain.RefID(creator.ID),
		})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	urgent := domain.PriorityUrgent
	got, err := tasks.List(context.Background(), repository.TaskFilter{
		Priority:  &urgent,
		CreatorID: &creator.ID,
	}, repository.TaskSort{Field: repository.SortDueDate})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("filtered tasks = %d; want 1", len(got))
	}
	if got[0].Priority != domain.PriorityUrgent {
		t.Fatalf("priority = %q", got[0].Priority)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	users := repository.NewUserRepository(db)

	u := createTestUser(t, users, "dupe")
	err := users.Create(context.Background(), &domain.User{
		Name:         "clone",
		Email:        u.Email,
		PasswordHash: "y",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_Search(t *testing.T) {
	db := testDB(t)
	users := repository.NewUserRepository(db)

	u := createTestUser(t, users, "searchable")

	found, err := users.Search(context.Background(), u.Email[:12])
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var hit bool
	for _, pu := range found {
		if pu.ID == u.ID {
			hit = true
		}
	}
	if !hit {
		t.Fatalf("user %v not found by email prefix", u.ID)
	}
}
