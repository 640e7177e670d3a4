package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestUserRefJSON(t *testing.T) {
	id := uuid.New()

	bare, err := json.Marshal(RefID(id))
	if err != nil {
		t.Fatal(err)
	}
	if string(bare) != `"`+id.String()+`"` {
		t.Fatalf("bare ref = %s", bare)
	}

	expanded, err := json.Marshal(RefUser(PublicUser{ID: id, Name: "Bob", Email: "bob@example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(expanded), `"name":"Bob"`) {
		t.Fatalf("expanded ref = %s", expanded)
	}

	var back UserRef
	if err := json.Unmarshal(expanded, &back); err != nil {
		t.Fatal(err)
	}
	if back.ID() != id {
		t.Fatalf("round-trip id = %v; want %v", back.ID(), id)
	}
	if u, ok := back.User(); !ok || u.Name != "Bob" {
		t.Fatalf("round-trip lost expanded profile: %+v ok=%v", u, ok)
	}

	var fromBare UserRef
	if err := json.Unmarshal(bare, &fromBare); err != nil {
		t.Fatal(err)
	}
	if fromBare.ID() != id {
		t.Fatalf("bare round-trip id = %v", fromBare.ID())
	}
	if _, ok := fromBare.User(); ok {
		t.Fatal("bare ref should not carry a profile")
	}
}

func TestTaskJSONFieldNames(t *testing.T) {
	task := Task{
		ID:      uuid.New(),
		Title:   "naming",
		DueDate: time.Now(),
		Creator: RefID(uuid.New()),
	}
	b, err := json.Marshal(task)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"creatorId"`, `"assignedToId"`, `"dueDate"`, `"createdAt"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("missing %s in %s", key, b)
		}
	}
}

func TestTaskOverdue(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name   string
		due    time.Time
		status Status
		want   bool
	}{
		{"past and open", now.Add(-time.Hour), StatusInProgress, true},
		{"past but completed", now.Add(-time.Hour), StatusCompleted, false},
		{"future", now.Add(time.Hour), StatusTodo, false},
	}

	for _, tc := range cases {
		task := Task{DueDate: tc.due, Status: tc.status}
		if got := task.Overdue(now); got != tc.want {
			t.Fatalf("%s: overdue = %v; want %v", tc.name, got, tc.want)
		}
	}
}
