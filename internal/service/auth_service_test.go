package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskboard/internal/domain"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserStore) Create(_ context.Context, u *domain.User) error {
	key := strings.ToLower(u.Email)
	if _, ok := f.byEmail[key]; ok {
		return domain.ErrEmailTaken
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	f.byEmail[key] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) UpdateName(_ context.Context, id uuid.UUID, name string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func initTestJWT(t *testing.T) {
	t.Helper()
	InitJWT("test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	initTestJWT(t)
	svc := NewAuthService(newFakeUserStore())

	user, token, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("user id not set")
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Fatal("password must be stored hashed")
	}
	if token == "" {
		t.Fatal("expected a session token")
	}

	got, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != user.ID {
		t.Fatalf("token user = %v; want %v", got, user.ID)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	initTestJWT(t)
	svc := NewAuthService(newFakeUserStore())

	if _, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatal(err)
	}
	_, _, err := svc.Register(context.Background(), "Imposter", "alice@example.com", "password")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	initTestJWT(t)
	svc := NewAuthService(newFakeUserStore())

	registered, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{"correct credentials", "alice@example.com", "hunter22", false},
		{"wrong password", "alice@example.com", "wrong", true},
		{"unknown email", "nobody@example.com", "hunter22", true},
	}

	for _, tc := range cases {
		user, token, err := svc.Login(context.Background(), tc.email, tc.password)
		if tc.wantErr {
			// Wrong password and unknown email must be indistinguishable.
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("%s: want ErrInvalidCredentials, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if user.ID != registered.ID {
			t.Fatalf("%s: user = %v; want %v", tc.name, user.ID, registered.ID)
		}
		if token == "" {
			t.Fatalf("%s: expected a session token", tc.name)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	initTestJWT(t)
	store := newFakeUserStore()
	svc := NewAuthService(store)

	user, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.UpdateProfile(context.Background(), user.ID, "  Alice B.  ")
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Alice B." {
		t.Fatalf("name = %q; want trimmed", updated.Name)
	}

	profile, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "Alice B." {
		t.Fatalf("profile name = %q", profile.Name)
	}
}
