package app_test

import (
	"context"
	"errors"
	"testing"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
	"eduquiz-service/internal/infra/memory"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewUserService(store, store)

	user, err := service.Register(ctx, "alice", "alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 || user.HashedPassword == "secret123" {
		t.Fatalf("expected assigned ID and hashed password, got %+v", user)
	}

	authed, err := service.Authenticate(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user, got %+v", authed)
	}

	if _, err := service.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewUserService(store, store)

	if _, err := service.Register(ctx, "alice", "alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := service.Register(ctx, "alice", "other@example.com", "Other", "secret123"); !errors.Is(err, domain.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestSendFeedbackRequiresStudent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewUserService(store, store)

	if _, err := service.SendFeedback(ctx, 1, 999, "good job"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	student := domain.User{Username: "bob", Email: "bob@example.com"}
	if err := store.CreateUser(ctx, &student); err != nil {
		t.Fatalf("create user: %v", err)
	}
	feedback, err := service.SendFeedback(ctx, 1, student.ID, "good job")
	if err != nil {
		t.Fatalf("send feedback: %v", err)
	}
	if feedback.StudentID != student.ID || feedback.Message != "good job" {
		t.Fatalf("unexpected feedback: %+v", feedback)
	}

	list, err := service.FeedbackFor(ctx, student.ID)
	if err != nil {
		t.Fatalf("feedback for: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one message, got %d", len(list))
	}
}
