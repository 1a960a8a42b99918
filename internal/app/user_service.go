package app

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eduquiz-service/internal/domain"
)

// UserService handles registration, credential checks and feedback messaging.
type UserService struct {
	users    UserStore
	feedback FeedbackStore
	now      func() time.Time
}

func NewUserService(users UserStore, feedback FeedbackStore) *UserService {
	return &UserService{users: users, feedback: feedback, now: time.Now}
}

// Register creates a student account with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, username, email, fullName, password string) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user := domain.User{
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: string(hash),
		CreatedAt:      s.now(),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both surface as ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) User(ctx context.Context, id int64) (domain.User, error) {
	return s.users.GetUser(ctx, id)
}

// Students lists all non-admin accounts.
func (s *UserService) Students(ctx context.Context) ([]domain.User, error) {
	return s.users.ListStudents(ctx)
}

// SendFeedback records an admin message for a student after verifying the
// student exists.
func (s *UserService) SendFeedback(ctx context.Context, adminID, studentID int64, message string) (domain.Feedback, error) {
	if _, err := s.users.GetUser(ctx, studentID); err != nil {
		return domain.Feedback{}, err
	}
	feedback := domain.Feedback{
		StudentID: studentID,
		AdminID:   adminID,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := s.feedback.CreateFeedback(ctx, &feedback); err != nil {
		return domain.Feedback{}, err
	}
	return feedback, nil
}

// FeedbackFor lists a student's feedback, newest first.
func (s *UserService) FeedbackFor(ctx context.Context, studentID int64) ([]domain.Feedback, error) {
	return s.feedback.ListFeedbackForStudent(ctx, studentID)
}
