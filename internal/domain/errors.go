package domain

import "errors"

var (
	// ErrQuestionNotFound indicates a submitted or requested question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrSubjectNotFound indicates the referenced subject does not exist.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrFeedbackNotFound indicates no feedback record matched.
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrSubmissionNotFound indicates the user never attempted the question.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrDuplicateSubject is returned when a subject name collides with an existing one.
	ErrDuplicateSubject = errors.New("subject with this name already exists")
	// ErrDuplicateAchievement is returned when an achievement name collides with an existing one.
	ErrDuplicateAchievement = errors.New("achievement with this name already exists")
	// ErrDuplicateUser is returned when a username or email is already registered.
	ErrDuplicateUser = errors.New("username or email already registered")
	// ErrSubjectHasQuestions blocks deleting a subject that still owns questions.
	ErrSubjectHasQuestions = errors.New("subject still has questions")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
