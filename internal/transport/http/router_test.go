package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/auth"
	"eduquiz-service/internal/domain"
	"eduquiz-service/internal/infra/memory"
)

type apiFixture struct {
	server     *httptest.Server
	store      *memory.Store
	feed       *app.Feed
	adminToken string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := domain.User{Username: "admin", Email: "admin@example.com", FullName: "Administrator", HashedPassword: string(hash), IsAdmin: true}
	if err := store.CreateUser(context.Background(), &admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	authSvc := auth.NewService("test-secret", time.Hour)
	feed := app.NewFeed()
	catalog := memory.NewCatalogCache(store, time.Minute)
	handler := NewHandler(
		authSvc,
		app.NewUserService(store, store),
		app.NewProgressionService(catalog, store, store, feed),
		app.NewProgressService(store, store),
		app.NewCatalogService(store, store),
		feed,
	)

	adminToken, err := authSvc.Issue(admin.ID, true)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	server := httptest.NewServer(handler.Routes())
	t.Cleanup(server.Close)
	return &apiFixture{server: server, store: store, feed: feed, adminToken: adminToken}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestRegisterLoginSubmitFlow(t *testing.T) {
	f := newAPIFixture(t)

	// Admin builds the catalog.
	var subject domain.Subject
	if code := f.do(t, http.MethodPost, "/api/admin/subjects", f.adminToken, map[string]string{
		"name": "Mathematics", "description": "numbers",
	}, &subject); code != http.StatusCreated {
		t.Fatalf("create subject: status %d", code)
	}

	var question domain.Question
	if code := f.do(t, http.MethodPost, "/api/questions/", f.adminToken, map[string]any{
		"subjectId":     subject.ID,
		"questionType":  "multiple_choice",
		"questionText":  "What is 2 + 2?",
		"options":       []string{"3", "4", "5", "6"},
		"correctAnswer": map[string]int{"selected": 1},
		"points":        10,
	}, &question); code != http.StatusCreated {
		t.Fatalf("create question: status %d", code)
	}

	// Student registers and logs in.
	var registered tokenResponse
	if code := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@example.com", "fullName": "Alice", "password": "secret123",
	}, &registered); code != http.StatusCreated {
		t.Fatalf("register: status %d", code)
	}
	var logged tokenResponse
	if code := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice", "password": "secret123",
	}, &logged); code != http.StatusOK {
		t.Fatalf("login: status %d", code)
	}

	// Student sees the catalog and answers correctly.
	var subjects []domain.Subject
	if code := f.do(t, http.MethodGet, "/api/quizzes/subjects", logged.AccessToken, nil, &subjects); code != http.StatusOK {
		t.Fatalf("list subjects: status %d", code)
	}
	if len(subjects) != 1 || subjects[0].Name != "Mathematics" {
		t.Fatalf("unexpected subjects: %+v", subjects)
	}

	var result domain.SubmissionResult
	if code := f.do(t, http.MethodPost, "/api/quizzes/submit", logged.AccessToken, map[string]any{
		"questionId": question.ID,
		"answer":     map[string]int{"selected": 1},
	}, &result); code != http.StatusOK {
		t.Fatalf("submit: status %d", code)
	}
	if !result.Submission.Correct || result.Submission.PointsEarned != 10 {
		t.Fatalf("unexpected result: %+v", result)
	}

	var level domain.LevelView
	if code := f.do(t, http.MethodGet, "/api/students/level", logged.AccessToken, nil, &level); code != http.StatusOK {
		t.Fatalf("level: status %d", code)
	}
	if level.TotalExperience != 10 || level.CurrentStreak != 1 {
		t.Fatalf("unexpected level view: %+v", level)
	}

	var summary domain.ProgressSummary
	if code := f.do(t, http.MethodGet, "/api/students/progress", logged.AccessToken, nil, &summary); code != http.StatusOK {
		t.Fatalf("progress: status %d", code)
	}
	if summary.Attempted != 1 || summary.Correct != 1 || summary.Accuracy != 100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	f := newAPIFixture(t)

	var registered tokenResponse
	if code := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob", "email": "bob@example.com", "fullName": "Bob", "password": "secret123",
	}, &registered); code != http.StatusCreated {
		t.Fatalf("register: status %d", code)
	}

	if code := f.do(t, http.MethodPost, "/api/admin/subjects", registered.AccessToken, map[string]string{
		"name": "Sneaky",
	}, nil); code != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin route, got %d", code)
	}
	if code := f.do(t, http.MethodGet, "/api/admin/students", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
}

func TestSubmitUnknownQuestionReturns404(t *testing.T) {
	f := newAPIFixture(t)

	if code := f.do(t, http.MethodPost, "/api/quizzes/submit", f.adminToken, map[string]any{
		"questionId": 9999,
		"answer":     map[string]int{"selected": 0},
	}, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown question, got %d", code)
	}
}

func TestLatestSubmissionForQuestion(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()

	subject := domain.Subject{Name: "Mathematics"}
	if err := f.store.CreateSubject(ctx, &subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}
	question := domain.Question{
		SubjectID: subject.ID,
		Type:      domain.TrueFalse,
		Text:      "Seven is a prime number.",
		Key:       domain.BoolAnswer(true),
		Points:    10,
	}
	if err := f.store.CreateQuestion(ctx, &question); err != nil {
		t.Fatalf("create question: %v", err)
	}

	// Wrong answer first, then the correct one; the endpoint must return
	// the later attempt.
	for _, answer := range []bool{false, true} {
		if code := f.do(t, http.MethodPost, "/api/quizzes/submit", f.adminToken, map[string]any{
			"questionId": question.ID,
			"answer":     map[string]bool{"answer": answer},
		}, nil); code != http.StatusOK {
			t.Fatalf("submit: status %d", code)
		}
	}

	var submission domain.Submission
	path := "/api/quizzes/submissions/" + strconv.FormatInt(question.ID, 10)
	if code := f.do(t, http.MethodGet, path, f.adminToken, nil, &submission); code != http.StatusOK {
		t.Fatalf("latest submission: status %d", code)
	}
	if !submission.Correct || submission.QuestionID != question.ID {
		t.Fatalf("expected the later, correct submission, got %+v", submission)
	}

	if code := f.do(t, http.MethodGet, "/api/quizzes/submissions/9999", f.adminToken, nil, nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unattempted question, got %d", code)
	}
}

func TestDuplicateSubjectReturns409(t *testing.T) {
	f := newAPIFixture(t)

	if code := f.do(t, http.MethodPost, "/api/admin/subjects", f.adminToken, map[string]string{"name": "Science"}, nil); code != http.StatusCreated {
		t.Fatalf("create subject: status %d", code)
	}
	if code := f.do(t, http.MethodPost, "/api/admin/subjects", f.adminToken, map[string]string{"name": "Science"}, nil); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate subject, got %d", code)
	}
}

func TestDeleteSubjectWithQuestionsReturns400(t *testing.T) {
	f := newAPIFixture(t)

	var subject domain.Subject
	if code := f.do(t, http.MethodPost, "/api/admin/subjects", f.adminToken, map[string]string{"name": "Science"}, &subject); code != http.StatusCreated {
		t.Fatalf("create subject: status %d", code)
	}
	if code := f.do(t, http.MethodPost, "/api/questions/", f.adminToken, map[string]any{
		"subjectId":     subject.ID,
		"questionType":  "true_false",
		"questionText":  "Water is wet.",
		"correctAnswer": map[string]bool{"answer": true},
	}, nil); code != http.StatusCreated {
		t.Fatalf("create question: status %d", code)
	}

	if code := f.do(t, http.MethodDelete, "/api/admin/subjects/"+strconv.FormatInt(subject.ID, 10), f.adminToken, nil, nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 while questions exist, got %d", code)
	}
}

func TestFeedbackFlow(t *testing.T) {
	f := newAPIFixture(t)

	var registered tokenResponse
	if code := f.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "fullName": "Carol", "password": "secret123",
	}, &registered); code != http.StatusCreated {
		t.Fatalf("register: status %d", code)
	}

	var feedback domain.Feedback
	if code := f.do(t, http.MethodPost, "/api/admin/feedback", f.adminToken, map[string]any{
		"studentId": registered.User.ID,
		"message":   "keep it up",
	}, &feedback); code != http.StatusCreated {
		t.Fatalf("send feedback: status %d", code)
	}

	var mine []domain.Feedback
	if code := f.do(t, http.MethodGet, "/api/students/feedback", registered.AccessToken, nil, &mine); code != http.StatusOK {
		t.Fatalf("my feedback: status %d", code)
	}
	if len(mine) != 1 || mine[0].Message != "keep it up" {
		t.Fatalf("unexpected feedback: %+v", mine)
	}
}
