package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/deceasedone/Surveyappl/database"
	"github.com/deceasedone/Surveyappl/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "surveyappl_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, users *UserStore, email string) model.User {
	t.Helper()
	u, err := users.Create(context.Background(), email, "pw1", "Alice", model.RoleNormal)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func newSurvey(owner model.User, questions ...model.Question) model.Survey {
	now := time.Now().UTC()
	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
	}
	return model.Survey{
		ID:        uuid.NewString(),
		Title:     "T",
		UserID:    owner.ID,
		Questions: questions,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	createTestUser(t, users, "a@x.com")

	_, err := users.Create(ctx, "a@x.com", "other", "Bob", model.RoleNormal)
	if !errors.Is(err, model.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user WHERE email = 'a@x.com'`).Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 user persisted, got %d", n)
	}
}

func TestVerifyCredential(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)

	u := createTestUser(t, users, "a@x.com")

	stored, err := users.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if stored.ID != u.ID {
		t.Errorf("found wrong user: %s", stored.ID)
	}
	if !users.VerifyCredential(stored, "pw1") {
		t.Error("correct password rejected")
	}
	if users.VerifyCredential(stored, "wrong") {
		t.Error("wrong password accepted")
	}
	if string(stored.PasswordHash) == "pw1" {
		t.Error("credential stored in plaintext")
	}
}

func TestSurveyRoundTripPreservesQuestionOrder(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	surveys := NewSurveyStore(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "a@x.com")
	sv := newSurvey(owner,
		model.Question{Text: "Q1", Type: model.QuestionText},
		model.Question{Text: "Q2", Type: model.QuestionRadio, Options: []string{"red", "blue"}},
		model.Question{Text: "Q3", Type: model.QuestionBoolean, Options: []string{"True", "False"}},
	)
	if err := surveys.Insert(ctx, sv); err != nil {
		t.Fatalf("insert survey: %v", err)
	}

	got, err := surveys.FindByID(ctx, sv.ID)
	if err != nil {
		t.Fatalf("find survey: %v", err)
	}
	if got.UserName != "Alice" {
		t.Errorf("owner name not resolved: %q", got.UserName)
	}
	if len(got.Responses) != 0 {
		t.Errorf("new survey has %d responses", len(got.Responses))
	}
	if len(got.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(got.Questions))
	}
	for i, want := range []string{"Q1", "Q2", "Q3"} {
		if got.Questions[i].Text != want {
			t.Errorf("question %d out of order: %q", i, got.Questions[i].Text)
		}
	}
	if len(got.Questions[1].Options) != 2 || got.Questions[1].Options[0] != "red" {
		t.Errorf("options lost: %v", got.Questions[1].Options)
	}
}

func TestUpdateFieldsPartialPatch(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	surveys := NewSurveyStore(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "a@x.com")
	sv := newSurvey(owner, model.Question{Text: "Q1", Type: model.QuestionText})
	sv.Description = "D"
	if err := surveys.Insert(ctx, sv); err != nil {
		t.Fatalf("insert survey: %v", err)
	}

	title := "T2"
	if err := surveys.UpdateFields(ctx, sv.ID, model.SurveyPatch{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := surveys.FindByID(ctx, sv.ID)
	if err != nil {
		t.Fatalf("find survey: %v", err)
	}
	if got.Title != "T2" {
		t.Errorf("title not updated: %q", got.Title)
	}
	if got.Description != "D" {
		t.Errorf("description clobbered: %q", got.Description)
	}
	if len(got.Questions) != 1 {
		t.Errorf("questions clobbered: %v", got.Questions)
	}

	questions := []model.Question{{ID: uuid.NewString(), Text: "Q2", Type: model.QuestionNumber}}
	if err := surveys.UpdateFields(ctx, sv.ID, model.SurveyPatch{Questions: &questions}); err != nil {
		t.Fatalf("update questions: %v", err)
	}
	got, _ = surveys.FindByID(ctx, sv.ID)
	if len(got.Questions) != 1 || got.Questions[0].Text != "Q2" {
		t.Errorf("question list not replaced: %v", got.Questions)
	}
}

func TestDeleteMissingSurvey(t *testing.T) {
	db := openTestDB(t)
	surveys := NewSurveyStore(db)

	err := surveys.DeleteByID(context.Background(), uuid.NewString())
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCascadesToResponses(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	surveys := NewSurveyStore(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "a@x.com")
	q := model.Question{ID: uuid.NewString(), Text: "Q1", Type: model.QuestionText}
	sv := newSurvey(owner, q)
	if err := surveys.Insert(ctx, sv); err != nil {
		t.Fatalf("insert survey: %v", err)
	}
	err := surveys.AppendResponses(ctx, sv.ID, []model.ResponseItem{
		{QuestionID: q.ID, Answer: model.TextAnswer("hi")},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := surveys.DeleteByID(ctx, sv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM submission`).Scan(&n); err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if n != 0 {
		t.Errorf("submissions not cascaded: %d left", n)
	}
}

func TestConcurrentAppendLosesNoBatch(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	surveys := NewSurveyStore(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "a@x.com")
	q := model.Question{ID: uuid.NewString(), Text: "Q1", Type: model.QuestionNumber}
	sv := newSurvey(owner, q)
	if err := surveys.Insert(ctx, sv); err != nil {
		t.Fatalf("insert survey: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- surveys.AppendResponses(ctx, sv.ID, []model.ResponseItem{
				{QuestionID: q.ID, Answer: model.NumberAnswer(float64(i))},
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent append: %v", err)
		}
	}

	got, err := surveys.FindByID(ctx, sv.ID)
	if err != nil {
		t.Fatalf("find survey: %v", err)
	}
	if len(got.Responses) != n {
		t.Errorf("expected %d response batches, got %d", n, len(got.Responses))
	}
}

func TestAppendToMissingSurvey(t *testing.T) {
	db := openTestDB(t)
	surveys := NewSurveyStore(db)

	err := surveys.AppendResponses(context.Background(), uuid.NewString(), nil)
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionHelpers(t *testing.T) {
	db := openTestDB(t)
	users := NewUserStore(db)
	surveys := NewSurveyStore(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "a@x.com")
	sv := newSurvey(owner, model.Question{Text: "Q1", Type: model.QuestionText})
	if err := surveys.Insert(ctx, sv); err != nil {
		t.Fatalf("insert survey: %v", err)
	}

	q := model.Question{ID: uuid.NewString(), Text: "Q2", Type: model.QuestionRadio, Options: []string{"a"}}
	if err := surveys.InsertQuestion(ctx, sv.ID, q); err != nil {
		t.Fatalf("insert question: %v", err)
	}

	surveyID, err := surveys.FindQuestionSurvey(ctx, q.ID)
	if err != nil || surveyID != sv.ID {
		t.Fatalf("find question survey: %v (%s)", err, surveyID)
	}

	questions, err := surveys.QuestionsBySurvey(ctx, sv.ID)
	if err != nil {
		t.Fatalf("questions by survey: %v", err)
	}
	if len(questions) != 2 || questions[1].Text != "Q2" {
		t.Errorf("appended question not last: %v", questions)
	}

	q.Text = "Q2b"
	if err := surveys.UpdateQuestion(ctx, q); err != nil {
		t.Fatalf("update question: %v", err)
	}
	if err := surveys.DeleteQuestion(ctx, q.ID); err != nil {
		t.Fatalf("delete question: %v", err)
	}
	if err := surveys.DeleteQuestion(ctx, q.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
