package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deceasedone/Surveyappl/model"
	"github.com/deceasedone/Surveyappl/store"
)

// Surveys holds the business rules around the survey aggregate: owner
// resolution on create, owner-or-admin checks on mutation, and response
// validation on submit.
type Surveys struct {
	surveys *store.SurveyStore
	users   *store.UserStore
}

func NewSurveys(surveys *store.SurveyStore, users *store.UserStore) *Surveys {
	return &Surveys{surveys: surveys, users: users}
}

func (s *Surveys) ListAll(ctx context.Context) ([]model.Survey, error) {
	return s.surveys.FindAll(ctx)
}

func (s *Surveys) ListByOwner(ctx context.Context, userID string) ([]model.Survey, error) {
	return s.surveys.FindByOwner(ctx, userID)
}

func (s *Surveys) GetByID(ctx context.Context, id string) (model.Survey, error) {
	return s.surveys.FindByID(ctx, id)
}

func (s *Surveys) Create(ctx context.Context, ownerID, title, description string, questions []model.Question) (model.Survey, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return model.Survey{}, err
	}
	if strings.TrimSpace(title) == "" {
		return model.Survey{}, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}

	questions, err := normalizeQuestions(questions)
	if err != nil {
		return model.Survey{}, err
	}

	now := time.Now().UTC()
	sv := model.Survey{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		UserID:      ownerID,
		Questions:   questions,
		Responses:   [][]model.ResponseItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = s.surveys.Insert(ctx, sv)
	if err != nil {
		return model.Survey{}, err
	}
	return sv, nil
}

func (s *Surveys) Update(ctx context.Context, id string, caller model.User, patch model.SurveyPatch) (model.Survey, error) {
	sv, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return model.Survey{}, err
	}
	if err = authorizeOwner(sv, caller); err != nil {
		return model.Survey{}, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return model.Survey{}, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if patch.Questions != nil {
		questions, err := normalizeQuestions(*patch.Questions)
		if err != nil {
			return model.Survey{}, err
		}
		patch.Questions = &questions
	}

	err = s.surveys.UpdateFields(ctx, id, patch)
	if err != nil {
		return model.Survey{}, err
	}
	return s.surveys.FindByID(ctx, id)
}

func (s *Surveys) Delete(ctx context.Context, id string, caller model.User) error {
	sv, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = authorizeOwner(sv, caller); err != nil {
		return err
	}
	return s.surveys.DeleteByID(ctx, id)
}

// Submit validates a response batch against the survey's question set and
// appends it atomically. Every answer must name a question present in the
// survey and match its declared type; a single bad answer rejects the whole
// batch and nothing is stored.
func (s *Surveys) Submit(ctx context.Context, id string, batch []model.ResponseItem) error {
	sv, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return err
	}

	byID := make(map[string]model.Question, len(sv.Questions))
	for _, q := range sv.Questions {
		byID[q.ID] = q
	}

	resolved := make([]model.ResponseItem, len(batch))
	for i, item := range batch {
		q, ok := byID[item.QuestionID]
		if !ok {
			return fmt.Errorf("%w: unknown question id %q", model.ErrInvalidInput, item.QuestionID)
		}
		answer, err := item.Answer.Resolve(q.Type)
		if err != nil {
			return err
		}
		resolved[i] = model.ResponseItem{QuestionID: item.QuestionID, Answer: answer}
	}

	return s.surveys.AppendResponses(ctx, id, resolved)
}

// Results aggregates every stored batch for the results table and pie chart.
// Answers that no longer resolve (question edited after submission) are
// skipped rather than failing the whole view.
func (s *Surveys) Results(ctx context.Context, id string) (model.SurveyResults, error) {
	sv, err := s.surveys.FindByID(ctx, id)
	if err != nil {
		return model.SurveyResults{}, err
	}

	results := model.SurveyResults{
		SurveyID:      sv.ID,
		Title:         sv.Title,
		ResponseCount: len(sv.Responses),
		Questions:     make([]model.QuestionResult, len(sv.Questions)),
	}
	index := make(map[string]int, len(sv.Questions))
	for i, q := range sv.Questions {
		index[q.ID] = i
		qr := model.QuestionResult{Question: q}
		if q.Type.HasOptions() {
			qr.Counts = map[string]int{}
			for _, opt := range q.Options {
				qr.Counts[opt] = 0
			}
		}
		results.Questions[i] = qr
	}

	for _, batch := range sv.Responses {
		for _, item := range batch {
			i, ok := index[item.QuestionID]
			if !ok {
				continue
			}
			q := sv.Questions[i]
			answer, err := item.Answer.Resolve(q.Type)
			if err != nil {
				continue
			}

			qr := &results.Questions[i]
			switch q.Type {
			case model.QuestionRadio:
				qr.Counts[answer.Text()]++
			case model.QuestionCheckbox:
				for _, choice := range answer.Choices() {
					qr.Counts[choice]++
				}
			case model.QuestionBoolean:
				if answer.Bool() {
					qr.Counts["True"]++
				} else {
					qr.Counts["False"]++
				}
			default:
				qr.Values = append(qr.Values, answer.Value())
			}
		}
	}
	return results, nil
}

func (s *Surveys) QuestionsBySurvey(ctx context.Context, surveyID string) ([]model.Question, error) {
	if _, err := s.surveys.FindByID(ctx, surveyID); err != nil {
		return nil, err
	}
	return s.surveys.QuestionsBySurvey(ctx, surveyID)
}

func (s *Surveys) AddQuestion(ctx context.Context, surveyID string, caller model.User, q model.Question) (model.Question, error) {
	sv, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return model.Question{}, err
	}
	if err = authorizeOwner(sv, caller); err != nil {
		return model.Question{}, err
	}

	q, err = normalizeQuestion(q)
	if err != nil {
		return model.Question{}, err
	}
	err = s.surveys.InsertQuestion(ctx, surveyID, q)
	if err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (s *Surveys) UpdateQuestion(ctx context.Context, questionID string, caller model.User, q model.Question) (model.Question, error) {
	surveyID, err := s.surveys.FindQuestionSurvey(ctx, questionID)
	if err != nil {
		return model.Question{}, err
	}
	sv, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return model.Question{}, err
	}
	if err = authorizeOwner(sv, caller); err != nil {
		return model.Question{}, err
	}

	q.ID = questionID
	q, err = normalizeQuestion(q)
	if err != nil {
		return model.Question{}, err
	}
	err = s.surveys.UpdateQuestion(ctx, q)
	if err != nil {
		return model.Question{}, err
	}
	return q, nil
}

func (s *Surveys) RemoveQuestion(ctx context.Context, questionID string, caller model.User) error {
	surveyID, err := s.surveys.FindQuestionSurvey(ctx, questionID)
	if err != nil {
		return err
	}
	sv, err := s.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return err
	}
	if err = authorizeOwner(sv, caller); err != nil {
		return err
	}
	return s.surveys.DeleteQuestion(ctx, questionID)
}

// authorizeOwner admits the survey's owner and admins, nobody else.
func authorizeOwner(sv model.Survey, caller model.User) error {
	if caller.ID == sv.UserID {
		return nil
	}
	return RequireRole(caller, model.RoleAdmin)
}

// normalizeQuestions validates a question list and fills in generated parts:
// fresh ids, the True/False options of boolean questions. Choice questions
// must carry at least one option; text and number questions carry none.
func normalizeQuestions(questions []model.Question) ([]model.Question, error) {
	out := make([]model.Question, len(questions))
	for i, q := range questions {
		q, err := normalizeQuestion(q)
		if err != nil {
			return nil, err
		}
		out[i] = q
	}
	return out, nil
}

func normalizeQuestion(q model.Question) (model.Question, error) {
	if strings.TrimSpace(q.Text) == "" {
		return model.Question{}, fmt.Errorf("%w: question text is required", model.ErrInvalidInput)
	}
	if !q.Type.Valid() {
		return model.Question{}, fmt.Errorf("%w: unknown question type %q", model.ErrInvalidInput, q.Type)
	}

	switch q.Type {
	case model.QuestionBoolean:
		if len(q.Options) == 0 {
			q.Options = []string{"True", "False"}
		}
	case model.QuestionRadio, model.QuestionCheckbox:
		if len(q.Options) == 0 {
			return model.Question{}, fmt.Errorf("%w: %s question needs at least one option", model.ErrInvalidInput, q.Type)
		}
	default:
		q.Options = nil
	}

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return q, nil
}
