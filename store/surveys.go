package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/deceasedone/Surveyappl/model"
)

// SurveyStore persists the survey aggregate: the survey row, its ordered
// question list and every submitted response batch. It enforces no
// authorization; that is the survey service's job.
type SurveyStore struct {
	db *sql.DB
}

func NewSurveyStore(db *sql.DB) *SurveyStore {
	return &SurveyStore{db}
}

func (s *SurveyStore) Insert(ctx context.Context, sv model.Survey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO survey (id, user_id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sv.ID,
		sv.UserID,
		sv.Title,
		sv.Description,
		sv.CreatedAt,
		sv.UpdatedAt,
	)
	if err != nil {
		return err
	}

	err = insertQuestions(ctx, tx, sv.ID, sv.Questions)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SurveyStore) FindAll(ctx context.Context) ([]model.Survey, error) {
	return s.find(ctx, "", nil)
}

func (s *SurveyStore) FindByOwner(ctx context.Context, userID string) ([]model.Survey, error) {
	return s.find(ctx, "WHERE s.user_id = ?", []any{userID})
}

func (s *SurveyStore) FindByID(ctx context.Context, id string) (model.Survey, error) {
	surveys, err := s.find(ctx, "WHERE s.id = ?", []any{id})
	if err != nil {
		return model.Survey{}, err
	}
	if len(surveys) == 0 {
		return model.Survey{}, model.ErrNotFound
	}
	return surveys[0], nil
}

// find loads full aggregates: survey rows (owner name joined in), then the
// question lists and response batches for the matched ids.
func (s *SurveyStore) find(ctx context.Context, where string, args []any) ([]model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.title, s.description, s.user_id, u.name, s.created_at, s.updated_at
		FROM survey s
		INNER JOIN user u ON (u.id = s.user_id)
		`+where+`
		ORDER BY s.created_at, s.id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	surveys := []model.Survey{}
	byID := map[string]int{}
	for rows.Next() {
		sv := model.Survey{
			Questions: []model.Question{},
			Responses: [][]model.ResponseItem{},
		}
		err = rows.Scan(&sv.ID, &sv.Title, &sv.Description, &sv.UserID, &sv.UserName, &sv.CreatedAt, &sv.UpdatedAt)
		if err != nil {
			return nil, err
		}
		byID[sv.ID] = len(surveys)
		surveys = append(surveys, sv)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(surveys) == 0 {
		return surveys, nil
	}

	ids := make([]any, len(surveys))
	for i, sv := range surveys {
		ids[i] = sv.ID
	}
	in := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")"

	err = s.loadQuestions(ctx, surveys, byID, in, ids)
	if err != nil {
		return nil, err
	}
	err = s.loadResponses(ctx, surveys, byID, in, ids)
	if err != nil {
		return nil, err
	}
	return surveys, nil
}

func (s *SurveyStore) loadQuestions(ctx context.Context, surveys []model.Survey, byID map[string]int, in string, ids []any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT survey_id, id, text, type, options
		FROM survey_question
		WHERE survey_id IN `+in+`
		ORDER BY survey_id, position`,
		ids...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var surveyID string
		q := model.Question{}
		var opts sql.NullString
		err = rows.Scan(&surveyID, &q.ID, &q.Text, &q.Type, &opts)
		if err != nil {
			return err
		}
		if opts.String != "" {
			err = json.Unmarshal([]byte(opts.String), &q.Options)
			if err != nil {
				return err
			}
		}
		i := byID[surveyID]
		surveys[i].Questions = append(surveys[i].Questions, q)
	}
	return rows.Err()
}

func (s *SurveyStore) loadResponses(ctx context.Context, surveys []model.Survey, byID map[string]int, in string, ids []any) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sub.survey_id, sub.id, a.question_id, a.value
		FROM submission sub
		LEFT OUTER JOIN submission_answer a ON (a.submission_id = sub.id)
		WHERE sub.survey_id IN `+in+`
		ORDER BY sub.survey_id, sub.time, sub.id`,
		ids...,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	lastSubmission := ""
	for rows.Next() {
		var surveyID, submissionID string
		var questionID, value sql.NullString
		err = rows.Scan(&surveyID, &submissionID, &questionID, &value)
		if err != nil {
			return err
		}

		i := byID[surveyID]
		if submissionID != lastSubmission {
			surveys[i].Responses = append(surveys[i].Responses, []model.ResponseItem{})
			lastSubmission = submissionID
		}
		if !questionID.Valid {
			// batch submitted without answers
			continue
		}

		item := model.ResponseItem{QuestionID: questionID.String}
		err = json.Unmarshal([]byte(value.String), &item.Answer)
		if err != nil {
			return err
		}
		last := len(surveys[i].Responses) - 1
		surveys[i].Responses[last] = append(surveys[i].Responses[last], item)
	}
	return rows.Err()
}

// UpdateFields applies a partial update. A non-nil question list replaces the
// stored one wholesale, matching how the survey editor saves.
func (s *SurveyStore) UpdateFields(ctx context.Context, id string, patch model.SurveyPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE survey
		SET
			title = COALESCE(?, title),
			description = COALESCE(?, description),
			updated_at = ?
		WHERE id = ?`,
		patch.Title,
		patch.Description,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.ErrNotFound
	}

	if patch.Questions != nil {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM survey_question
			WHERE survey_id = ?`,
			id,
		)
		if err != nil {
			return err
		}
		err = insertQuestions(ctx, tx, id, *patch.Questions)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SurveyStore) DeleteByID(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM survey WHERE id = ?`,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.ErrNotFound
	}
	return nil
}

// AppendResponses stores one response batch as a single transaction. Nothing
// already stored is read or rewritten, so concurrent submissions to the same
// survey cannot lose each other's batches.
func (s *SurveyStore) AppendResponses(ctx context.Context, surveyID string, batch []model.ResponseItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT 1 FROM survey WHERE id = ?`,
		surveyID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if err != nil {
		return err
	}

	submissionID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO submission (id, survey_id, time) VALUES (?, ?, ?)`,
		submissionID,
		surveyID,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_answer (submission_id, question_id, value)
		VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, item := range batch {
		value, err := json.Marshal(item.Answer)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, submissionID, item.QuestionID, string(value))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SurveyStore) QuestionsBySurvey(ctx context.Context, surveyID string) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, type, options
		FROM survey_question
		WHERE survey_id = ?
		ORDER BY position`,
		surveyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q := model.Question{}
		var opts sql.NullString
		err = rows.Scan(&q.ID, &q.Text, &q.Type, &opts)
		if err != nil {
			return nil, err
		}
		if opts.String != "" {
			err = json.Unmarshal([]byte(opts.String), &q.Options)
			if err != nil {
				return nil, err
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// FindQuestionSurvey resolves a question id to the survey owning it.
func (s *SurveyStore) FindQuestionSurvey(ctx context.Context, questionID string) (string, error) {
	var surveyID string
	err := s.db.QueryRowContext(ctx, `
		SELECT survey_id FROM survey_question WHERE id = ?`,
		questionID,
	).Scan(&surveyID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNotFound
	}
	return surveyID, err
}

// InsertQuestion appends a question at the end of the survey's list.
func (s *SurveyStore) InsertQuestion(ctx context.Context, surveyID string, q model.Question) error {
	opts, err := marshalOptions(q.Options)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO survey_question (id, survey_id, position, text, type, options)
		SELECT ?, ?, COALESCE(MAX(position)+1, 0), ?, ?, ?
		FROM survey_question WHERE survey_id = ?`,
		q.ID,
		surveyID,
		q.Text,
		string(q.Type),
		opts,
		surveyID,
	)
	return err
}

func (s *SurveyStore) UpdateQuestion(ctx context.Context, q model.Question) error {
	opts, err := marshalOptions(q.Options)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE survey_question
		SET text = ?, type = ?, options = ?
		WHERE id = ?`,
		q.Text,
		string(q.Type),
		opts,
		q.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.ErrNotFound
	}
	return nil
}

func (s *SurveyStore) DeleteQuestion(ctx context.Context, questionID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM survey_question WHERE id = ?`,
		questionID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return model.ErrNotFound
	}
	return nil
}

func insertQuestions(ctx context.Context, tx *sql.Tx, surveyID string, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO survey_question (id, survey_id, position, text, type, options)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, q := range questions {
		opts, err := marshalOptions(q.Options)
		if err != nil {
			return err
		}
		_, err = stmt.ExecContext(ctx, q.ID, surveyID, i, q.Text, string(q.Type), opts)
		if err != nil {
			return err
		}
	}
	return nil
}

func marshalOptions(options []string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(options)
	return string(raw), err
}
