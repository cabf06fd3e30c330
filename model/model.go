package model

import "time"

type Role string

const (
	RoleNormal Role = "normal"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleNormal || r == RoleAdmin
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionNumber   QuestionType = "number"
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionBoolean  QuestionType = "boolean"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionRadio, QuestionCheckbox, QuestionBoolean:
		return true
	}
	return false
}

// HasOptions reports whether questions of this type carry a fixed option list.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionRadio, QuestionCheckbox, QuestionBoolean:
		return true
	}
	return false
}

type Question struct {
	ID      string       `json:"id,omitempty"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
}

// Survey is the aggregate root: metadata, the ordered question list and every
// response batch collected so far. Responses are append-only.
type Survey struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	UserID      string           `json:"userId"`
	UserName    string           `json:"userName,omitempty"`
	Questions   []Question       `json:"questions"`
	Responses   [][]ResponseItem `json:"responses"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// ResponseItem is one answered question within a response batch.
type ResponseItem struct {
	QuestionID string `json:"questionId"`
	Answer     Answer `json:"answer"`
}

// SurveyPatch carries the updatable survey fields; nil means "leave as is".
// A non-nil Questions replaces the whole question list.
type SurveyPatch struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Questions   *[]Question `json:"questions"`
}
