package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Answer is one respondent's value for a single question. The concrete value
// type depends on the owning question's declared type: string for text and
// radio, float64 for number, bool for boolean, []string for checkbox. Raw
// JSON decodes into an untyped value; Resolve checks it against the question
// type and returns the canonical form.
type Answer struct {
	value any
}

func TextAnswer(s string) Answer          { return Answer{s} }
func NumberAnswer(n float64) Answer       { return Answer{n} }
func BoolAnswer(b bool) Answer            { return Answer{b} }
func MultiChoiceAnswer(vs []string) Answer { return Answer{vs} }

func (a Answer) Value() any { return a.value }

func (a Answer) Text() string {
	s, _ := a.value.(string)
	return s
}

func (a Answer) Number() float64 {
	n, _ := a.value.(float64)
	return n
}

func (a Answer) Bool() bool {
	b, _ := a.value.(bool)
	return b
}

func (a Answer) Choices() []string {
	vs, _ := a.value.([]string)
	return vs
}

func (a Answer) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &a.value)
}

// Resolve validates the decoded value against the question type. A mismatch
// is rejected rather than coerced, with one exception: boolean questions also
// accept the "True"/"False" option labels the survey form submits.
func (a Answer) Resolve(t QuestionType) (Answer, error) {
	switch t {
	case QuestionText:
		if s, ok := a.value.(string); ok {
			return TextAnswer(s), nil
		}
	case QuestionNumber:
		if n, ok := a.value.(float64); ok {
			return NumberAnswer(n), nil
		}
	case QuestionRadio:
		if s, ok := a.value.(string); ok {
			return TextAnswer(s), nil
		}
	case QuestionCheckbox:
		if vs, ok := a.choiceList(); ok {
			return MultiChoiceAnswer(vs), nil
		}
	case QuestionBoolean:
		switch v := a.value.(type) {
		case bool:
			return BoolAnswer(v), nil
		case string:
			if strings.EqualFold(v, "true") {
				return BoolAnswer(true), nil
			}
			if strings.EqualFold(v, "false") {
				return BoolAnswer(false), nil
			}
		}
	default:
		return Answer{}, fmt.Errorf("%w: unknown question type %q", ErrInvalidInput, t)
	}
	return Answer{}, fmt.Errorf("%w: answer %v does not match question type %q", ErrInvalidInput, a.value, t)
}

func (a Answer) choiceList() ([]string, bool) {
	switch vs := a.value.(type) {
	case []string:
		return vs, true
	case []any:
		out := make([]string, len(vs))
		for i, v := range vs {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out[i] = s
		}
		return out, true
	}
	return nil, false
}
