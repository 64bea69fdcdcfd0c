package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPayload marks generated flashcard/quiz text that does not decode.
// Callers should offer to regenerate.
var ErrMalformedPayload = errors.New("malformed generated payload")

type PayloadError struct {
	Type ContentType
	Err  error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *PayloadError) Unwrap() []error { return []error{ErrMalformedPayload, e.Err} }

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// StripCodeFence removes a leading ``` / ```json line and a trailing ``` that
// the model sometimes wraps JSON answers in.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func ParseFlashcards(raw string) ([]Flashcard, error) {
	var cards []Flashcard
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &cards); err != nil {
		return nil, &PayloadError{Type: ContentFlashcards, Err: err}
	}
	for i, c := range cards {
		if strings.TrimSpace(c.Front) == "" || strings.TrimSpace(c.Back) == "" {
			return nil, &PayloadError{Type: ContentFlashcards, Err: fmt.Errorf("card %d: front and back are required", i)}
		}
	}
	return cards, nil
}

func ParseQuiz(raw string) ([]QuizQuestion, error) {
	var qs []QuizQuestion
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &qs); err != nil {
		return nil, &PayloadError{Type: ContentQuiz, Err: err}
	}
	for i, q := range qs {
		if len(q.Options) != 4 {
			return nil, &PayloadError{Type: ContentQuiz, Err: fmt.Errorf("question %d: want 4 options, got %d", i, len(q.Options))}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return nil, &PayloadError{Type: ContentQuiz, Err: fmt.Errorf("question %d: correctAnswer %d out of range", i, q.CorrectAnswer)}
		}
	}
	return qs, nil
}
