package domain

import (
	"fmt"
	"strings"
)

type ContentType string

const (
	ContentSummary    ContentType = "summary"
	ContentFlashcards ContentType = "flashcards"
	ContentQuiz       ContentType = "quiz"
)

// ContentTypes lists the recognized study-aid kinds in display order.
var ContentTypes = []ContentType{ContentSummary, ContentFlashcards, ContentQuiz}

func (t ContentType) Valid() bool {
	switch t {
	case ContentSummary, ContentFlashcards, ContentQuiz:
		return true
	}
	return false
}

func (t ContentType) String() string { return string(t) }

// Title is the capitalized form used in user-facing messages.
func (t ContentType) Title() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseContentType(s string) (ContentType, error) {
	t := ContentType(strings.TrimSpace(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid type %q: must be one of summary, flashcards, quiz", s)
	}
	return t, nil
}

const keySep = "-"

// ContentKey identifies one generated study aid.
type ContentKey struct {
	ModuleID string
	Type     ContentType
}

func NewContentKey(moduleID string, t ContentType) ContentKey {
	return ContentKey{ModuleID: moduleID, Type: t}
}

// String is the persisted form "{moduleId}-{type}".
func (k ContentKey) String() string { return k.ModuleID + keySep + string(k.Type) }

// ParseContentKey splits on the last separator. Content types never contain the
// separator, so module ids that do still round-trip.
func ParseContentKey(s string) (ContentKey, error) {
	i := strings.LastIndex(s, keySep)
	if i <= 0 || i == len(s)-1 {
		return ContentKey{}, fmt.Errorf("malformed content key %q", s)
	}
	t := ContentType(s[i+1:])
	if !t.Valid() {
		return ContentKey{}, fmt.Errorf("content key %q: unknown type %q", s, t)
	}
	return ContentKey{ModuleID: s[:i], Type: t}, nil
}

// ScopedModuleID prefixes a module id with its course so stored keys can be
// grouped per course later.
func ScopedModuleID(courseID, moduleID string) string {
	return courseID + keySep + moduleID
}

// SplitScopedModuleID reverses ScopedModuleID. Ids without a course scope come
// back with an empty course.
func SplitScopedModuleID(scoped string) (courseID, moduleID string) {
	i := strings.Index(scoped, keySep)
	if i < 0 {
		return "", scoped
	}
	return scoped[:i], scoped[i+1:]
}
