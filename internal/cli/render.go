package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

// Raw HTML inside generated markdown is escaped.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// regenerateHint is printed when stored content cannot be decoded.
const regenerateHint = "stored content could not be read; run generate with --force to regenerate"

func RenderSummary(w io.Writer, markdown string, asHTML bool) error {
	if !asHTML {
		_, err := fmt.Fprintln(w, strings.TrimSpace(markdown))
		return err
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func RenderFlashcards(w io.Writer, raw string) error {
	cards, err := domain.ParseFlashcards(raw)
	if err != nil {
		return payloadErr(err)
	}
	for i, c := range cards {
		fmt.Fprintf(w, "Card %d/%d\n  Front: %s\n  Back:  %s\n\n", i+1, len(cards), c.Front, c.Back)
	}
	return nil
}

// RenderQuiz prints every question with its options; the correct option is
// marked only when showAnswers is set.
func RenderQuiz(w io.Writer, raw string, showAnswers bool) error {
	qs, err := domain.ParseQuiz(raw)
	if err != nil {
		return payloadErr(err)
	}
	for i, q := range qs {
		fmt.Fprintf(w, "Q%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			mark := " "
			if showAnswers && j == q.CorrectAnswer {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %c) %s\n", mark, 'A'+j, opt)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// Render dispatches on content type.
func Render(w io.Writer, t domain.ContentType, raw string, opts RenderOptions) error {
	switch t {
	case domain.ContentSummary:
		return RenderSummary(w, raw, opts.HTML)
	case domain.ContentFlashcards:
		return RenderFlashcards(w, raw)
	case domain.ContentQuiz:
		return RenderQuiz(w, raw, opts.ShowAnswers)
	default:
		return fmt.Errorf("cannot render content type %q", string(t))
	}
}

type RenderOptions struct {
	HTML        bool
	ShowAnswers bool
}

func payloadErr(err error) error {
	if errors.Is(err, domain.ErrMalformedPayload) {
		return fmt.Errorf("%s: %w", regenerateHint, err)
	}
	return err
}
