package services

import (
	"fmt"

	"github.com/yungbote/studyaid-backend/internal/domain"
)

const SystemPrompt = "You are an expert educational content creator specializing in creating high-quality study materials. Your responses should be accurate, educational, and tailored to help students learn effectively."

const (
	summaryTemplate = "Create a comprehensive summary of the following module content from a course. Focus on the main concepts, key points, and important takeaways. Make it educational and well-structured with headings and bullet points where appropriate.\n\nModule Content:\n%s"

	flashcardsTemplate = "Create 10 educational flashcards for studying the following module content from a course. Each flashcard should have a 'front' with a question or concept, and a 'back' with the answer or explanation. Cover the most important concepts and ensure the content is accurate and educational.\n\nModule Content:\n%s"

	quizTemplate = "Create a 5-question multiple-choice quiz based on the following module content from a course. Each question should have 4 possible answers with only one correct answer. Make the questions educational, challenging but fair, and cover important concepts from the material.\n\nModule Content:\n%s"

	flashcardsFormat = `Format your response as a valid JSON array of objects, each with 'front' and 'back' properties. Example:
[
  { "front": "What is X?", "back": "X is..." },
  { "front": "When was Y developed?", "back": "Y was developed in..." }
]`

	quizFormat = `Format your response as a valid JSON array of objects, each with 'question', 'options' (array of 4 strings), and 'correctAnswer' (index of correct option, 0-3) properties. Example:
[
  {
    "question": "What is X?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswer": 2
  }
]`
)

// BuildPrompt renders the user prompt for t. Structured types get the JSON
// format instruction appended after a blank line.
func BuildPrompt(t domain.ContentType, content string) (string, error) {
	var prompt, format string
	switch t {
	case domain.ContentSummary:
		prompt = fmt.Sprintf(summaryTemplate, content)
	case domain.ContentFlashcards:
		prompt = fmt.Sprintf(flashcardsTemplate, content)
		format = flashcardsFormat
	case domain.ContentQuiz:
		prompt = fmt.Sprintf(quizTemplate, content)
		format = quizFormat
	default:
		return "", fmt.Errorf("no prompt template for content type %q", string(t))
	}
	if format != "" {
		prompt += "\n\n" + format
	}
	return prompt, nil
}
