package coursegen

import (
	"fmt"
	"strings"

	types "github.com/yungbote/tutorialhub-backend/internal/domain"
)

const chapterPromptTemplate = `Based on the course titled "%s" (category: %s, level: %s),
generate detailed content AND a short quiz (3-5 questions) for the chapter: "%s".
The chapter's brief description is: "%s".

Return the response strictly in the following JSON format:
{
  "chapterDetails": [
    {
      "title": "Section Title 1 (e.g., Key Concepts)",
      "explanation": "In-depth explanation for section 1. Use markdown for formatting if necessary, ensure valid JSON string escaping (e.g., newlines as \\n).",
      "code_examples": [ { "code": "<precode>Your code here (properly escaped for JSON strings)</precode>" } ]
    }
  ],
  "quiz": [
    {
      "questionText": "Clear question about chapter content.",
      "options": [
        { "id": "A", "text": "Option A" },
        { "id": "B", "text": "Option B" },
        { "id": "C", "text": "Option C" },
        { "id": "D", "text": "Option D (optional)" }
      ],
      "correctOptionId": "B",
      "explanation_for_correct_answer": "Brief reasoning (optional)."
    }
  ]
}
Ensure all text within explanations and code examples is properly escaped for JSON strings.
The 'code_examples' field should contain an array of objects, where each object has a 'code' key. The value of 'code' should be a single string, potentially with <precode> tags as shown.
The quiz should have between 3 to 5 relevant multiple-choice questions. Ensure option IDs are single uppercase letters like A, B, C, D.`

// ChapterPrompt builds the single-turn request for one chapter.
func ChapterPrompt(course *types.Course, chapter types.ChapterOutline) string {
	return fmt.Sprintf(chapterPromptTemplate,
		course.Name, course.Category, course.Level, chapter.Name, chapter.Description)
}

// VideoQuery is the search string used to find a chapter video.
func VideoQuery(courseName, chapterName string) string {
	return courseName + ": " + chapterName
}

const outlineSchemaHint = `Use exactly these JSON keys: {"course_name": string, "description": string, "category": string, "topic": string, "level": string, "duration": string, "chapters": [{"chapter_name": string, "description": string, "duration": string}]}.`

// OutlinePrompt builds the course layout request from validated user input.
func OutlinePrompt(in UserInput) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Generate a course tutorial on following details with field name, description, along with the chapter name about and duration: Category '%s' Topic '%s' Description '%s' Level '%s' Duration '%s' chapters '%d' in JSON format.\n",
		in.Category, in.Topic, in.Description, in.Difficulty, in.Duration, in.TotalChapters)
	b.WriteString(outlineSchemaHint)
	return b.String()
}
