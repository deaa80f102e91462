package course

// CourseOutline is the course structure produced by the outline LLM call.
// Chapters are identified only by their position in Chapters.
type CourseOutline struct {
	Name        string           `json:"course_name"`
	Category    string           `json:"category"`
	Topic       string           `json:"topic,omitempty"`
	Description string           `json:"description,omitempty"`
	Level       string           `json:"level"`
	Duration    string           `json:"duration,omitempty"`
	Chapters    []ChapterOutline `json:"chapters"`
}

type ChapterOutline struct {
	Name        string `json:"chapter_name"`
	Description string `json:"description,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// ChapterNames returns the chapter names in outline order.
func (o CourseOutline) ChapterNames() []string {
	names := make([]string, 0, len(o.Chapters))
	for _, ch := range o.Chapters {
		names = append(names, ch.Name)
	}
	return names
}
