package course_content_generate

import (
	"github.com/yungbote/tutorialhub-backend/internal/data/repos"
	"github.com/yungbote/tutorialhub-backend/internal/modules/coursegen"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
	"github.com/yungbote/tutorialhub-backend/internal/services"
)

type Pipeline struct {
	log     *logger.Logger
	courses repos.CourseRepo
	gen     *coursegen.Generator
}

func New(baseLog *logger.Logger, courses repos.CourseRepo, gen *coursegen.Generator) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", services.JobTypeCourseContentGenerate),
		courses: courses,
		gen:     gen,
	}
}

func (p *Pipeline) Type() string { return services.JobTypeCourseContentGenerate }
