package app

import (
	httpH "github.com/yungbote/studyaid-backend/internal/http/handlers"
)

type Handlers struct {
	Course   *httpH.CourseHandler
	Content  *httpH.ContentHandler
	Generate *httpH.GenerateHandler
	Debug    *httpH.DebugHandler
	Health   *httpH.HealthHandler
}

func wireHandlers(services Services) Handlers {
	return Handlers{
		Course:   httpH.NewCourseHandler(services.CanvasProxy),
		Content:  httpH.NewContentHandler(services.CanvasProxy),
		Generate: httpH.NewGenerateHandler(services.Generation),
		Debug:    httpH.NewDebugHandler(services.Debug),
		Health:   httpH.NewHealthHandler(),
	}
}
