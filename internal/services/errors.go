package services

import (
	"errors"
	"net/http"

	"github.com/yungbote/tutorialhub-backend/internal/platform/apierr"
)

var (
	errUnauthenticated = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("not authenticated"))
	ErrCourseNotFound  = apierr.NotFound("course_not_found", errors.New("course not found"))
	ErrNotCourseOwner  = apierr.Forbidden("not_course_owner", errors.New("only the course creator can do this"))
)
