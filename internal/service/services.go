package service

import (
	"github.com/ShewonGun/FarmerBackup/internal/service/attempt"
	"github.com/ShewonGun/FarmerBackup/internal/service/auth"
	"github.com/ShewonGun/FarmerBackup/internal/service/certificate"
	"github.com/ShewonGun/FarmerBackup/internal/service/course"
	"github.com/ShewonGun/FarmerBackup/internal/service/enrollment"
	"github.com/ShewonGun/FarmerBackup/internal/service/lesson"
	"github.com/ShewonGun/FarmerBackup/internal/service/quiz"
)

type Collection struct {
	*auth.AuthService
	*course.CourseService
	*lesson.LessonService
	*quiz.QuizService
	*enrollment.EnrollmentService
	*attempt.AttemptService
	*certificate.CertificateService
}
