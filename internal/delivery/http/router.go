package http

import (
	"time"

	"github.com/ShewonGun/FarmerBackup/internal/delivery/http/controllers"
	"github.com/ShewonGun/FarmerBackup/internal/models"
	"github.com/ShewonGun/FarmerBackup/internal/service"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	r.Use(cors.New(config))

	statusController := controllers.NewStatusHandler()
	authController := controllers.NewAuthHandler(l, u.AuthService)
	courseController := controllers.NewCourseHandler(l, u.CourseService)
	lessonController := controllers.NewLessonHandler(l, u.LessonService)
	quizController := controllers.NewQuizHandler(l, u.QuizService)
	enrollmentController := controllers.NewEnrollmentHandler(l, u.EnrollmentService)
	attemptController := controllers.NewAttemptHandler(l, u.AttemptService)
	certificateController := controllers.NewCertificateHandler(l, u.CertificateService)

	v1 := r.Group("/v1", controllers.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/me", authController.AuthMiddleware, authController.Me)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
		}

		courses := v1.Group("/courses")
		{
			courses.GET("", courseController.ListCourses)
			courses.GET("/:course_id", courseController.CourseByID)
			courses.GET("/:course_id/lessons", lessonController.LessonsByCourse)

			admin := courses.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
			{
				admin.POST("", courseController.CreateCourse)
				admin.PATCH("/:course_id", courseController.UpdateCourse)
				admin.DELETE("/:course_id", courseController.DeleteCourse)
				admin.POST("/:course_id/lessons", lessonController.AddLesson)
			}

			client := courses.Group("", authController.AuthMiddleware)
			{
				client.POST("/:course_id/enroll", enrollmentController.Enroll)
				client.GET("/:course_id/enrollment", enrollmentController.EnrollmentStatus)
				client.POST("/:course_id/lessons/:lesson_id/complete", enrollmentController.CompleteLesson)
				client.GET("/:course_id/attempts", attemptController.MyCourseAttempts)
				client.POST("/:course_id/certificate", certificateController.IssueCertificate)
				client.GET("/:course_id/certificate", certificateController.MyCourseCertificate)
			}
		}

		lessons := v1.Group("/lessons")
		{
			lessons.GET("/:lesson_id", lessonController.LessonByID)
			lessons.GET("/:lesson_id/quiz", quizController.QuizByLesson)

			admin := lessons.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
			{
				admin.PATCH("/:lesson_id", lessonController.UpdateLesson)
				admin.DELETE("/:lesson_id", lessonController.DeleteLesson)
				admin.POST("/:lesson_id/quiz", quizController.AddQuiz)
			}
		}

		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:quiz_id/questions", quizController.QuestionsByQuiz)

			admin := quizzes.Group("", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
			{
				admin.PATCH("/:quiz_id", quizController.UpdateQuiz)
				admin.DELETE("/:quiz_id", quizController.DeleteQuiz)
				admin.POST("/:quiz_id/questions", quizController.AddQuestion)
			}

			client := quizzes.Group("", authController.AuthMiddleware)
			{
				client.POST("/:quiz_id/attempts", attemptController.SubmitAttempt)
				client.GET("/:quiz_id/attempts", attemptController.MyQuizAttempts)
			}
		}

		questions := v1.Group("/questions", authController.AuthMiddleware, controllers.RequireRoles(models.AdminRole))
		{
			questions.PATCH("/:question_id", quizController.UpdateQuestion)
			questions.DELETE("/:question_id", quizController.DeleteQuestion)
		}

		attempts := v1.Group("/attempts", authController.AuthMiddleware)
		{
			attempts.GET("/:attempt_id", attemptController.AttemptByID)
		}

		me := v1.Group("/me", authController.AuthMiddleware)
		{
			me.GET("/enrollments", enrollmentController.MyEnrollments)
			me.GET("/certificates", certificateController.MyCertificates)
		}

		users := v1.Group("/users", authController.AuthMiddleware)
		{
			users.GET("/:user_id/certificates",
				controllers.RequireSelfOrAdmin("user_id"), certificateController.UserCertificates)
		}
	}
	return r
}
