package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ShewonGun/FarmerBackup/internal/app/server"
	"github.com/ShewonGun/FarmerBackup/internal/config"
	"github.com/ShewonGun/FarmerBackup/internal/delivery/http"
	"github.com/ShewonGun/FarmerBackup/internal/render"
	"github.com/ShewonGun/FarmerBackup/internal/service"
	"github.com/ShewonGun/FarmerBackup/internal/service/attempt"
	"github.com/ShewonGun/FarmerBackup/internal/service/auth"
	"github.com/ShewonGun/FarmerBackup/internal/service/certificate"
	"github.com/ShewonGun/FarmerBackup/internal/service/course"
	"github.com/ShewonGun/FarmerBackup/internal/service/enrollment"
	"github.com/ShewonGun/FarmerBackup/internal/service/lesson"
	"github.com/ShewonGun/FarmerBackup/internal/service/quiz"
	"github.com/ShewonGun/FarmerBackup/internal/storage/elastic"
	"github.com/ShewonGun/FarmerBackup/internal/storage/minio_storage"
	"github.com/ShewonGun/FarmerBackup/internal/storage/postgres"
	"github.com/ShewonGun/FarmerBackup/pkg/logger"
)

func Run(cfg *config.Config) {

	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	pg, err := postgres.NewPostgresPool(cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.DBName)
	if err != nil {
		log.FatalErr("error connecting to database", err)
	}
	defer pg.Close()

	esClient, err := elastic.NewElasticClient(cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	searchRepo := elastic.NewCourseSearchRepository(esClient, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(context.Background()); err != nil {
		log.FatalErr("error creating search index", err)
	}

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error connecting to minio", err)
	}
	certificateFiles, err := minio_storage.NewCertificateStorage(minioStorage, cfg.Minio.CertificateBucket)
	if err != nil {
		log.FatalErr("error preparing certificate bucket", err)
	}

	userRepo := postgres.NewUserPostgres(pg.Pool)
	courseRepo := postgres.NewCoursePostgres(pg.Pool)
	lessonRepo := postgres.NewLessonPostgres(pg.Pool)
	quizRepo := postgres.NewQuizPostgres(pg.Pool)
	enrollmentRepo := postgres.NewEnrollmentPostgres(pg.Pool)
	attemptRepo := postgres.NewAttemptPostgres(pg.Pool)
	certificateRepo := postgres.NewCertificatePostgres(pg.Pool)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, "farmer-backup", cfg.JWT.AccessTTL)
	renderer := render.NewPDFRenderer(cfg.Certificate.RenderTimeout)

	authService := auth.NewAuthService(log, jwtManager, userRepo)
	courseService := course.NewCourseService(log, courseRepo, searchRepo)
	lessonService := lesson.NewLessonService(log, lessonRepo, courseRepo)
	quizService := quiz.NewQuizService(log, quizRepo, lessonRepo)
	enrollmentService := enrollment.NewEnrollmentService(log, enrollmentRepo, userRepo, courseRepo, lessonRepo)
	attemptService := attempt.NewAttemptService(log, attemptRepo, quizRepo, lessonRepo, enrollmentService)
	certificateService := certificate.NewCertificateService(
		log, certificateRepo, userRepo, courseRepo, enrollmentRepo,
		lessonRepo, quizRepo, attemptRepo, renderer, certificateFiles,
		cfg.Certificate.TempDir,
	)

	u := service.Collection{
		AuthService:        authService,
		CourseService:      courseService,
		LessonService:      lessonService,
		QuizService:        quizService,
		EnrollmentService:  enrollmentService,
		AttemptService:     attemptService,
		CertificateService: certificateService,
	}

	r := http.InitRoutes(log, u)

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("server stopped", err)
	}
	err = srv.Shutdown()
	if err != nil {
		log.ErrorErr("shutdown", err)
	}
}
