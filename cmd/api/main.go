package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/config"
	appHTTP "github.com/ems-hr/ems-backend-go/internal/handler/http"
	"github.com/ems-hr/ems-backend-go/internal/pkg/cron"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/email"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-hr/ems-backend-go/internal/pkg/sse"
	"github.com/ems-hr/ems-backend-go/internal/pkg/storage"
	"github.com/ems-hr/ems-backend-go/internal/repository/postgresql"
	attendanceService "github.com/ems-hr/ems-backend-go/internal/service/attendance"
	serviceAuth "github.com/ems-hr/ems-backend-go/internal/service/auth"
	dashboardService "github.com/ems-hr/ems-backend-go/internal/service/dashboard"
	departmentService "github.com/ems-hr/ems-backend-go/internal/service/department"
	designationService "github.com/ems-hr/ems-backend-go/internal/service/designation"
	documentService "github.com/ems-hr/ems-backend-go/internal/service/document"
	employeeService "github.com/ems-hr/ems-backend-go/internal/service/employee"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
	leaveService "github.com/ems-hr/ems-backend-go/internal/service/leave"
	notificationService "github.com/ems-hr/ems-backend-go/internal/service/notification"
	passwordResetService "github.com/ems-hr/ems-backend-go/internal/service/passwordreset"
	taskService "github.com/ems-hr/ems-backend-go/internal/service/task"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	level := parseLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).With(
		slog.String("app", "ems-backend"),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply schema: ", err)
	}

	// Config.Validate has already parsed both durations.
	accessExp, _ := time.ParseDuration(cfg.JWT.AccessExpiration)
	streamExp, _ := time.ParseDuration(cfg.JWT.StreamExpiration)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExp, streamExp)

	tx := postgresql.NewTransactor(db)
	allocator := postgresql.NewSequenceRepository(db)
	guard := postgresql.NewGuardRepository(db)

	adminRepo := postgresql.NewAdminRepository(db)
	credentialRepo := postgresql.NewCredentialRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	designationRepo := postgresql.NewDesignationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	taskRepo := postgresql.NewTaskRepository(db)
	documentRepo := postgresql.NewDocumentRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	passwordResetRepo := postgresql.NewPasswordResetRepository(db)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage types: ", cfg.Storage.Type)
	}
	fileService := file.NewFileService(fileStorage)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	hub := sse.NewHub()

	authSvc := serviceAuth.NewAuthService(tx, allocator, guard, adminRepo, credentialRepo, employeeRepo, JWTService)
	departmentSvc := departmentService.NewDepartmentService(tx, allocator, guard, departmentRepo, designationRepo, employeeRepo)
	designationSvc := designationService.NewDesignationService(tx, allocator, designationRepo, departmentRepo, employeeRepo)
	employeeSvc := employeeService.NewEmployeeService(
		tx,
		allocator,
		guard,
		employeeRepo,
		departmentRepo,
		designationRepo,
		credentialRepo,
		fileService,
	)
	attendanceSvc := attendanceService.NewAttendanceService(tx, allocator, attendanceRepo, employeeRepo, leaveRepo)
	leaveSvc := leaveService.NewLeaveService(allocator, leaveRepo, employeeRepo, departmentRepo)
	taskSvc := taskService.NewTaskService(allocator, taskRepo, employeeRepo, departmentRepo)
	documentSvc := documentService.NewDocumentService(allocator, documentRepo, employeeRepo, departmentRepo, designationRepo, fileService)
	notificationSvc := notificationService.NewNotificationService(allocator, notificationRepo, departmentRepo, employeeRepo, hub)
	passwordResetSvc := passwordResetService.NewPasswordResetService(
		tx,
		allocator,
		passwordResetRepo,
		employeeRepo,
		credentialRepo,
		emailService,
		cfg.Reset.TTL,
	)
	dashboardSvc := dashboardService.NewDashboardService(employeeSvc, departmentSvc, designationSvc, leaveSvc, taskSvc, attendanceSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			AppName:        "ems-backend",
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       level,
			AllowedOrigins: cfg.App.AllowedOrigins,
			RequestTimeout: cfg.App.RequestTimeout,
			UploadsPath:    cfg.Storage.BasePath,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:          appHTTP.NewAuthHandler(authSvc),
			PasswordReset: appHTTP.NewPasswordResetHandler(passwordResetSvc),
			Department:    appHTTP.NewDepartmentHandler(departmentSvc, designationSvc),
			Designation:   appHTTP.NewDesignationHandler(designationSvc),
			Employee:      appHTTP.NewEmployeeHandler(employeeSvc),
			Attendance:    appHTTP.NewAttendanceHandler(attendanceSvc),
			Leave:         appHTTP.NewLeaveHandler(leaveSvc),
			Task:          appHTTP.NewTaskHandler(taskSvc),
			Document:      appHTTP.NewDocumentHandler(documentSvc),
			Notification:  appHTTP.NewNotificationHandler(notificationSvc, JWTService),
			Dashboard:     appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(attendanceSvc, taskSvc, passwordResetSvc, cfg.Reset.TTL).RegisterJobs(scheduler)
	if err := scheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start maintenance jobs: ", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", "http://localhost"+srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: ", err)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
	scheduler.Stop()
	slog.Info("Server stopped gracefully")
}
