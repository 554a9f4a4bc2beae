package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/handler/http/middleware"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterOptions carries the process-level settings the router needs.
type RouterOptions struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	RequestTimeout time.Duration
	UploadsPath    string
}

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Auth          AuthHandler
	PasswordReset PasswordResetHandler
	Department    DepartmentHandler
	Designation   DesignationHandler
	Employee      EmployeeHandler
	Attendance    AttendanceHandler
	Leave         LeaveHandler
	Task          TaskHandler
	Document      DocumentHandler
	Notification  NotificationHandler
	Dashboard     DashboardHandler
}

func NewRouter(opts RouterOptions, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opts.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", opts.AppName),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.UploadsPath != "" {
		r.Handle("/uploads/*", uploadsHandler(opts.UploadsPath))
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Long-lived; authenticated by the ?token= stream token, no timeout.
		r.Get("/notifications/stream", h.Notification.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(timeout))
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))

			// Public
			r.Route("/auth", func(r chi.Router) {
				r.Post("/admin/login", h.Auth.AdminLogin)
				r.Post("/employee/login", h.Auth.EmployeeLogin)
				r.With(middleware.AuthRequired).Post("/stream-token", h.Auth.StreamToken)
			})

			// The first admin may be created without a token.
			r.With(middleware.OptionalAuth).Post("/admins", h.Auth.CreateAdmin)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(middleware.AuthRequired)

				// Not a subrouter: POST /admins is mounted above without auth.
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/admins", h.Auth.ListAdmins)
					r.Put("/admins/{id}", h.Auth.UpdateAdmin)
					r.Delete("/admins/{id}", h.Auth.DeleteAdmin)
				})

				r.Route("/credentials", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Auth.RegisterCredential)
					r.Get("/", h.Auth.ListCredentials)
					r.Patch("/{id}/status", h.Auth.UpdateCredentialStatus)
					r.Delete("/{id}", h.Auth.DeleteCredential)
				})

				r.Route("/password-resets", func(r chi.Router) {
					r.Get("/", h.PasswordReset.List)
					r.Get("/{id}", h.PasswordReset.Get)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.PasswordReset.Create)
						r.Patch("/{id}", h.PasswordReset.Resolve)
						r.Delete("/{id}", h.PasswordReset.Delete)
					})
				})

				r.Route("/departments", func(r chi.Router) {
					r.Get("/", h.Department.List)
					r.Get("/count", h.Department.Count)
					r.Get("/{id}", h.Department.Get)
					r.Get("/{id}/designations", h.Department.ListDesignations)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.Department.Create)
						r.Put("/{id}", h.Department.Update)
						r.Delete("/{id}", h.Department.Delete)
					})
				})

				r.Route("/designations", func(r chi.Router) {
					r.Get("/", h.Designation.List)
					r.Get("/count", h.Designation.Count)
					r.Get("/{id}", h.Designation.Get)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.Designation.Create)
						r.Put("/{id}", h.Designation.Update)
						r.Delete("/{id}", h.Designation.Delete)
					})
				})

				r.Route("/employees", func(r chi.Router) {
					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/", h.Employee.ListEmployees)
						r.Post("/", h.Employee.CreateEmployee)
						r.Get("/count", h.Employee.CountEmployees)
						r.Get("/generate-code", h.Employee.GenerateCode)
						r.Get("/check-email", h.Employee.CheckEmail)
						r.Delete("/{id}", h.Employee.DeleteEmployee)
					})

					// Admin or the employee themselves
					r.Get("/{id}", h.Employee.GetEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Get("/{id}/attendance", h.Attendance.ListByEmployee)
					r.Get("/{id}/leaves", h.Leave.ListByEmployee)
					r.Get("/{id}/tasks", h.Task.ListByEmployee)
					r.Get("/{id}/documents", h.Document.ListByEmployee)
				})

				r.Route("/attendance", func(r chi.Router) {
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
					r.Get("/today", h.Attendance.Today)
					r.Delete("/{id}", h.Attendance.Delete)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/", h.Attendance.ListAll)
						r.Put("/{id}", h.Attendance.UpdateStatus)
					})
				})

				r.Route("/leaves", func(r chi.Router) {
					r.Post("/", h.Leave.Apply)
					r.Get("/{id}", h.Leave.Get)
					r.Delete("/{id}", h.Leave.Delete)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/", h.Leave.ListAll)
						r.Get("/count", h.Leave.Count)
						r.Get("/pending/count", h.Leave.CountPending)
						r.Patch("/{id}/status", h.Leave.UpdateStatus)
					})
				})

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/{id}", h.Task.Get)
					r.Put("/{id}", h.Task.Update)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Post("/", h.Task.Create)
						r.Get("/", h.Task.ListAll)
						r.Get("/pending/count", h.Task.CountPending)
						r.Delete("/{id}", h.Task.Delete)
					})
				})

				r.Route("/documents", func(r chi.Router) {
					r.Post("/", h.Document.Upload)
					r.Delete("/{id}", h.Document.Delete)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Get("/", h.Document.ListAll)
						r.Get("/{id}", h.Document.Get)
					})
				})

				r.Get("/notifications", h.Notification.List)
				r.Get("/notifications/{id}", h.Notification.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/notifications", h.Notification.Create)
					r.Put("/notifications/{id}", h.Notification.Update)
					r.Delete("/notifications/{id}", h.Notification.Delete)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Dashboard.GetSummary)
					r.Get("/attendance", h.Dashboard.GetDailyAttendance)
				})
			})
		})
	})
	return r
}

// uploadsHandler serves stored files as downloads so browsers never render
// them inline on the API origin.
func uploadsHandler(dir string) http.Handler {
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Disposition", "attachment")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
		fs.ServeHTTP(w, r)
	})
}
