package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpHandlers "github.com/rrrconstruction/portfolio/internal/adapters/http"
	"github.com/rrrconstruction/portfolio/internal/adapters/repository"
	"github.com/rrrconstruction/portfolio/internal/adapters/storage"
	"github.com/rrrconstruction/portfolio/internal/application/services"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	store   *database.Store
	uploads *storage.UploadManager
}

// New creates a new server instance
func New(cfg *config.Config, store *database.Store, uploads *storage.UploadManager, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	e.Renderer = renderer

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Initialize repositories
	projectRepo := repository.NewProjectRepository(store)
	testimonialRepo := repository.NewTestimonialRepository(store)
	messageRepo := repository.NewMessageRepository(store)
	adminRepo := repository.NewAdminRepository(store)

	// Initialize services
	validate := services.NewValidator()
	authService := services.NewAuthService(adminRepo, cfg.Admin, cfg.Session, appLogger)
	projectService := services.NewProjectService(projectRepo, uploads, validate, appLogger)
	testimonialService := services.NewTestimonialService(testimonialRepo, uploads, validate, appLogger)
	messageService := services.NewMessageService(messageRepo, validate, appLogger)

	// Initialize handlers
	h := handlers{
		page:        httpHandlers.NewPageHandler(projectService, testimonialService, appLogger),
		auth:        httpHandlers.NewAuthHandler(authService, projectService, testimonialService, messageService, cfg.Session, appLogger),
		project:     httpHandlers.NewProjectHandler(projectService, appLogger),
		testimonial: httpHandlers.NewTestimonialHandler(testimonialService, appLogger),
		message:     httpHandlers.NewMessageHandler(messageService, appLogger),
	}

	server := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		store:   store,
		uploads: uploads,
	}

	// Setup middleware
	server.setupMiddleware(authService)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics(projectService, testimonialService, messageService)
	}

	// Setup routes
	server.setupRoutes(h)

	return server, nil
}

type handlers struct {
	page        *httpHandlers.PageHandler
	auth        *httpHandlers.AuthHandler
	project     *httpHandlers.ProjectHandler
	testimonial *httpHandlers.TestimonialHandler
	message     *httpHandlers.MessageHandler
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(authService ports.AuthService) {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			reqLogger := s.logger.WithRequestID(values.RequestID)
			latencyMs := float64(values.Latency.Nanoseconds()) / 1000000

			if values.Error != nil {
				reqLogger.WithError(values.Error).Error("HTTP request failed",
					"method", values.Method,
					"uri", values.URI,
					"status", values.Status,
					"latency_ms", latencyMs,
					"remote_ip", values.RemoteIP,
				)
				return nil
			}

			reqLogger.LogHTTPRequest(values.Method, values.URI, values.UserAgent, values.RemoteIP, values.Status, latencyMs)
			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.POST},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; img-src 'self' data:",
	}))

	// Uploads are capped for every request
	s.echo.Use(middleware.BodyLimit(s.config.Storage.MaxUploadSize))

	// Timeout middleware
	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      s.config.Server.RequestTimeout,
			ErrorMessage: `{"success":false,"message":"Request timed out"}`,
		}))
	}

	// Session cookie parsing
	s.echo.Use(s.sessionMiddleware(authService))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(h handlers) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Public site
	s.echo.GET("/", h.page.Home)
	s.echo.Static("/static/uploads", s.uploads.Dir())

	// Public API
	api := s.echo.Group("/api")
	api.POST("/contact", h.message.SubmitContact)
	api.GET("/project/:id", h.project.GetProject, s.requireAdmin)
	api.GET("/testimonial/:id", h.testimonial.GetTestimonial, s.requireAdmin)

	// Admin pages
	admin := s.echo.Group("/admin")
	admin.GET("/login", h.auth.LoginPage)
	admin.POST("/login", h.auth.Login)
	admin.GET("/logout", h.auth.Logout)
	admin.GET("/dashboard", h.auth.Dashboard, s.requireAdminPage)

	// Admin mutations
	projects := admin.Group("/project", s.requireAdmin)
	projects.POST("/add", h.project.CreateProject)
	projects.POST("/edit/:id", h.project.UpdateProject)
	projects.POST("/delete/:id", h.project.DeleteProject)

	testimonials := admin.Group("/testimonial", s.requireAdmin)
	testimonials.POST("/add", h.testimonial.CreateTestimonial)
	testimonials.POST("/edit/:id", h.testimonial.UpdateTestimonial)
	testimonials.POST("/delete/:id", h.testimonial.DeleteTestimonial)

	messages := admin.Group("/message", s.requireAdmin)
	messages.POST("/status/:id", h.message.UpdateMessageStatus)
	messages.POST("/delete/:id", h.message.DeleteMessage)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics(projects ports.ProjectService, testimonials ports.TestimonialService, messages ports.MessageService) {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Collection sizes are read at scrape time
	count := func(collection string, list func(context.Context) (int, error)) prometheus.GaugeFunc {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name:        "portfolio_records",
			Help:        "Number of stored records per collection",
			ConstLabels: prometheus.Labels{"collection": collection},
		}, func() float64 {
			n, err := list(context.Background())
			if err != nil {
				s.logger.Warn("Metrics collection read failed", "collection", collection, "error", err)
				return 0
			}
			return float64(n)
		})
	}
	registry.MustRegister(
		count("projects", func(ctx context.Context) (int, error) {
			items, err := projects.List(ctx)
			return len(items), err
		}),
		count("testimonials", func(ctx context.Context) (int, error) {
			items, err := testimonials.List(ctx)
			return len(items), err
		}),
		count("messages", func(ctx context.Context) (int, error) {
			items, err := messages.List(ctx)
			return len(items), err
		}),
	)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Storage health check
	if err := s.store.HealthCheck(); err != nil {
		status = "error"
		checks["storage"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["storage"] = map[string]interface{}{
			"status": "ok",
			"stats":  s.store.GetStorageInfo(),
		}
	}

	checks["uploads"] = map[string]interface{}{
		"status": "ok",
		"dir":    s.uploads.Dir(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.store.Ping(); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "storage_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ServeHTTP lets the server be driven directly by net/http and httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.Server.IdleTimeout

	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler renders every error as {success:false, message}
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  = http.StatusText(http.StatusInternalServerError)
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		// Send response
		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, httpHandlers.MessageResponse{Success: false, Message: msg})
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
