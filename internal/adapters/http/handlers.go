package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// SessionContextKey is the echo context key holding the *ports.AdminSession
const SessionContextKey = "admin_session"

// AdminSessionFromContext returns the session attached by the session
// middleware, or an unauthenticated one.
func AdminSessionFromContext(c echo.Context) *ports.AdminSession {
	if session, ok := c.Get(SessionContextKey).(*ports.AdminSession); ok && session != nil {
		return session
	}
	return &ports.AdminSession{}
}

// IsAuthenticated reports whether the request carries an admin session
func IsAuthenticated(c echo.Context) bool {
	return AdminSessionFromContext(c).Authenticated
}

// PageHandler renders the public homepage
type PageHandler struct {
	projectService     ports.ProjectService
	testimonialService ports.TestimonialService
	logger             *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(projectService ports.ProjectService, testimonialService ports.TestimonialService, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		projectService:     projectService,
		testimonialService: testimonialService,
		logger:             logger,
	}
}

// Home renders the homepage with projects and testimonials, newest first
func (h *PageHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := h.projectService.List(ctx)
	if err != nil {
		h.logger.Error("List projects failed", "error", err)
		return err
	}

	testimonials, err := h.testimonialService.List(ctx)
	if err != nil {
		h.logger.Error("List testimonials failed", "error", err)
		return err
	}

	return c.Render(http.StatusOK, "index.html", map[string]interface{}{
		"Projects":     projects,
		"Testimonials": testimonials,
	})
}

// AuthHandler handles admin login, logout and the dashboard
type AuthHandler struct {
	authService        ports.AuthService
	projectService     ports.ProjectService
	testimonialService ports.TestimonialService
	messageService     ports.MessageService
	sessionCfg         config.SessionConfig
	logger             *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authService ports.AuthService,
	projectService ports.ProjectService,
	testimonialService ports.TestimonialService,
	messageService ports.MessageService,
	sessionCfg config.SessionConfig,
	logger *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		projectService:     projectService,
		testimonialService: testimonialService,
		messageService:     messageService,
		sessionCfg:         sessionCfg,
		logger:             logger,
	}
}

// LoginPage shows the login form, or the dashboard when already logged in
func (h *AuthHandler) LoginPage(c echo.Context) error {
	if IsAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}
	return c.Render(http.StatusOK, "admin_login.html", map[string]interface{}{"Error": ""})
}

// Login handles admin login form submission
func (h *AuthHandler) Login(c echo.Context) error {
	if IsAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	session, err := h.authService.Authenticate(c.Request().Context(), username, password)
	if err != nil {
		if !errors.Is(err, entities.ErrInvalidCredentials) {
			h.logger.Error("Login failed", "error", err)
		}
		h.logger.LogSecurityEvent("login_failed", username, c.RealIP(), nil)
		return c.Render(http.StatusOK, "admin_login.html", map[string]interface{}{
			"Error": "Invalid username or password.",
		})
	}

	token, err := h.authService.IssueSession(session)
	if err != nil {
		h.logger.Error("Issue session failed", "error", err)
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionCfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.sessionCfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

// Logout clears the session unconditionally
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.sessionCfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.sessionCfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(SessionContextKey, &ports.AdminSession{})

	return c.Redirect(http.StatusFound, "/admin/login")
}

// Dashboard renders all three collections, newest first
func (h *AuthHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	projects, err := h.projectService.List(ctx)
	if err != nil {
		return err
	}
	testimonials, err := h.testimonialService.List(ctx)
	if err != nil {
		return err
	}
	messages, err := h.messageService.List(ctx)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin_dashboard.html", map[string]interface{}{
		"Projects":     projects,
		"Testimonials": testimonials,
		"Messages":     messages,
		"Admin":        AdminSessionFromContext(c).Username,
	})
}

// Utility functions and helper types

// parseID reads the :id path parameter
func parseID(c echo.Context, what string) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+what+" ID")
	}
	return id, nil
}

// formField returns the submitted body value, or nil when the field is
// absent. Query-string values never count as submitted.
func formField(c echo.Context, name string) (*string, error) {
	if _, err := c.FormParams(); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}

	req := c.Request()
	values := req.PostForm
	if req.MultipartForm != nil {
		values = req.MultipartForm.Value
	}
	v, ok := values[name]
	if !ok || len(v) == 0 {
		return nil, nil
	}
	return &v[0], nil
}

// formImage opens the optional "image" part. The returned closer is never nil.
func formImage(c echo.Context) (*ports.FileUpload, func(), error) {
	noop := func() {}

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "Invalid file upload")
	}
	if header.Filename == "" {
		return nil, noop, nil
	}

	f, err := header.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "Invalid file upload")
	}

	return &ports.FileUpload{Filename: header.Filename, Content: f}, func() { f.Close() }, nil
}

// mapError converts service errors to HTTP errors
func mapError(err error) error {
	switch {
	case errors.Is(err, entities.ErrProjectNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Project not found.").SetInternal(err)
	case errors.Is(err, entities.ErrTestimonialNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Testimonial not found.").SetInternal(err)
	case errors.Is(err, entities.ErrMessageNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Message not found.").SetInternal(err)
	case errors.Is(err, entities.ErrInvalidFileType):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid file type.").SetInternal(err)
	case errors.Is(err, entities.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, validationMessage(err)).SetInternal(err)
	case errors.Is(err, entities.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
	default:
		return err
	}
}

// validationMessage keeps the field list and drops the sentinel prefix
func validationMessage(err error) string {
	prefix := entities.ErrValidation.Error() + ": "
	msg := err.Error()
	if i := strings.Index(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	if msg == "" || msg == entities.ErrValidation.Error() {
		return "Missing required fields."
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

// Request/Response types

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ProjectResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Project *entities.Project `json:"project"`
}

type TestimonialResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message,omitempty"`
	Testimonial *entities.Testimonial `json:"testimonial"`
}

type ContactMessageResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *entities.Message `json:"data,omitempty"`
}
