package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService ports.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ports.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// GetProject godoc
// @Summary Get project by ID
// @Description Get project information by project ID
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/project/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	projectID, err := parseID(c, "project")
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Request().Context(), projectID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, ProjectResponse{Success: true, Project: project})
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a project from a multipart form with an optional image
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param category formData string true "Category"
// @Param status formData string true "Status"
// @Param image formData file false "Image"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Router /admin/project/add [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	req := ports.CreateProjectRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Status:      c.FormValue("status"),
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	project, err := h.projectService.Add(c.Request().Context(), req, image)
	if err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "project_add", map[string]interface{}{
		"project_id": project.ID,
	})

	return c.JSON(http.StatusOK, ProjectResponse{
		Success: true,
		Message: "Project added successfully.",
		Project: project,
	})
}

// UpdateProject godoc
// @Summary Update project
// @Description Overwrite the supplied fields of a project and optionally replace its image
// @Tags projects
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/project/edit/{id} [post]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	projectID, err := parseID(c, "project")
	if err != nil {
		return err
	}

	var req ports.UpdateProjectRequest
	for name, dst := range map[string]**string{
		"title":       &req.Title,
		"description": &req.Description,
		"category":    &req.Category,
		"status":      &req.Status,
	} {
		if *dst, err = formField(c, name); err != nil {
			return err
		}
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	project, err := h.projectService.Edit(c.Request().Context(), projectID, req, image)
	if err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "project_edit", map[string]interface{}{
		"project_id": projectID,
	})

	return c.JSON(http.StatusOK, ProjectResponse{
		Success: true,
		Message: "Project updated successfully.",
		Project: project,
	})
}

// DeleteProject godoc
// @Summary Delete project
// @Description Delete a project and its image
// @Tags projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/project/delete/{id} [post]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	projectID, err := parseID(c, "project")
	if err != nil {
		return err
	}

	if err := h.projectService.Delete(c.Request().Context(), projectID); err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "project_delete", map[string]interface{}{
		"project_id": projectID,
	})

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Project deleted."})
}
