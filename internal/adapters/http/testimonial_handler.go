package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
	"github.com/rrrconstruction/portfolio/internal/ports"
)

// TestimonialHandler handles testimonial-related requests
type TestimonialHandler struct {
	testimonialService ports.TestimonialService
	logger             *logger.Logger
}

// NewTestimonialHandler creates a new testimonial handler
func NewTestimonialHandler(testimonialService ports.TestimonialService, logger *logger.Logger) *TestimonialHandler {
	return &TestimonialHandler{
		testimonialService: testimonialService,
		logger:             logger,
	}
}

// GetTestimonial godoc
// @Summary Get testimonial by ID
// @Tags testimonials
// @Produce json
// @Param id path int true "Testimonial ID"
// @Success 200 {object} TestimonialResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/testimonial/{id} [get]
func (h *TestimonialHandler) GetTestimonial(c echo.Context) error {
	testimonialID, err := parseID(c, "testimonial")
	if err != nil {
		return err
	}

	testimonial, err := h.testimonialService.Get(c.Request().Context(), testimonialID)
	if err != nil {
		return mapError(err)
	}

	return c.JSON(http.StatusOK, TestimonialResponse{Success: true, Testimonial: testimonial})
}

// CreateTestimonial godoc
// @Summary Create a new testimonial
// @Tags testimonials
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Client name"
// @Param company formData string true "Company"
// @Param text formData string true "Testimonial text"
// @Param rating formData int true "Rating 1-5"
// @Param image formData file false "Photo"
// @Success 200 {object} TestimonialResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Router /admin/testimonial/add [post]
func (h *TestimonialHandler) CreateTestimonial(c echo.Context) error {
	req := ports.CreateTestimonialRequest{
		Name:    c.FormValue("name"),
		Company: c.FormValue("company"),
		Text:    c.FormValue("text"),
	}

	if raw := c.FormValue("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid rating.")
		}
		req.Rating = rating
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	testimonial, err := h.testimonialService.Add(c.Request().Context(), req, image)
	if err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "testimonial_add", map[string]interface{}{
		"testimonial_id": testimonial.ID,
	})

	return c.JSON(http.StatusOK, TestimonialResponse{
		Success:     true,
		Message:     "Testimonial added successfully.",
		Testimonial: testimonial,
	})
}

// UpdateTestimonial godoc
// @Summary Update testimonial
// @Tags testimonials
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Testimonial ID"
// @Success 200 {object} TestimonialResponse
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/testimonial/edit/{id} [post]
func (h *TestimonialHandler) UpdateTestimonial(c echo.Context) error {
	testimonialID, err := parseID(c, "testimonial")
	if err != nil {
		return err
	}

	var req ports.UpdateTestimonialRequest
	for name, dst := range map[string]**string{
		"name":    &req.Name,
		"company": &req.Company,
		"text":    &req.Text,
	} {
		if *dst, err = formField(c, name); err != nil {
			return err
		}
	}

	raw, err := formField(c, "rating")
	if err != nil {
		return err
	}
	if raw != nil {
		rating, convErr := strconv.Atoi(*raw)
		if convErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid rating.")
		}
		req.Rating = &rating
	}

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	testimonial, err := h.testimonialService.Edit(c.Request().Context(), testimonialID, req, image)
	if err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "testimonial_edit", map[string]interface{}{
		"testimonial_id": testimonialID,
	})

	return c.JSON(http.StatusOK, TestimonialResponse{
		Success:     true,
		Message:     "Testimonial updated successfully.",
		Testimonial: testimonial,
	})
}

// DeleteTestimonial godoc
// @Summary Delete testimonial
// @Tags testimonials
// @Produce json
// @Param id path int true "Testimonial ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /admin/testimonial/delete/{id} [post]
func (h *TestimonialHandler) DeleteTestimonial(c echo.Context) error {
	testimonialID, err := parseID(c, "testimonial")
	if err != nil {
		return err
	}

	if err := h.testimonialService.Delete(c.Request().Context(), testimonialID); err != nil {
		return mapError(err)
	}

	h.logger.LogAdminAction(AdminSessionFromContext(c).Username, "testimonial_delete", map[string]interface{}{
		"testimonial_id": testimonialID,
	})

	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Testimonial deleted."})
}
