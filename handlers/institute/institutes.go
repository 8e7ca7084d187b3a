package institute

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/utils/middleware"
	"github.com/rehbar-pk/directory-api/utils/response"
	"gorm.io/gorm"
)

// InstituteHandler handles institute-related requests
type InstituteHandler struct {
	db      *gorm.DB
	service *services.InstituteService
}

// NewInstituteHandler creates a new institute handler
func NewInstituteHandler(db *gorm.DB) *InstituteHandler {
	return &InstituteHandler{
		db:      db,
		service: services.NewInstituteService(db),
	}
}

// ListInstitutes handles GET /api/v1/institutes
//
// Public callers see approved records only. Authenticated owners also see
// their own pending and rejected records; admins see everything.
func (h *InstituteHandler) ListInstitutes(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	search := c.Query("search", "")
	city := c.Query("city", "")
	domain := c.Query("domain", "")
	instituteType := c.Query("type", "")

	query := h.db.Model(&model.Institute{})
	query = scopeVisibility(query, c)

	if search != "" {
		query = query.Where("name ILIKE ? OR city ILIKE ? OR specialization ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if domain != "" {
		query = query.Where("domain = ?", domain)
	}
	if instituteType != "" {
		query = query.Where("type = ?", instituteType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count institutes")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var institutes []model.Institute
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&institutes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch institutes")
	}

	return response.Paginated(c, institutes, pagination)
}

// GetInstitute handles GET /api/v1/institutes/:id
func (h *InstituteHandler) GetInstitute(c *fiber.Ctx) error {
	id := c.Params("id")

	var institute model.Institute
	if err := h.db.First(&institute, "id = ? OR agent_id = ?", parseID(id), id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if !institute.PubliclyVisible() && !canSeeHidden(c, institute.OwnerID) {
		return response.NotFound(c, "Institute not found")
	}

	return response.Success(c, institute)
}

// CreateInstitute handles POST /api/v1/institutes
func (h *InstituteHandler) CreateInstitute(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var input services.CreateInstituteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	institute, err := h.service.Create(c.Context(), input, user)
	if err != nil {
		var violations model.FieldViolations
		if errors.As(err, &violations) {
			return response.FieldViolations(c, "Invalid institute submission", violations)
		}
		return response.InternalServerError(c, "Failed to create institute")
	}

	return response.Created(c, institute)
}

// UpdateInstitute handles PUT /api/v1/institutes/:id
func (h *InstituteHandler) UpdateInstitute(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var institute model.Institute
	if err := h.db.First(&institute, parseID(c.Params("id"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if institute.OwnerID != user.ID && !user.IsAdmin() {
		return response.Forbidden(c, "You can only edit your own listings")
	}

	var input services.UpdateInstituteInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.service.Update(c.Context(), &institute, input); err != nil {
		var violations model.FieldViolations
		if errors.As(err, &violations) {
			return response.FieldViolations(c, "Invalid institute update", violations)
		}
		return response.InternalServerError(c, "Failed to update institute")
	}

	return response.SuccessWithMessage(c, "Institute updated successfully", institute)
}

// DeleteInstitute handles DELETE /api/v1/institutes/:id
func (h *InstituteHandler) DeleteInstitute(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var institute model.Institute
	if err := h.db.First(&institute, parseID(c.Params("id"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if institute.OwnerID != user.ID && !user.IsAdmin() {
		return response.Forbidden(c, "You can only delete your own listings")
	}

	if err := h.db.Delete(&institute).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete institute")
	}

	return response.SuccessWithMessage(c, "Institute deleted successfully", nil)
}

// MyInstitutes handles GET /api/v1/institutes/mine
func (h *InstituteHandler) MyInstitutes(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var institutes []model.Institute
	if err := h.db.Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&institutes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch institutes")
	}

	return response.Success(c, institutes)
}

// scopeVisibility narrows a listing query to what the caller may see
func scopeVisibility(query *gorm.DB, c *fiber.Ctx) *gorm.DB {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return query.Where("approval_status = ?", model.ApprovalApproved)
	}
	if user.IsAdmin() {
		return query
	}
	return query.Where("approval_status = ? OR owner_id = ?", model.ApprovalApproved, user.ID)
}

func canSeeHidden(c *fiber.Ctx, ownerID uint) bool {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return false
	}
	return user.IsAdmin() || user.ID == ownerID
}

// parseID turns a path parameter into a numeric id, 0 when not numeric
func parseID(s string) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
