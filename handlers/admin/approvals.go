package admin

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/utils/middleware"
	"github.com/rehbar-pk/directory-api/utils/response"
	"gorm.io/gorm"
)

// ApprovalHandler handles the listing approval queue
type ApprovalHandler struct {
	db           *gorm.DB
	institutes   *services.InstituteService
	emailService *services.EmailService
}

// NewApprovalHandler creates a new approval handler
func NewApprovalHandler(db *gorm.DB, emailService *services.EmailService) *ApprovalHandler {
	return &ApprovalHandler{
		db:           db,
		institutes:   services.NewInstituteService(db),
		emailService: emailService,
	}
}

// DecisionRequest carries the admin's verdict on a pending listing
type DecisionRequest struct {
	Notes string `json:"notes"`
}

// ListPending handles GET /admin/approvals
// Returns pending institutes and shops in one queue, oldest first.
func (h *ApprovalHandler) ListPending(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var institutes []model.Institute
	if err := h.db.Where("approval_status = ?", model.ApprovalPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&institutes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch pending institutes")
	}

	var shops []model.Shop
	if err := h.db.Where("approval_status = ?", model.ApprovalPending).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&shops).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch pending shops")
	}

	return response.Success(c, fiber.Map{
		"institutes": institutes,
		"shops":      shops,
	})
}

// ApproveInstitute handles POST /admin/approvals/institutes/:id/approve
func (h *ApprovalHandler) ApproveInstitute(c *fiber.Ctx) error {
	return h.decideInstitute(c, true)
}

// RejectInstitute handles POST /admin/approvals/institutes/:id/reject
func (h *ApprovalHandler) RejectInstitute(c *fiber.Ctx) error {
	return h.decideInstitute(c, false)
}

func (h *ApprovalHandler) decideInstitute(c *fiber.Ctx, approve bool) error {
	admin, ok := middleware.GetUser(c)
	if !ok || admin == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	instituteID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid institute ID")
	}

	var institute model.Institute
	if err := h.db.First(&institute, uint(instituteID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Institute not found")
		}
		return response.InternalServerError(c, "Failed to fetch institute")
	}

	if err := h.institutes.Decide(c.Context(), &institute, admin, approve, req.Notes); err != nil {
		if errors.Is(err, model.ErrDecisionAlreadyMade) {
			return response.Conflict(c, "A decision has already been recorded for this institute")
		}
		return response.InternalServerError(c, "Failed to record decision")
	}

	// Owner notification is best effort
	_ = h.emailService.SendApprovalEmail(institute.OwnerEmail, institute.Name, approve, req.Notes)

	return response.SuccessWithMessage(c, "Decision recorded", institute)
}

// ApproveShop handles POST /admin/approvals/shops/:id/approve
func (h *ApprovalHandler) ApproveShop(c *fiber.Ctx) error {
	return h.decideShop(c, true)
}

// RejectShop handles POST /admin/approvals/shops/:id/reject
func (h *ApprovalHandler) RejectShop(c *fiber.Ctx) error {
	return h.decideShop(c, false)
}

func (h *ApprovalHandler) decideShop(c *fiber.Ctx, approve bool) error {
	admin, ok := middleware.GetUser(c)
	if !ok || admin == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req DecisionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	shopID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid shop ID")
	}

	var shop model.Shop
	if err := h.db.First(&shop, uint(shopID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Shop not found")
		}
		return response.InternalServerError(c, "Failed to fetch shop")
	}

	now := time.Now()
	if approve {
		err = shop.Approve(admin.ID, req.Notes, now)
	} else {
		err = shop.Reject(admin.ID, req.Notes, now)
	}
	if err != nil {
		if errors.Is(err, model.ErrDecisionAlreadyMade) {
			return response.Conflict(c, "A decision has already been recorded for this shop")
		}
		return response.InternalServerError(c, "Failed to record decision")
	}

	if err := h.db.Model(&shop).Updates(map[string]interface{}{
		"approval_status": shop.ApprovalStatus,
		"approval_notes":  shop.ApprovalNotes,
		"approved_by_id":  shop.ApprovedByID,
		"approved_at":     shop.ApprovedAt,
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to record decision")
	}

	_ = h.emailService.SendApprovalEmail(shop.OwnerEmail, shop.Name, approve, req.Notes)

	return response.SuccessWithMessage(c, "Decision recorded", shop)
}
