package shop

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/services"
	"github.com/rehbar-pk/directory-api/utils/agentid"
	"github.com/rehbar-pk/directory-api/utils/middleware"
	"github.com/rehbar-pk/directory-api/utils/response"
	"github.com/rehbar-pk/directory-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ShopHandler handles shop-related requests
type ShopHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewShopHandler creates a new shop handler
func NewShopHandler(db *gorm.DB) *ShopHandler {
	return &ShopHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateShopRequest represents the request body for creating a shop
type CreateShopRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Category    string `json:"category" validate:"omitempty,max=100"`
	Description string `json:"description"`
	Address     string `json:"address" validate:"omitempty,max=255"`
	City        string `json:"city" validate:"omitempty,max=100"`
	Province    string `json:"province" validate:"omitempty,max=100"`
	Phone       string `json:"phone" validate:"omitempty,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website" validate:"omitempty,url,max=255"`
	Logo        string `json:"logo" validate:"omitempty,max=500"`
	Banner      string `json:"banner" validate:"omitempty,max=500"`
	AgentID     string `json:"agent_id" validate:"omitempty,max=100"`

	Gallery json.RawMessage `json:"gallery"`
}

// ListShops handles GET /api/v1/shops
func (h *ShopHandler) ListShops(c *fiber.Ctx) error {
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
	category := c.Query("category", "")

	query := h.db.Model(&model.Shop{})

	user, ok := middleware.GetUser(c)
	switch {
	case !ok || user == nil:
		query = query.Where("approval_status = ?", model.ApprovalApproved)
	case user.IsAdmin():
		// Admins see everything
	default:
		query = query.Where("approval_status = ? OR owner_id = ?", model.ApprovalApproved, user.ID)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR city ILIKE ? OR category ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if city != "" {
		query = query.Where("city ILIKE ?", city)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count shops")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var shops []model.Shop
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&shops).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch shops")
	}

	return response.Paginated(c, shops, pagination)
}

// GetShop handles GET /api/v1/shops/:id
func (h *ShopHandler) GetShop(c *fiber.Ctx) error {
	id := c.Params("id")

	var shop model.Shop
	if err := h.db.First(&shop, "id = ? OR agent_id = ?", parseID(id), id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Shop not found")
		}
		return response.InternalServerError(c, "Failed to fetch shop")
	}

	if !shop.PubliclyVisible() {
		user, ok := middleware.GetUser(c)
		if !ok || user == nil || (!user.IsAdmin() && user.ID != shop.OwnerID) {
			return response.NotFound(c, "Shop not found")
		}
	}

	return response.Success(c, shop)
}

// CreateShop handles POST /api/v1/shops
func (h *ShopHandler) CreateShop(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	violations := model.FieldViolations{}
	if validation.SanitizeString(req.Name) == "" {
		violations["name"] = "name is required"
	}
	if validation.SanitizeString(req.City) == "" {
		violations["city"] = "city is required"
	}
	if validation.SanitizeString(req.Province) == "" {
		violations["province"] = "province is required"
	}
	if len(violations) > 0 {
		return response.FieldViolations(c, "Invalid shop submission", violations)
	}

	logo := req.Logo
	if logo == "" {
		logo = services.PlaceholderLogoURL
	}
	banner := req.Banner
	if banner == "" {
		banner = services.PlaceholderBannerURL
	}

	city := validation.SanitizeString(req.City)
	province := validation.SanitizeString(req.Province)
	location := validation.SanitizeString(req.Address)
	if location == "" {
		location = fmt.Sprintf("%s, %s", city, province)
	}

	agentID := req.AgentID
	if agentID == "" {
		agentID = agentid.Generate(req.Name)
	}

	shop := model.Shop{
		Name:        validation.SanitizeString(req.Name),
		Category:    validation.SanitizeString(req.Category),
		Description: req.Description,
		Location:    location,
		Address:     validation.SanitizeString(req.Address),
		City:        city,
		Province:    province,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		Logo:        logo,
		Banner:      banner,
		Gallery:     datatypes.NewJSONSlice(services.NormalizeStringList(req.Gallery)),

		OwnerID:    user.ID,
		OwnerName:  user.Name,
		OwnerEmail: user.Email,
		OwnerPhone: user.Phone,
		AgentID:    agentID,

		ApprovalStatus: model.ApprovalPending,
		Rating:         4.5,
	}

	if err := h.db.Create(&shop).Error; err != nil {
		return response.InternalServerError(c, "Failed to create shop")
	}

	return response.Created(c, shop)
}

// UpdateShop handles PUT /api/v1/shops/:id
func (h *ShopHandler) UpdateShop(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var shop model.Shop
	if err := h.db.First(&shop, parseID(c.Params("id"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Shop not found")
		}
		return response.InternalServerError(c, "Failed to fetch shop")
	}

	if shop.OwnerID != user.ID && !user.IsAdmin() {
		return response.Forbidden(c, "You can only edit your own listings")
	}

	var req CreateShopRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if req.Name != "" {
		shop.Name = validation.SanitizeString(req.Name)
	}
	if req.Category != "" {
		shop.Category = validation.SanitizeString(req.Category)
	}
	if req.Description != "" {
		shop.Description = req.Description
	}
	if req.Address != "" {
		shop.Address = validation.SanitizeString(req.Address)
	}
	if req.City != "" {
		shop.City = validation.SanitizeString(req.City)
	}
	if req.Province != "" {
		shop.Province = validation.SanitizeString(req.Province)
	}
	if req.Phone != "" {
		shop.Phone = req.Phone
	}
	if req.Email != "" {
		shop.Email = req.Email
	}
	if req.Website != "" {
		shop.Website = req.Website
	}
	if req.Logo != "" {
		shop.Logo = req.Logo
	}
	if req.Banner != "" {
		shop.Banner = req.Banner
	}
	if len(req.Gallery) > 0 {
		shop.Gallery = datatypes.NewJSONSlice(services.NormalizeStringList(req.Gallery))
	}

	if shop.Address != "" {
		shop.Location = shop.Address
	} else {
		shop.Location = fmt.Sprintf("%s, %s", shop.City, shop.Province)
	}

	if err := h.db.Save(&shop).Error; err != nil {
		return response.InternalServerError(c, "Failed to update shop")
	}

	return response.SuccessWithMessage(c, "Shop updated successfully", shop)
}

// DeleteShop handles DELETE /api/v1/shops/:id
func (h *ShopHandler) DeleteShop(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var shop model.Shop
	if err := h.db.First(&shop, parseID(c.Params("id"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Shop not found")
		}
		return response.InternalServerError(c, "Failed to fetch shop")
	}

	if shop.OwnerID != user.ID && !user.IsAdmin() {
		return response.Forbidden(c, "You can only delete your own listings")
	}

	if err := h.db.Delete(&shop).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete shop")
	}

	return response.SuccessWithMessage(c, "Shop deleted successfully", nil)
}

// MyShops handles GET /api/v1/shops/mine
func (h *ShopHandler) MyShops(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var shops []model.Shop
	if err := h.db.Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&shops).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch shops")
	}

	return response.Success(c, shops)
}

func parseID(s string) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(n)
}
