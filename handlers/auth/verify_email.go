package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/utils/crypto"
	"github.com/rehbar-pk/directory-api/utils/response"
)

// VerifyEmailRequest represents an email verification request
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// issueVerificationToken creates a fresh verification token for the user
// and sends the verification email
func (h *AuthHandler) issueVerificationToken(user *model.User) error {
	token, err := crypto.GenerateToken()
	if err != nil {
		log.Printf("failed to generate verification token for %s: %v", user.Email, err)
		return err
	}

	verification := model.EmailVerificationToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := h.db.Create(&verification).Error; err != nil {
		log.Printf("failed to store verification token for %s: %v", user.Email, err)
		return err
	}

	return h.emailService.SendVerificationEmail(user.Email, token, user.Name)
}

// VerifyEmail handles email verification with a token
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" {
		req.Token = c.Query("token")
	}
	if req.Token == "" {
		return response.BadRequest(c, "Verification token is required")
	}

	var verification model.EmailVerificationToken
	if err := h.db.Where("token = ?", req.Token).First(&verification).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired verification token")
	}

	if verification.IsExpired() {
		return response.BadRequest(c, "Verification token has expired")
	}
	if verification.IsUsed() {
		return response.BadRequest(c, "Verification token has already been used")
	}

	var user model.User
	if err := h.db.First(&user, verification.UserID).Error; err != nil {
		return response.BadRequest(c, "User not found")
	}

	now := time.Now()
	if err := h.db.Model(&user).Update("email_verified_at", &now).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify email")
	}

	verification.MarkAsUsed()
	h.db.Save(&verification)

	return response.Success(c, fiber.Map{
		"message": "Email verified successfully",
	})
}

// ResendVerification issues a new verification token for the current user
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	userID := c.Locals("user_id")
	if userID == nil {
		return response.Unauthorized(c, "Not authenticated")
	}

	var user model.User
	if err := h.db.First(&user, userID.(uint)).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	if user.EmailVerified() {
		return response.BadRequest(c, "Email is already verified")
	}

	if err := h.issueVerificationToken(&user); err != nil {
		return response.InternalServerError(c, "Failed to send verification email")
	}

	return response.Success(c, fiber.Map{
		"message": "Verification email sent",
	})
}
