package inquiry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/database"
	"github.com/rehbar-pk/directory-api/model"
	"github.com/rehbar-pk/directory-api/utils/response"
	"github.com/rehbar-pk/directory-api/utils/validation"
)

// Contact inquiries live in the legacy raw SQL store, predating the GORM
// models. Handlers talk to the Storage interface rather than *gorm.DB.

// GetAllInquiries returns every inquiry, newest first (admin)
func GetAllInquiries(c *fiber.Ctx, store database.Storage) error {
	inquiries, err := store.GetInquiries()
	if err != nil {
		return err
	}

	return response.Success(c, inquiries)
}

// AddInquiryHandler accepts a public contact form submission
func AddInquiryHandler(c *fiber.Ctx, store database.Storage) error {
	var inquiry model.Inquiry
	if err := c.BodyParser(&inquiry); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	inquiry.Name = validation.SanitizeString(inquiry.Name)
	inquiry.Subject = validation.SanitizeString(inquiry.Subject)

	if inquiry.Name == "" || inquiry.Email == "" || inquiry.Message == "" {
		return response.BadRequest(c, "Name, email, and message are required")
	}
	if !validation.ValidateEmail(inquiry.Email) {
		return response.BadRequest(c, "Invalid email address")
	}

	if err := store.AddInquiry(inquiry); err != nil {
		return err
	}

	return response.Created(c, inquiry)
}

// UpdateInquiryHandler updates an inquiry's status (admin)
func UpdateInquiryHandler(c *fiber.Ctx, store database.Storage) error {
	var inquiry model.Inquiry
	var err error

	if inquiry.ID, err = strconv.ParseInt(c.Params("id"), 10, 64); inquiry.ID <= 0 || err != nil {
		return errors.New(fmt.Sprintf("unable to find inquiry associated with %d", inquiry.ID))
	}

	if err := c.BodyParser(&inquiry); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := store.UpdateInquiry(inquiry); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, "Inquiry updated successfully", inquiry)
}

// DeleteInquiryHandler removes an inquiry (admin)
func DeleteInquiryHandler(c *fiber.Ctx, store database.Storage) error {
	var inquiryID int64
	var err error
	if inquiryID, err = strconv.ParseInt(c.Params("id"), 10, 64); inquiryID <= 0 || err != nil {
		return errors.New(fmt.Sprintf("unable to find inquiry associated with %d", inquiryID))
	}

	if err := store.DeleteInquiry(inquiryID); err != nil {
		return err
	}

	return response.SuccessWithMessage(c, fmt.Sprintf("deleted inquiry : #%d", inquiryID), nil)
}
