package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rehbar-pk/directory-api/model"
	"gorm.io/gorm"
)

// AdminAuditLog creates an audit log entry for admin actions. It runs after
// the auth middleware has stored the admin user in the request context.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminUser, ok := GetUser(c)
		if !ok || !adminUser.IsAdmin() {
			return c.Next() // Continue without logging if admin not resolved
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var oldValue interface{}
		var newValue interface{}

		if c.Method() == "POST" || c.Method() == "PUT" || c.Method() == "PATCH" {
			body := c.Body()
			if len(body) > 0 {
				json.Unmarshal(body, &newValue)
			}
		}

		// Capture the pre-change state for mutating requests
		if resourceID > 0 && c.Method() != "GET" {
			switch resource {
			case "institutes":
				var institute model.Institute
				if err := db.First(&institute, resourceID).Error; err == nil {
					oldValue = institute
				}
			case "shops":
				var shop model.Shop
				if err := db.First(&shop, resourceID).Error; err == nil {
					oldValue = shop
				}
			case "users":
				var user model.User
				if err := db.First(&user, resourceID).Error; err == nil {
					oldValue = user
				}
			}
		}

		err := c.Next()

		oldValueJSON, _ := json.Marshal(oldValue)
		newValueJSON, _ := json.Marshal(newValue)

		auditLog := model.AdminAuditLog{
			AdminID:     adminUser.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			OldValue:    string(oldValueJSON),
			NewValue:    string(newValueJSON),
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}
		db.Create(&auditLog)

		return err
	}
}
