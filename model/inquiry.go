package model

import "time"

// Inquiry is a contact-us message left by a visitor. Inquiries are stored
// through the legacy raw SQL store rather than GORM.
type Inquiry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"` // new, read, resolved
	CreatedAt time.Time `json:"created_at"`
}
