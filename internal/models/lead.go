package models

import "time"

// Lead is a contact-form submission. Leads are immutable once stored; at
// least one of Email or Phone is required so the inquiry can be answered.
type Lead struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
