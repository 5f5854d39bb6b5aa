package models

import "time"

// Profile is a person listed by the directory (loan officer, realtor,
// staff). The page engine only reads ID and DisplayName.
type Profile struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
