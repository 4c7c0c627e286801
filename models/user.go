package models

import "time"

// User is the registered player profile. Authentication itself lives in
// the upstream identity provider; this service only mirrors what the
// contest needs and is keyed by its own UUID.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	AuthID    string    `json:"auth_id,omitempty" gorm:"index"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone,omitempty"`
	State     string    `json:"state,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
