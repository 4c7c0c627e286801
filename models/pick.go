package models

import "time"

// Pick is a user's chosen nominee for one category within one pool,
// unique per (user, category, pool). Group-pool picks are copied from
// the global pool at join time and stay frozen afterwards.
type Pick struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_category_pool"`
	CategoryID string    `json:"category_id" gorm:"not null;uniqueIndex:idx_user_category_pool"`
	PoolID     string    `json:"pool_id" gorm:"not null;index;uniqueIndex:idx_user_category_pool"`
	NomineeID  string    `json:"nominee_id" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Nominee  Nominee  `json:"nominee,omitempty" gorm:"foreignKey:NomineeID"`
	User     User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
