package models

import "time"

// Category is one fixed voting category (e.g. "Melhor Filme"). The set
// of categories is seeded out of band and ordered by DisplayOrder.
type Category struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	DisplayOrder int       `json:"display_order" gorm:"column:display_order;default:0"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`

	Nominees []Nominee `json:"nominees,omitempty" gorm:"foreignKey:CategoryID"`
}

// Nominee belongs to exactly one category. IsWinner flips to true at
// most once per category, when results are entered.
type Nominee struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CategoryID string    `json:"category_id" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	Movie      string    `json:"movie,omitempty"`
	IsWinner   bool      `json:"is_winner" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
}
