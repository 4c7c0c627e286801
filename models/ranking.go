package models

import "time"

// RankingEntry is one computed (points, position) row for a user in a
// pool. The scoring pass owns these rows outright: every recompute
// deletes and rewrites the whole set for the pool, nothing patches
// individual entries.
type RankingEntry struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	PoolID     string    `json:"pool_id" gorm:"not null;index;uniqueIndex:idx_ranking_pool_user"`
	UserID     string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_ranking_pool_user"`
	Points     int       `json:"points" gorm:"default:0"`
	Position   int       `json:"position" gorm:"default:0"`
	ComputedAt time.Time `json:"computed_at" gorm:"autoCreateTime"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// RankingStats summarizes a pool's ranking for display.
type RankingStats struct {
	TotalParticipants int     `json:"total_participants"`
	AveragePoints     float64 `json:"average_points"`
	MaxPoints         int     `json:"max_points"`
	MinPoints         int     `json:"min_points"`
}

// GroupGlobalStanding is the read-time projection of a group pool into
// the global ranking: the group's current #1 member and that member's
// global entry. It is derived on every read, never stored.
type GroupGlobalStanding struct {
	GroupPoolID    string `json:"group_pool_id"`
	Representative string `json:"representative_id"`
	Name           string `json:"representative_name"`
	Points         int    `json:"points"`
	Position       int    `json:"position"`
}
