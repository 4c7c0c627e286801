package models

import "time"

// Pool types. There is exactly one individual pool system-wide (the
// global ranking); every other pool is a user-created group.
const (
	PoolTypeIndividual = "individual"
	PoolTypeGroup      = "group"
)

// GlobalPoolName is the fixed name of the single individual pool that
// holds every player's base picks.
const GlobalPoolName = "Ranking Geral"

// Pool is a prediction contest instance.
type Pool struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Slug       string    `json:"slug" gorm:"index"`
	Type       string    `json:"type" gorm:"not null;default:'group'"`
	InviteCode *string   `json:"invite_code,omitempty" gorm:"uniqueIndex"`
	CreatorID  string    `json:"creator_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Participants []PoolParticipant `json:"participants,omitempty" gorm:"foreignKey:PoolID"`
}

// IsGlobal reports whether the pool is the distinguished global pool.
func (p *Pool) IsGlobal() bool {
	return p.Type == PoolTypeIndividual && p.Name == GlobalPoolName
}

// PoolParticipant links a user to a pool. The pool's creator counts as
// a participant even without a row here.
type PoolParticipant struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	PoolID   string    `json:"pool_id" gorm:"not null;index;uniqueIndex:idx_pool_user"`
	UserID   string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_pool_user"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
	// Stamped once, when the user's pick set in this pool first covers
	// every category. Ranking ties break on it.
	PicksCompletedAt *time.Time `json:"picks_completed_at,omitempty"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
