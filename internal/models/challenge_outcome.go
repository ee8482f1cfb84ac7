package models

import "time"

// ChallengeOutcome is the audit row written when a challenge leaves the
// pending state.
type ChallengeOutcome struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChallengeID  string    `gorm:"size:32;not null;uniqueIndex" json:"challenge_id"`
	ChatID       int64     `gorm:"not null;index:idx_outcome_chat_member" json:"chat_id"`
	MemberID     int64     `gorm:"not null;index:idx_outcome_chat_member" json:"member_id"`
	DisplayName  string    `gorm:"size:255" json:"display_name"`
	Outcome      string    `gorm:"size:16;not null;index" json:"outcome"`
	ChallengedAt time.Time `gorm:"not null" json:"challenged_at"`
	ResolvedAt   time.Time `gorm:"not null;index" json:"resolved_at"`
	CreatedAt    time.Time `json:"created_at"`
}
