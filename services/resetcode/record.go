package resetcode

import "time"

// Record is one issued reset code. Rows are never deleted by the lifecycle.
type Record struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"not null;size:255;index:idx_reset_codes_email_expires,priority:1" json:"email"`
	CodeHash    string     `gorm:"not null;size:255" json:"-"`
	Attempts    uint8      `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts uint8      `gorm:"not null;default:5" json:"max_attempts"`
	ExpiresAt   time.Time  `gorm:"not null;index:idx_reset_codes_email_expires,priority:2" json:"expires_at"`
	UsedAt      *time.Time `json:"used_at,omitempty"`
	IPAddress   *string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent   *string    `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Record) TableName() string {
	return "password_reset_codes"
}

func (r *Record) IsActive(now time.Time) bool {
	return r.UsedAt == nil && r.ExpiresAt.After(now)
}

func (r *Record) IsLocked() bool {
	return r.Attempts >= r.MaxAttempts
}
