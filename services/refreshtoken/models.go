package refreshtoken

import (
	"time"
)

type RefreshToken struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	TokenHash  string    `json:"-" gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsed   time.Time `json:"last_used"`
	IPAddress  string    `json:"ip_address" gorm:"size:45"`
	DeviceInfo string    `json:"device_info" gorm:"size:500"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

type ClientInfo struct {
	IP        string
	UserAgent string
}

type DeviceInfo struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version"`
	OS             string `json:"os"`
	DeviceType     string `json:"device_type"`
}

// Issued is a freshly minted token. Token is the only copy of the plaintext.
type Issued struct {
	Token     string
	ID        uint
	UserID    uint
	ExpiresAt time.Time
}
