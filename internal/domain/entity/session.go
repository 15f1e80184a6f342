package entity

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

// Session is a signed-in console session. It replaces the browser's stored
// accessToken, refreshToken and user: tokens are sealed before they reach the
// database, and User/Token are rebuilt from the sealed columns on load.
type Session struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID             string    `gorm:"size:100;not null;index"`
	UserData           []byte    `gorm:"type:bytea;not null"`
	SealedAccessToken  []byte    `gorm:"type:bytea;not null"`
	SealedRefreshToken []byte    `gorm:"type:bytea"`
	TokenExpiry        time.Time
	ExpiresAt          time.Time `gorm:"not null;index"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	User  User          `gorm:"-"`
	Token *oauth2.Token `gorm:"-"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "console_sessions"
}

// IsExpired checks if the console session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
