package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string         `gorm:"size:150;not null" json:"first_name"`
	LastName     string         `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsAdmin      bool           `gorm:"not null;default:false" json:"-"`
}

// BeforeCreate assigns the primary key client-side so the same model works
// on postgres and on the sqlite test database.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription links a follower to an author. The pair is unique; the
// no-self-follow rule is enforced in the service layer.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_subscription_pair" json:"author_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Subscription) TableName() string {
	return "subscriptions"
}
