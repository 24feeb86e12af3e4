package models

import "time"

// User is the owner reference for posts. Accounts are created and
// authenticated by the external identity service; only enough is persisted
// here to satisfy the posts foreign key and to project an owner summary.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
