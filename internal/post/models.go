package post

import (
	"time"

	"github.com/jcbcouch/dotnetwebapi/internal/models"
)

// Post is the persisted post record. OwnerID is fixed at creation and never
// transfers through the API; Version backs optimistic concurrency on updates.
type Post struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Title     string       `gorm:"size:200;not null" json:"title"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	OwnerID   uint         `gorm:"index;default:null" json:"ownerId"`
	Owner     *models.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Version   int          `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// CreateRequest is the wire shape accepted by POST /posts.
type CreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateRequest is the wire shape accepted by PUT /posts/:id. ID must match
// the path parameter.
type UpdateRequest struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// OwnerSummary is the projection of the owning user embedded in responses.
type OwnerSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username,omitempty"`
}

// Response is the wire shape returned for a post.
type Response struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"createdAt"`
	Owner     *OwnerSummary `json:"owner,omitempty"`
}
