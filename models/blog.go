package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AffiliateLink struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
}

// Blog is a travel article, publicly addressed by its slug.
type Blog struct {
	ID             string          `gorm:"primaryKey;type:varchar(36)" json:"id" bson:"_id"`
	Title          string          `gorm:"not null" json:"title" bson:"title"`
	Slug           string          `gorm:"uniqueIndex;not null" json:"slug" bson:"slug"`
	Content        string          `gorm:"type:text;not null" json:"content" bson:"content"`
	Image          string          `json:"image,omitempty" bson:"image,omitempty"`
	Category       string          `gorm:"index" json:"category,omitempty" bson:"category,omitempty"`
	AffiliateLinks []AffiliateLink `gorm:"serializer:json" json:"affiliateLinks" bson:"affiliateLinks"`
	CreatedAt      time.Time       `gorm:"<-:create;index" json:"createdAt" bson:"createdAt"` // never rewritten after insert
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.AffiliateLinks == nil {
		b.AffiliateLinks = []AffiliateLink{}
	}
	return nil
}

// Link is the public path of the blog page.
func (b Blog) Link() string {
	return "/blog/" + b.Slug
}
