package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Link grants time-limited public access to a set of videos.
type Link struct {
	ID           snowflake.ID                      `gorm:"primaryKey" json:"id"`
	Token        string                            `gorm:"not null;uniqueIndex" json:"token"`
	VideoIDs     datatypes.JSONSlice[snowflake.ID] `gorm:"column:video_ids;not null" json:"videoIds"`
	ExpiryDate   time.Time                         `gorm:"column:expiry_date;not null" json:"expiryDate"`
	CustomerName string                            `gorm:"column:customer_name;not null;default:''" json:"customerName"`
	CreatedAt    time.Time                         `gorm:"not null" json:"createdAt"`
}

func (Link) TableName() string { return "share_links" }

// Expired reports whether the link's expiry is strictly before now.
func (l Link) Expired(now time.Time) bool {
	return l.ExpiryDate.Before(now)
}

// Favorite is the subset of a link's videos picked by the customer.
type Favorite struct {
	ID           snowflake.ID                      `gorm:"primaryKey" json:"id"`
	Token        string                            `gorm:"not null;uniqueIndex" json:"token"`
	FavVideoIDs  datatypes.JSONSlice[snowflake.ID] `gorm:"column:fav_video_ids;not null" json:"favVideoIds"`
	CustomerName string                            `gorm:"column:customer_name;index" json:"customerName"`
	CreatedAt    time.Time                         `gorm:"not null" json:"createdAt"`
}

func (Favorite) TableName() string { return "favorite_lists" }
