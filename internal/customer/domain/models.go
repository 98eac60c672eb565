package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusOpen  Status = "Open"
	StatusCold  Status = "Cold"
	StatusClose Status = "Close"
)

// FollowUpStatuses are the statuses that still need a follow-up call.
var FollowUpStatuses = []Status{StatusCold, StatusOpen}

type Seriousness string

const (
	SeriousnessHigh    Seriousness = "High"
	SeriousnessLow     Seriousness = "Low"
	SeriousnessNeutral Seriousness = "Neutral"
)

// ParseStatus matches case-insensitively and returns the canonical spelling.
// Blank means StatusOpen.
func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return StatusOpen, nil
	case "open":
		return StatusOpen, nil
	case "cold":
		return StatusCold, nil
	case "close":
		return StatusClose, nil
	}
	return "", ErrInvalidStatus
}

// ParseSeriousness matches case-insensitively. Blank means Neutral.
func ParseSeriousness(value string) (Seriousness, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "neutral":
		return SeriousnessNeutral, nil
	case "high":
		return SeriousnessHigh, nil
	case "low":
		return SeriousnessLow, nil
	}
	return "", ErrInvalidSeriousness
}

type Customer struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	Name             string       `gorm:"not null;index" json:"name"`
	Mobile           string       `gorm:"not null;uniqueIndex" json:"mobile"`
	ProductName      string       `gorm:"column:product_name;not null" json:"productName"`
	Price            float64      `gorm:"not null" json:"price"`
	NextFollowUpDate *time.Time   `gorm:"column:next_follow_up_date;index" json:"nextFollowUpDate"`
	Status           Status       `gorm:"type:text;not null" json:"status"`
	ProductImage     string       `gorm:"column:product_image;not null" json:"productImage"`
	Seriousness      Seriousness  `gorm:"type:text;not null" json:"seriousness"`
	Conversation     string       `gorm:"type:text;not null;default:''" json:"conversation"`
	Salesperson      string       `gorm:"not null;index" json:"salesperson"`
	CreatedAt        time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Customer) TableName() string { return "customers" }
