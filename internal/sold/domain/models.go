package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Sale is one entry in the sold-item ledger.
type Sale struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	FullName    string       `gorm:"column:full_name;not null;index" json:"full_name"`
	Mobile      string       `gorm:"index" json:"mobile"`
	Email       string       `json:"email"`
	Birthday    *time.Time   `json:"birthday"`
	Anniversary *time.Time   `json:"anniversary"`
	Address     string       `gorm:"type:text" json:"address"`
	Tag         string       `gorm:"index" json:"tag"`
	Purity      string       `json:"purity"`
	GoldWt      string       `gorm:"column:gold_wt" json:"gold_wt"`
	DiaWt       string       `gorm:"column:dia_wt" json:"dia_wt"`
	StnWt       string       `gorm:"column:stn_wt" json:"stn_wt"`
	Amount      *float64     `json:"amount"`
	SoldUpload  string       `gorm:"column:soldupload" json:"soldupload"`
	SalesStaff  string       `gorm:"column:sales_staff;index" json:"sales_staff"`
	CreatedAt   time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Sale) TableName() string { return "sold" }
