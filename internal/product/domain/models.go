package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Diamond struct {
	Colour      string   `json:"diamond_colour,omitempty"`
	QualityCode string   `json:"quality_code,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

type Stone struct {
	Weight *float64 `json:"colour_stone_wt,omitempty"`
	Amount *float64 `json:"colour_stone_amt,omitempty"`
}

// Product is one catalog item keyed by jewel_code. The whole table is
// replaced on every catalog import.
type Product struct {
	ID              snowflake.ID                 `gorm:"primaryKey" json:"id"`
	ProductCategory string                       `gorm:"column:product_category;not null" json:"product_category"`
	SubCategory     string                       `gorm:"column:sub_category" json:"sub_category,omitempty"`
	JewelCode       string                       `gorm:"column:jewel_code;not null;uniqueIndex" json:"jewel_code"`
	Material        string                       `json:"material,omitempty"`
	MRP             *float64                     `gorm:"column:mrp" json:"mrp,omitempty"`
	GrossWt         *float64                     `gorm:"column:gross_wt" json:"gross_wt,omitempty"`
	NetWt           *float64                     `gorm:"column:net_wt" json:"net_wt,omitempty"`
	Diamonds        datatypes.JSONSlice[Diamond] `gorm:"not null" json:"diamonds"`
	Stones          datatypes.JSONSlice[Stone]   `gorm:"not null" json:"stones"`
	DiscountAmount  *float64                     `gorm:"column:discount_amount" json:"discount_amount,omitempty"`
	FinalPrice      *float64                     `gorm:"column:final_price" json:"final_price,omitempty"`
	Collection      string                       `json:"collection,omitempty"`
	ProductImageURL string                       `gorm:"column:product_image_url" json:"product_image_url,omitempty"`
	Gender          string                       `json:"gender,omitempty"`
	MetalAmt        *float64                     `gorm:"column:metal_amt" json:"metal_amt,omitempty"`
	MakingCharge    *float64                     `gorm:"column:making_charge" json:"making_charge,omitempty"`
	MakingAmt       *float64                     `gorm:"column:making_amt" json:"making_amt,omitempty"`
	CreatedAt       time.Time                    `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time                    `gorm:"not null" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
