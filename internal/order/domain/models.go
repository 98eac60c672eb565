package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusHold       Status = "hold"
	StatusIssued     Status = "issued"
	StatusReceived   Status = "received"
	StatusCancelled  Status = "cancelled"
	StatusDispatched Status = "dispatched"
	StatusWIP        Status = "wip"
)

var statuses = []Status{StatusHold, StatusIssued, StatusReceived, StatusCancelled, StatusDispatched, StatusWIP}

// ParseStatus lowercases value and checks it against the known statuses.
// Blank means StatusIssued.
func ParseStatus(value string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return StatusIssued, nil
	}
	for _, s := range statuses {
		if s == v {
			return s, nil
		}
	}
	return "", ErrInvalidStatus
}

const orderNumberPrefix = "RK"

// FormatOrderNumber renders seq as RK0001.
func FormatOrderNumber(seq int) string {
	return fmt.Sprintf("%s%04d", orderNumberPrefix, seq)
}

// NextOrderNumber returns the number following last. A blank or unparseable
// last starts the sequence at 1.
func NextOrderNumber(last string) string {
	var seq int
	if _, err := fmt.Sscanf(strings.TrimPrefix(last, orderNumberPrefix), "%d", &seq); err != nil || seq < 0 {
		seq = 0
	}
	return FormatOrderNumber(seq + 1)
}

type Order struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	Party          string       `gorm:"not null;index" json:"party"`
	OrderNumber    string       `gorm:"column:order_number;not null;uniqueIndex" json:"orderNumber"`
	Customer       string       `json:"customer"`
	Karigari       string       `json:"karigari"`
	ImageProduct   string       `gorm:"column:image_product" json:"imageProduct"`
	DeliveryDate   time.Time    `gorm:"column:delivery_date;not null" json:"deliveryDate"`
	Quantity       int          `gorm:"not null" json:"quantity"`
	Salesperson    string       `gorm:"index" json:"salesperson"`
	GoldWeight     string       `gorm:"column:gold_weight;not null" json:"goldWeight"`
	GatiOrderNo    string       `gorm:"column:gati_order_no" json:"gatiOrderNo"`
	ItemCategory   string       `gorm:"column:item_category;not null" json:"itemCategory"`
	Purity         string       `gorm:"not null" json:"purity"`
	GoldColor      string       `gorm:"column:gold_color" json:"goldColor"`
	DiamondDetails string       `gorm:"column:diamond_details;type:text" json:"diamondDetails"`
	StoneDetails   string       `gorm:"column:stone_details;type:text" json:"stoneDetails"`
	ProductCode    string       `gorm:"column:product_code" json:"productCode"`
	Size           string       `json:"size"`
	Remarks        string       `gorm:"type:text" json:"remarks"`
	Status         Status       `gorm:"type:text;not null;index" json:"status"`
	Timestamp      time.Time    `gorm:"not null;index" json:"timestamp"`
}

func (Order) TableName() string { return "orders" }

type Category struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	Timestamp time.Time    `gorm:"not null" json:"timestamp"`
}

func (Category) TableName() string { return "order_categories" }

type Salesperson struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	Timestamp time.Time    `gorm:"not null" json:"timestamp"`
}

func (Salesperson) TableName() string { return "salespersons" }

// StatusOption is a free-form status label offered to the UI. Names may repeat.
type StatusOption struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Timestamp time.Time    `gorm:"not null" json:"timestamp"`
}

func (StatusOption) TableName() string { return "order_statuses" }

type Karigar struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null;uniqueIndex" json:"name"`
	Timestamp time.Time    `gorm:"not null" json:"timestamp"`
}

func (Karigar) TableName() string { return "karigars" }
