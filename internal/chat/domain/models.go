package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Message struct {
	ID        snowflake.ID `json:"id"`
	Message   string       `json:"message"`
	Edited    bool         `json:"edited"`
	Timestamp time.Time    `json:"timestamp"`
}

// Chat is the message log kept for one customer.
type Chat struct {
	ID         snowflake.ID                `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID                `gorm:"column:customer_id;not null;uniqueIndex" json:"customerId"`
	Messages   datatypes.JSONSlice[Message] `gorm:"not null" json:"messages"`
	CreatedAt  time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (Chat) TableName() string { return "chats" }

func (c *Chat) message(id snowflake.ID) *Message {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			return &c.Messages[i]
		}
	}
	return nil
}

// Edit replaces the text of message id and marks it edited.
func (c *Chat) Edit(id snowflake.ID, text string, at time.Time) bool {
	m := c.message(id)
	if m == nil {
		return false
	}
	m.Message = text
	m.Edited = true
	m.Timestamp = at
	return true
}

// Remove drops message id and reports whether it was present.
func (c *Chat) Remove(id snowflake.ID) bool {
	for i := range c.Messages {
		if c.Messages[i].ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			return true
		}
	}
	return false
}

type CustomerSummary struct {
	ID          snowflake.ID `json:"id"`
	Name        string       `json:"name"`
	Mobile      string       `json:"mobile"`
	ProductName string       `json:"productName"`
	Price       float64      `json:"price"`
	Seriousness string       `json:"seriousness"`
}

// View is a chat with the customer it belongs to.
type View struct {
	Chat
	Customer *CustomerSummary `json:"customer,omitempty"`
}
