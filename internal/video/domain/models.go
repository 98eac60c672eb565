package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tag struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UnmarshalJSON also accepts "_id", which older clients send.
func (t *Tag) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		LegacyID string `json:"_id"`
		Name     string `json:"name"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	if t.ID == "" {
		t.ID = raw.LegacyID
	}
	t.Name = raw.Name
	return nil
}

type Video struct {
	ID          snowflake.ID             `gorm:"primaryKey" json:"id"`
	TagNumber   *string                  `gorm:"column:tag_number;uniqueIndex" json:"tagNumber,omitempty"`
	VideoUpload string                   `gorm:"column:video_upload;not null" json:"videoUpload"`
	Category    string                   `gorm:"not null;index" json:"category"`
	Tags        datatypes.JSONSlice[Tag] `gorm:"not null" json:"tags"`
	TagNames    string                   `gorm:"column:tag_names;type:text;not null;default:''" json:"-"`
	CreatedAt   time.Time                `gorm:"not null;index" json:"createdAt"`
}

func (Video) TableName() string { return "videos" }

// BeforeSave keeps tag_names searchable with a plain LIKE.
func (v *Video) BeforeSave(*gorm.DB) error {
	names := make([]string, 0, len(v.Tags))
	for _, tag := range v.Tags {
		if name := strings.TrimSpace(tag.Name); name != "" {
			names = append(names, name)
		}
	}
	v.TagNames = strings.Join(names, "|")
	return nil
}
