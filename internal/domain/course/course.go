package course

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course is one generated tutorial. Outline holds the CourseOutline the
// content generator iterates over.
type Course struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"column:name;not null" json:"name"`
	Category string    `gorm:"column:category;not null;index" json:"category"`
	Level    string    `gorm:"column:level;not null" json:"level"`

	Outline      datatypes.JSON `gorm:"column:outline;type:jsonb;not null" json:"outline"`
	IncludeVideo string         `gorm:"column:include_video;not null;default:'Yes'" json:"include_video"`

	CreatedBy        string `gorm:"column:created_by;not null;index" json:"created_by"`
	Username         string `gorm:"column:username" json:"username,omitempty"`
	UserProfileImage string `gorm:"column:user_profile_image" json:"user_profile_image,omitempty"`
	Banner           string `gorm:"column:banner" json:"banner,omitempty"`

	IsPublished bool           `gorm:"column:is_published;not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// OutlineData decodes the stored outline.
func (c *Course) OutlineData() (CourseOutline, error) {
	var out CourseOutline
	if c == nil || len(c.Outline) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(c.Outline, &out); err != nil {
		return out, fmt.Errorf("decode course outline: %w", err)
	}
	return out, nil
}

func (c *Course) SetOutline(o CourseOutline) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	c.Outline = datatypes.JSON(b)
	return nil
}
