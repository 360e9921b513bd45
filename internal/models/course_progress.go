package models

import "gorm.io/datatypes"

// CourseProgress holds per (user, course) completion state. The module set
// only grows, except through an explicit overwrite.
type CourseProgress struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_course" json:"user_id"`
	CourseID string `gorm:"not null;uniqueIndex:idx_progress_user_course" json:"course_id"`

	CompletedModules datatypes.JSON `gorm:"type:jsonb" json:"completed_modules"` // ["mod-1", "mod-2"]
	LastPosition     float64        `json:"last_position"`
	Percent          float64        `json:"percent"`
}
