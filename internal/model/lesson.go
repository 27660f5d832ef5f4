package model

import "time"

// Lesson is a unit of course content, ordered within its course.
type Lesson struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"index;not null"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text"`
	Order     int       `json:"order" gorm:"column:lesson_order;index"`
	SceneData string    `json:"scene_data" gorm:"type:text"` // JSON payload for the interactive scene
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
