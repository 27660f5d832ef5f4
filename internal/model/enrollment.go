package model

import "time"

// CourseEnrollment tracks a user's membership and progress on a course.
type CourseEnrollment struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"index;not null"`
	CourseID uint `json:"course_id" gorm:"index;not null"`

	Progress  float64 `json:"progress" gorm:"default:0"` // completion percentage 0-100
	Completed bool    `json:"completed" gorm:"default:false"`

	EnrolledAt     time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
	LastAccessedAt time.Time `json:"last_accessed_at" gorm:"autoCreateTime"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
