package model

import "time"

// Course represents a catalog course.
type Course struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Title           string    `json:"title" gorm:"size:255;not null;index"`
	Description     string    `json:"description" gorm:"type:text"`
	LongDescription string    `json:"longdescription" gorm:"type:text"`
	Level           string    `json:"level" gorm:"size:50;index"`
	Author          string    `json:"author" gorm:"size:255;index"`
	ImageURL        *string   `json:"image_url,omitempty" gorm:"size:512"`
	LessonsCount    int       `json:"lessons_count" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// StudentsCount is derived from enrollments via a subquery, not stored.
	StudentsCount int64 `json:"students_count" gorm:"-:migration;->"`

	Categories  []Category         `json:"categories" gorm:"many2many:course_categories;constraint:OnDelete:CASCADE"`
	Lessons     []Lesson           `json:"lessons,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Enrollments []CourseEnrollment `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
