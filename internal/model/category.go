package model

// Category groups courses; courses and categories are many-to-many.
type Category struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`

	Courses []Course `json:"-" gorm:"many2many:course_categories"`
}
