package model

// User represents an account on the platform.
type User struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Username     string  `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Email        string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string  `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role    `json:"role" gorm:"size:20;default:'user'"`
	Disabled     bool    `json:"disabled" gorm:"default:false"`
	VKID         *string `json:"vk_id,omitempty" gorm:"column:vk_id;uniqueIndex;size:64"`

	RefreshTokens []RefreshToken     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Files         []UserFile         `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Enrollments   []CourseEnrollment `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
