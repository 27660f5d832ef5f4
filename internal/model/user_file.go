package model

import "time"

// UserFile is a node in a user's personal storage tree. Folders are
// metadata-only rows; files additionally reference a blob on disk via
// RelativePath.
type UserFile struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Filename     string    `json:"filename" gorm:"size:255;not null"`
	RelativePath string    `json:"-" gorm:"size:512"`
	IsFolder     bool      `json:"is_folder" gorm:"default:false"`
	ParentID     *uint     `json:"parent_id,omitempty" gorm:"index"`
	Size         int64     `json:"size" gorm:"default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Parent   *UserFile  `json:"-" gorm:"foreignKey:ParentID"`
	Children []UserFile `json:"-" gorm:"foreignKey:ParentID"`
}
