package models

import (
	"time"
	"unicode/utf8"
)

// Post is a blog entry. Posts are always listed newest first.
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	AuthorID uint      `json:"author_id" gorm:"index;not null"`
	Author   User      `json:"author" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID  *uint     `json:"group_id,omitempty" gorm:"index"`
	Group    *Group    `json:"group,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Image    string    `json:"image,omitempty" gorm:"size:512"`
}

// Summary is the first 15 characters of the text.
func (p Post) Summary() string {
	if utf8.RuneCountInString(p.Text) <= 15 {
		return p.Text
	}
	return string([]rune(p.Text)[:15])
}

// PostForm is the create/edit form. Group is the optional group id.
type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group" validate:"omitempty,number"`
}
