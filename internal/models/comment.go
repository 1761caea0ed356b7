package models

import "time"

// Comment is a reply left on a post.
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	PostID   *uint     `json:"post_id" gorm:"index"`
	Post     *Post     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID uint      `json:"author_id" gorm:"index;not null"`
	Author   User      `json:"author" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	Created  time.Time `json:"created" gorm:"autoCreateTime"`
}

type CommentForm struct {
	Text string `form:"text" validate:"required"`
}
