package models

import "time"

// Post is a blog entry. AuthorID is set once at creation and never changes;
// only the author may edit or delete the post.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Body     string    `gorm:"type:text" json:"body"`
	Created  time.Time `gorm:"column:created;autoCreateTime" json:"created"`
	AuthorID uint      `gorm:"index;not null" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// TableName keeps the singular table name of the original schema.
func (Post) TableName() string { return "post" }
