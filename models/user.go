package models

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Posts        []Post `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName keeps the singular table name of the original schema.
func (User) TableName() string { return "user" }
