package models

// Category is a coarse classification for a title (book, film, album).
// Titles reference it through a nullable foreign key, so deleting a
// category detaches its titles instead of removing them.
type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:256;not null;index"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
}

func (Category) TableName() string {
	return "categories"
}
