package models

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:256;not null"`
	Year        int     `json:"year" gorm:"not null;index"`
	Description *string `json:"description,omitempty" gorm:"size:200"`

	CategoryID *int64    `json:"-" gorm:"index"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Genres     []Genre   `json:"genres,omitempty" gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE"`

	// Rating is derived: the rounded mean of all review scores for this
	// title, nil while the title has no reviews. Maintained by the review
	// repository inside the same transaction as the review mutation.
	Rating *int `json:"rating" gorm:"default:null"`
}

func (Title) TableName() string {
	return "titles"
}
