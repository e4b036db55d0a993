package models

// Title is a reviewed work. Rating is never stored; list and detail queries
// select it as the rounded mean of the title's review scores.
type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        int       `json:"year" gorm:"not null;index"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	CategoryID  *int64    `json:"category_id,omitempty" gorm:"index"`
	Rating      *int      `json:"rating" gorm:"->;-:migration"`
	Category    *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`

	// association
	Genres []Genre `json:"genres,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
