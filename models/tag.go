package models

type Tag struct {
	ID    uint   `json:"id" gorm:"primarykey"`
	Name  string `json:"name" gorm:"uniqueIndex;size:150;not null"`
	Color string `json:"color" gorm:"uniqueIndex;size:7;not null"`
	Slug  string `json:"slug" gorm:"uniqueIndex;size:150;not null"`
}
