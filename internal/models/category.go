package models

// CategoryModel groups items and declares the attributes they share.
type CategoryModel struct {
	Base
	Name          string        `json:"name"           gorm:"size:191;index;not null"`
	Description   string        `json:"description"    gorm:"type:text"`
	HasAttributes bool          `json:"has_attributes" gorm:"default:false"`
	Attributes    []OptionGroup `json:"attributes"     gorm:"type:longtext;serializer:json"`
}

func (CategoryModel) TableName() string { return "categories" }
