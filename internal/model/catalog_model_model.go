package model

import (
	"time"

	"github.com/google/uuid"
)

type CatalogModel struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Provider  string    `gorm:"type:varchar(255);not null"`
	TaskTypes string    `gorm:"type:text;not null"`
	Notes     string    `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt *time.Time
}

func (CatalogModel) TableName() string {
	return "model_catalog"
}
