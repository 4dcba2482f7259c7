package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AdvisorTurn struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	Recommendation datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (AdvisorTurn) TableName() string {
	return "advisor_turns"
}
