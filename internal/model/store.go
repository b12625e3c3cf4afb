package model

import "time"

// Store is the rated entity. OwnerID is nil only transiently while the
// provisioning workflow back-fills it inside its transaction.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:60;not null;index"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Address   string    `json:"address,omitempty" gorm:"size:400"`
	OwnerID   *uint     `json:"owner_id,omitempty" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Ratings []Rating `json:"-" gorm:"foreignKey:StoreID"`
}
