package model

import "time"

// Role determines which operations an account may call.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store_owner"
)

// Account represents an identity in the system.
type Account struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:60;not null;index"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Address      string    `json:"address,omitempty" gorm:"size:400"`
	Role         Role      `json:"role" gorm:"size:20;not null;index;default:'user'"`
	StoreID      *uint     `json:"store_id,omitempty" gorm:"index"` // set only while Role is store_owner
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
