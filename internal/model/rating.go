package model

import "time"

// Rating holds one account's rating of one store. The composite unique index
// on (account_id, store_id) is load-bearing: the ledger's upsert keys on it,
// so at most one live row can exist per pair.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AccountID uint      `json:"account_id" gorm:"not null;uniqueIndex:idx_account_store"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_account_store"`
	Value     int       `json:"value" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Account *Account `json:"account,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Store   *Store   `json:"-" gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}
