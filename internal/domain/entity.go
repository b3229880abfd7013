package domain

import (
	"time"
)

// CoinInfo caches display metadata for a currency
type CoinInfo struct {
	Symbol     string    `gorm:"primaryKey" json:"symbol"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"is_active" gorm:"index"`
	IsFavorite bool      `json:"is_favorite" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TokenRecord persists one session token under a fixed key (Key-Value)
type TokenRecord struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
