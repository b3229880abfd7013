package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"crepe_admin/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the durable client-side state: the session token vault and the
// coin metadata cache. Nothing else is persisted.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}
	return NewStorageAt(dbPath)
}

// NewStorageAt opens (or creates) the database at an explicit path.
func NewStorageAt(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Pure Go SQLite
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.CoinInfo{}, &domain.TokenRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "CrepeAdmin", "data", "crepeadmin.db"), nil
}

// ======================================================================================
// Coin Operations
// ======================================================================================

// UpsertCoin creates or updates coin metadata
func (s *Storage) UpsertCoin(coin *domain.CoinInfo) error {
	return s.db.Save(coin).Error
}

// GetCoin retrieves coin metadata by symbol
func (s *Storage) GetCoin(symbol string) (*domain.CoinInfo, error) {
	var coin domain.CoinInfo
	err := s.db.First(&coin, "symbol = ?", symbol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // Not found is not an error
	}
	return &coin, err
}

// GetAllCoins retrieves all coins
func (s *Storage) GetAllCoins() ([]domain.CoinInfo, error) {
	var coins []domain.CoinInfo
	err := s.db.Find(&coins).Error
	return coins, err
}

// ToggleFavorite toggles the favorite status of a coin
func (s *Storage) ToggleFavorite(symbol string) (bool, error) {
	var coin domain.CoinInfo
	if err := s.db.First(&coin, "symbol = ?", symbol).Error; err != nil {
		return false, err
	}

	coin.IsFavorite = !coin.IsFavorite
	err := s.db.Save(&coin).Error
	return coin.IsFavorite, err
}

// SeedCoins upserts the static coin-name table, preserving user favorites.
func (s *Storage) SeedCoins(currencies []string) error {
	for _, symbol := range currencies {
		coin := &domain.CoinInfo{
			Symbol:   symbol,
			Name:     domain.CoinName(symbol),
			IsActive: true,
		}
		if existing, _ := s.GetCoin(symbol); existing != nil {
			coin.IsFavorite = existing.IsFavorite
			coin.CreatedAt = existing.CreatedAt
		}
		if err := s.UpsertCoin(coin); err != nil {
			return err
		}
	}
	return nil
}

// ======================================================================================
// Token Vault (implements auth.TokenStore)
// ======================================================================================

// SaveToken persists one session token under a fixed key.
func (s *Storage) SaveToken(key, value string) error {
	record := domain.TokenRecord{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&record).Error
}

// LoadToken retrieves a token by key. A missing key yields "".
func (s *Storage) LoadToken(key string) (string, error) {
	var record domain.TokenRecord
	err := s.db.First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return record.Value, err
}

// DeleteToken removes a token by key.
func (s *Storage) DeleteToken(key string) error {
	return s.db.Where("key = ?", key).Delete(&domain.TokenRecord{}).Error
}
