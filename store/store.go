// Package store is the persistence layer for cafes.
package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"cafe-api/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("cafe not found")
	ErrDuplicateName = errors.New("a cafe with that name already exists")
)

// CafeStore owns the canonical cafe records
type CafeStore struct {
	db *gorm.DB
}

func NewCafeStore(db *gorm.DB) *CafeStore {
	return &CafeStore{db: db}
}

// ListAll returns every cafe in no particular order
func (s *CafeStore) ListAll(ctx context.Context) ([]models.Cafe, error) {
	var cafes []models.Cafe
	if err := s.db.WithContext(ctx).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

// FindByLocation matches the location column exactly (case-sensitive)
func (s *CafeStore) FindByLocation(ctx context.Context, location string) ([]models.Cafe, error) {
	var cafes []models.Cafe
	if err := s.db.WithContext(ctx).Where("location = ?", location).Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("search cafes by location: %w", err)
	}
	return cafes, nil
}

func (s *CafeStore) FindByID(ctx context.Context, id uint) (*models.Cafe, error) {
	var cafe models.Cafe
	if err := s.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cafe %d: %w", id, err)
	}
	return &cafe, nil
}

// Random picks one cafe uniformly. An empty table yields ErrNotFound.
func (s *CafeStore) Random(ctx context.Context) (*models.Cafe, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	var cafe models.Cafe
	err = s.db.WithContext(ctx).Order("id").Offset(rand.IntN(int(n))).Limit(1).Take(&cafe).Error
	if err != nil {
		// a concurrent delete can shrink the table between count and offset
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("random cafe: %w", err)
	}
	return &cafe, nil
}

func (s *CafeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Cafe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

// Create inserts the cafe and fills in its ID
func (s *CafeStore) Create(ctx context.Context, cafe *models.Cafe) error {
	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.Cafe{}).Where("name = ?", cafe.Name).Count(&existing).Error; err != nil {
		return fmt.Errorf("check cafe name: %w", err)
	}
	if existing > 0 {
		return ErrDuplicateName
	}

	cafe.ID = 0
	if err := db.Create(cafe).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create cafe: %w", err)
	}
	return nil
}

// RowError records why one row of a batch was not stored
type RowError struct {
	Index int
	Name  string
	Err   error
}

// BatchResult reports the outcome of CreateBatch
type BatchResult struct {
	Created []models.Cafe
	Failed  []RowError
}

// CreateBatch inserts each cafe on its own, so one bad row does not abort
// the others. Only storage failures other than duplicates stop the batch.
func (s *CafeStore) CreateBatch(ctx context.Context, cafes []models.Cafe) (BatchResult, error) {
	var res BatchResult
	for i := range cafes {
		c := cafes[i]
		if err := s.Create(ctx, &c); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				res.Failed = append(res.Failed, RowError{Index: i, Name: c.Name, Err: err})
				continue
			}
			return res, err
		}
		res.Created = append(res.Created, c)
	}
	return res, nil
}

// UpdatePrice sets coffee_price and touches no other column. A nil price
// clears it.
func (s *CafeStore) UpdatePrice(ctx context.Context, id uint, price *string) error {
	res := s.db.WithContext(ctx).Model(&models.Cafe{}).Where("id = ?", id).Update("coffee_price", price)
	if res.Error != nil {
		return fmt.Errorf("update price of cafe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CafeStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Cafe{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete cafe %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the underlying database answers
func (s *CafeStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
