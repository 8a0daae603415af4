package sales

import (
	"context"
	"errors"
	"sort"

	"bakery-backend/internal/models"

	"gorm.io/gorm"
)

// ErrProductNotFound is returned by AdjustStock when no row exists for the product.
var ErrProductNotFound = errors.New("product not found")

// Store is the persistence boundary for sale records.
type Store interface {
	// All returns every persisted record, ordered by date, product, id.
	All(ctx context.Context) ([]models.SaleRecord, error)
	// InsertIfAbsent persists the record unless a row with the same natural
	// key already exists. Reports whether a row was actually inserted. The
	// existence check happens here, at write time, so re-running an ingest
	// cannot create duplicates even if the batch was prepared against a
	// stale read.
	InsertIfAbsent(ctx context.Context, rec models.SaleRecord) (bool, error)
	// AdjustStock applies the signed delta to the product's stock exactly
	// once: the row with the smallest ID for the product absorbs it, so the
	// per-product stock sum moves by delta.
	AdjustStock(ctx context.Context, product string, delta int) error
}

// GormStore backs Store with postgres via gorm. All queries use bound
// parameters, never interpolated values.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) All(ctx context.Context) ([]models.SaleRecord, error) {
	var recs []models.SaleRecord
	err := s.db.WithContext(ctx).
		Order("sale_date ASC, product ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *GormStore) InsertIfAbsent(ctx context.Context, rec models.SaleRecord) (bool, error) {
	inserted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		err := tx.Model(&models.SaleRecord{}).
			Where("sale_date = ? AND product = ? AND quantity = ? AND unit_price = ?",
				rec.SaleDate, rec.Product, rec.Quantity, rec.UnitPrice).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

func (s *GormStore) AdjustStock(ctx context.Context, product string, delta int) error {
	res := s.db.WithContext(ctx).Exec(
		`UPDATE sales SET stock_quantity = stock_quantity + ?, updated_at = NOW()
		 WHERE id = (SELECT id FROM sales WHERE product = ? ORDER BY id ASC LIMIT 1)`,
		delta, product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// MemoryStore is an in-memory Store, used in tests and for running the server
// without a database.
type MemoryStore struct {
	recs   []models.SaleRecord
	nextID uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (m *MemoryStore) All(ctx context.Context) ([]models.SaleRecord, error) {
	out := make([]models.SaleRecord, len(m.recs))
	copy(out, m.recs)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.Before(out[j].SaleDate)
		}
		if out[i].Product != out[j].Product {
			return out[i].Product < out[j].Product
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) InsertIfAbsent(ctx context.Context, rec models.SaleRecord) (bool, error) {
	key := rec.NaturalKey()
	for _, r := range m.recs {
		if r.NaturalKey() == key {
			return false, nil
		}
	}
	rec.ID = m.nextID
	m.nextID++
	m.recs = append(m.recs, rec)
	return true, nil
}

func (m *MemoryStore) AdjustStock(ctx context.Context, product string, delta int) error {
	idx := -1
	for i, r := range m.recs {
		if r.Product != product {
			continue
		}
		if idx == -1 || m.recs[i].ID < m.recs[idx].ID {
			idx = i
		}
	}
	if idx == -1 {
		return ErrProductNotFound
	}
	m.recs[idx].StockQuantity += delta
	return nil
}
