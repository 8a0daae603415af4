package sales

import (
	"context"
	"strings"
	"sync"

	"bakery-backend/internal/models"

	"go.uber.org/zap"
)

// IngestResult reports what happened to a batch: how many rows were persisted,
// how many were duplicates (within the batch or against the store), and how
// many failed normalization.
type IngestResult struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Dropped    int `json:"dropped"`
}

// Service runs the normalize → dedup → ingest pipeline and serves the cached
// dataset to the reporting side.
//
// The cache holds the last full read of the store and is invalidated after
// every successful ingest or stock adjustment, so readers never see a
// pre-write snapshot. It is only a per-process convenience; concurrent
// processes still race on the read-then-write dedup check, as the store's
// insert-if-absent is not atomic across callers.
type Service struct {
	store  Store
	logger *zap.Logger

	mu     sync.Mutex
	cached []models.SaleRecord
	valid  bool
}

func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Dataset returns the full persisted dataset, re-querying the store only when
// the cached copy has been invalidated by a write.
func (s *Service) Dataset(ctx context.Context) ([]models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid {
		return s.cached, nil
	}
	recs, err := s.store.All(ctx)
	if err != nil {
		s.logger.Error("dataset read failed", zap.Error(err))
		return nil, err
	}
	s.cached = recs
	s.valid = true
	return recs, nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.valid = false
	s.mu.Unlock()
}

// Ingest runs a raw batch through the full pipeline. Normalization failures
// are dropped row by row; a store failure aborts the rest of the batch.
func (s *Service) Ingest(ctx context.Context, rows []RawRow) (IngestResult, error) {
	result := IngestResult{}

	batch, dropped := Normalize(rows)
	result.Dropped = dropped

	dataset, err := s.Dataset(ctx)
	if err != nil {
		return result, err
	}

	fresh := Dedupe(batch, KeySet(dataset))
	result.Duplicates = len(batch) - len(fresh)

	for _, rec := range fresh {
		inserted, err := s.store.InsertIfAbsent(ctx, rec)
		if err != nil {
			s.logger.Error("insert failed",
				zap.String("product", rec.Product),
				zap.Error(err))
			if result.Accepted > 0 {
				s.invalidate()
			}
			return result, err
		}
		if !inserted {
			// Another writer got there between our dataset read and
			// this insert; count it as a duplicate, same as batch prep.
			result.Duplicates++
			continue
		}
		result.Accepted++
	}

	if result.Accepted > 0 {
		s.invalidate()
	}

	s.logger.Info("batch ingested",
		zap.Int("accepted", result.Accepted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("dropped", result.Dropped))
	return result, nil
}

// AddSale routes a single manual entry through the same pipeline as a
// one-row batch.
func (s *Service) AddSale(ctx context.Context, row RawRow) (IngestResult, error) {
	return s.Ingest(ctx, []RawRow{row})
}

// AdjustStock applies a signed stock delta to a product (identifier is
// normalized the same way as sale rows).
func (s *Service) AdjustStock(ctx context.Context, product string, delta int) error {
	product = strings.ToUpper(strings.TrimSpace(product))
	if product == "" {
		return ErrProductNotFound
	}
	if err := s.store.AdjustStock(ctx, product, delta); err != nil {
		if err != ErrProductNotFound {
			s.logger.Error("stock adjustment failed",
				zap.String("product", product),
				zap.Error(err))
		}
		return err
	}
	s.invalidate()
	s.logger.Info("stock adjusted",
		zap.String("product", product),
		zap.Int("delta", delta))
	return nil
}
