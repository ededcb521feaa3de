package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// PostgresStore writes evaluated listings to PostgreSQL
type PostgresStore struct {
	db        *sql.DB
	tableName string
}

// NewPostgresStore opens a connection and ensures the target table exists.
func NewPostgresStore(connStr string, tableName string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.ensureTable(); err != nil {
		return nil, fmt.Errorf("ensure table: %w", err)
	}

	return s, nil
}

func (s *PostgresStore) ensureTable() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			platform TEXT,
			make TEXT,
			model TEXT,
			year INTEGER,
			mileage_km DOUBLE PRECISION,
			condition TEXT,
			fuel_type TEXT,
			city TEXT,
			region TEXT,
			country TEXT,
			listing_price_usd DOUBLE PRECISION,
			currency_original TEXT,
			images TEXT[],
			predicted_price DOUBLE PRECISION,
			price_min DOUBLE PRECISION,
			price_max DOUBLE PRECISION,
			confidence INTEGER,
			deal_quality TEXT,
			market_position TEXT,
			scraped_at TIMESTAMP WITH TIME ZONE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, s.tableName)

	_, err := s.db.Exec(query)
	return err
}

const upsertColumns = `
		id, url, platform, make, model, year,
		mileage_km, condition, fuel_type, city, region, country,
		listing_price_usd, currency_original, images,
		predicted_price, price_min, price_max, confidence,
		deal_quality, market_position, scraped_at, updated_at`

func (s *PostgresStore) upsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			url = EXCLUDED.url,
			platform = EXCLUDED.platform,
			make = EXCLUDED.make,
			model = EXCLUDED.model,
			year = EXCLUDED.year,
			mileage_km = EXCLUDED.mileage_km,
			condition = EXCLUDED.condition,
			fuel_type = EXCLUDED.fuel_type,
			city = EXCLUDED.city,
			region = EXCLUDED.region,
			country = EXCLUDED.country,
			listing_price_usd = EXCLUDED.listing_price_usd,
			currency_original = EXCLUDED.currency_original,
			images = EXCLUDED.images,
			predicted_price = EXCLUDED.predicted_price,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			confidence = EXCLUDED.confidence,
			deal_quality = EXCLUDED.deal_quality,
			market_position = EXCLUDED.market_position,
			scraped_at = EXCLUDED.scraped_at,
			updated_at = NOW()
	`, s.tableName, upsertColumns)
}

func upsertArgs(url string, eval *domain.Evaluation) []any {
	f := eval.Features
	p := eval.Prediction

	return []any{
		recordID(url), url, string(f.Platform), f.Make, f.Model, f.Year,
		f.MileageKM, string(f.Condition), string(f.FuelType),
		f.Location.City, f.Location.Region, f.Location.Country,
		f.ListingPriceUSD, f.CurrencyOriginal, pq.Array(f.Images),
		p.PredictedPrice, p.PriceRange.Min, p.PriceRange.Max, p.Confidence,
		string(p.DealQuality), p.MarketPosition, f.ScrapedAt,
	}
}

// Save upserts a single evaluated listing keyed by its normalized URL.
func (s *PostgresStore) Save(ctx context.Context, url string, eval *domain.Evaluation) error {
	_, err := s.db.ExecContext(ctx, s.upsertQuery(), upsertArgs(url, eval)...)
	return err
}

// SaveBatch upserts multiple evaluations inside one transaction.
func (s *PostgresStore) SaveBatch(ctx context.Context, evals map[string]*domain.Evaluation) error {
	if len(evals) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.upsertQuery())
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for url, eval := range evals {
		if _, err := stmt.ExecContext(ctx, upsertArgs(url, eval)...); err != nil {
			slog.Error("store listing", "url", url, "error", err)
			continue
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
