package data

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Cache wraps a provider with a sqlite store so repeated runs over the
// same range do not hit the network. Factor requests pass through.
type Cache struct {
	inner Provider
	db    *sql.DB
}

// NewCache opens (or creates) the sqlite database and runs migrations.
func NewCache(path string, inner Provider) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS prices (
		symbol TEXT NOT NULL,
		date   TEXT NOT NULL,
		close  REAL NOT NULL,
		PRIMARY KEY (symbol, date)
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Cache{inner: inner, db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) Prices(symbol string, start, end time.Time) (PriceSeries, error) {
	if s, err := c.load(symbol, start, end); err == nil && len(s.Points) >= 2 {
		logrus.Debugf("cache hit: %s (%d rows)", symbol, len(s.Points))
		return s, nil
	}
	s, err := c.inner.Prices(symbol, start, end)
	if err != nil {
		return PriceSeries{}, err
	}
	if err := c.store(s); err != nil {
		logrus.WithError(err).Warnf("cache store for %s failed", symbol)
	}
	return s, nil
}

func (c *Cache) Factors(start, end time.Time) (FactorTable, error) {
	return c.inner.Factors(start, end)
}

func (c *Cache) load(symbol string, start, end time.Time) (PriceSeries, error) {
	rows, err := c.db.Query(
		`SELECT date, close FROM prices WHERE symbol = ? AND date >= ? AND date <= ? ORDER BY date`,
		symbol, start.Format(Layout), end.Format(Layout))
	if err != nil {
		return PriceSeries{}, err
	}
	defer rows.Close()

	var points []PricePoint
	for rows.Next() {
		var ds string
		var px float64
		if err := rows.Scan(&ds, &px); err != nil {
			return PriceSeries{}, err
		}
		d, err := time.Parse(Layout, ds)
		if err != nil {
			return PriceSeries{}, err
		}
		points = append(points, PricePoint{Date: d, Price: px})
	}
	return PriceSeries{Symbol: symbol, Points: points}, rows.Err()
}

func (c *Cache) store(s PriceSeries) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO prices (symbol, date, close) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, p := range s.Points {
		if _, err := stmt.Exec(s.Symbol, p.Date.Format(Layout), p.Price); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
