// Package store persists one row per trade cycle using Gorm + SQLite.
// The journal is an audit trail, never an input to trading decisions: the
// exchange stays the only source of truth for live state.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mako/internal/trader"
)

// CycleModel is the journal row for one orchestrator cycle.
type CycleModel struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Symbol         string `gorm:"index" json:"symbol"`
	Side           string `json:"side"`
	Trigger        string `json:"trigger"`
	Outcome        string `gorm:"index" json:"outcome"`
	ReferencePrice float64 `json:"reference_price"`
	Size           float64 `json:"size"`
	Leverage       float64 `json:"leverage"`
	OrderID        string  `json:"order_id,omitempty"`
	ClientOrderID  string  `json:"client_order_id,omitempty"`
	Error          string  `json:"error,omitempty"`
	// Reconcile holds the pass's per-item results as raw JSON for
	// debugging; it is never read back programmatically.
	Reconcile  datatypes.JSON `json:"reconcile,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

func (CycleModel) TableName() string { return "trade_cycles" }

// Journal implements trader.Journal.
type Journal struct {
	db *gorm.DB
}

var _ trader.Journal = (*Journal)(nil)

// NewJournal opens (creating if needed) the SQLite journal at path. WAL
// keeps the HTTP read path from blocking the write path.
func NewJournal(path string) (*Journal, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("journal path cannot be empty")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CycleModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Journal{db: db}, nil
}

// RecordCycle appends one cycle row.
func (j *Journal) RecordCycle(ctx context.Context, res *trader.CycleResult) error {
	if res == nil {
		return nil
	}
	row := CycleModel{
		Symbol:         res.Symbol,
		Side:           string(res.Side),
		Trigger:        string(res.Trigger),
		Outcome:        string(res.Outcome),
		ReferencePrice: res.ReferencePrice,
		Size:           res.Size,
		Leverage:       res.Leverage,
		StartedAt:      res.StartedAt,
		FinishedAt:     res.FinishedAt,
	}
	if res.Order != nil {
		row.OrderID = res.Order.OrderID
		row.ClientOrderID = res.Order.ClientOrderID
	}
	if res.Err != nil {
		row.Error = res.Err.Error()
	}
	if res.Reconciled != nil && len(res.Reconciled.Items) > 0 {
		if raw, err := json.Marshal(reconcileItemsForJSON(res.Reconciled)); err == nil {
			row.Reconcile = datatypes.JSON(raw)
		}
	}
	return j.db.WithContext(ctx).Create(&row).Error
}

// RecentCycles returns up to limit rows, newest first, optionally filtered
// by symbol.
func (j *Journal) RecentCycles(ctx context.Context, symbol string, limit int) ([]CycleModel, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	q := j.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if symbol = strings.TrimSpace(symbol); symbol != "" {
		q = q.Where("symbol = ?", strings.ToUpper(symbol))
	}
	var out []CycleModel
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type reconcileItemJSON struct {
	Kind          string `json:"kind"`
	Symbol        string `json:"symbol"`
	HoldSide      string `json:"hold_side,omitempty"`
	OrderID       string `json:"order_id,omitempty"`
	FlashFallback bool   `json:"flash_fallback,omitempty"`
	Error         string `json:"error,omitempty"`
}

func reconcileItemsForJSON(report *trader.Report) []reconcileItemJSON {
	out := make([]reconcileItemJSON, 0, len(report.Items))
	for _, item := range report.Items {
		row := reconcileItemJSON{
			Kind:          item.Kind,
			Symbol:        item.Symbol,
			HoldSide:      string(item.HoldSide),
			OrderID:       item.OrderID,
			FlashFallback: item.FlashFallback,
		}
		if item.Err != nil {
			row.Error = item.Err.Error()
		}
		out = append(out, row)
	}
	return out
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
