package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type SalesRecord struct {
	ID                     int64
	Year                   int64
	Month                  int64
	Recession              int64
	VehicleType            string
	AutomobileSales        float64
	AdvertisingExpenditure float64
	UnemploymentRate       float64
}

type ViewStat struct {
	Report           string
	Year             int64
	Views            int64
	PlaceholderViews int64
	LastViewedAt     int64
}

const deleteAllSalesRecords = `DELETE FROM sales_records`

func (q *Queries) DeleteAllSalesRecords(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSalesRecords)
	return err
}

const insertSalesRecord = `INSERT INTO sales_records (
    year, month, recession, vehicle_type, automobile_sales, advertising_expenditure, unemployment_rate
) VALUES (?, ?, ?, ?, ?, ?, ?)`

type InsertSalesRecordParams struct {
	Year                   int64
	Month                  int64
	Recession              int64
	VehicleType            string
	AutomobileSales        float64
	AdvertisingExpenditure float64
	UnemploymentRate       float64
}

func (q *Queries) InsertSalesRecord(ctx context.Context, arg InsertSalesRecordParams) error {
	_, err := q.db.ExecContext(ctx, insertSalesRecord,
		arg.Year,
		arg.Month,
		arg.Recession,
		arg.VehicleType,
		arg.AutomobileSales,
		arg.AdvertisingExpenditure,
		arg.UnemploymentRate,
	)
	return err
}

// Ordered by id so the import order of the source table is kept.
const listSalesRecords = `SELECT id, year, month, recession, vehicle_type, automobile_sales, advertising_expenditure, unemployment_rate
FROM sales_records
ORDER BY id`

func (q *Queries) ListSalesRecords(ctx context.Context) ([]SalesRecord, error) {
	rows, err := q.db.QueryContext(ctx, listSalesRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SalesRecord
	for rows.Next() {
		var i SalesRecord
		if err := rows.Scan(
			&i.ID,
			&i.Year,
			&i.Month,
			&i.Recession,
			&i.VehicleType,
			&i.AutomobileSales,
			&i.AdvertisingExpenditure,
			&i.UnemploymentRate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countSalesRecords = `SELECT COUNT(*) FROM sales_records`

func (q *Queries) CountSalesRecords(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSalesRecords)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const upsertViewStat = `INSERT INTO view_stats (report, year, views, placeholder_views, last_viewed_at)
VALUES (?, ?, 1, ?, ?)
ON CONFLICT(report, year) DO UPDATE SET
    views = views + 1,
    placeholder_views = placeholder_views + excluded.placeholder_views,
    last_viewed_at = MAX(last_viewed_at, excluded.last_viewed_at)`

type UpsertViewStatParams struct {
	Report           string
	Year             int64
	PlaceholderViews int64
	LastViewedAt     int64
}

func (q *Queries) UpsertViewStat(ctx context.Context, arg UpsertViewStatParams) error {
	_, err := q.db.ExecContext(ctx, upsertViewStat,
		arg.Report,
		arg.Year,
		arg.PlaceholderViews,
		arg.LastViewedAt,
	)
	return err
}

const listViewStats = `SELECT report, year, views, placeholder_views, last_viewed_at
FROM view_stats
ORDER BY views DESC, report, year`

func (q *Queries) ListViewStats(ctx context.Context) ([]ViewStat, error) {
	rows, err := q.db.QueryContext(ctx, listViewStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ViewStat
	for rows.Next() {
		var i ViewStat
		if err := rows.Scan(
			&i.Report,
			&i.Year,
			&i.Views,
			&i.PlaceholderViews,
			&i.LastViewedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
