package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bizdash/internal/core"
)

const inventoryColumns = `id, sku, name, stock, reorder_level, status`

func scanInventoryItem(s rowScanner) (core.InventoryItem, error) {
	var it core.InventoryItem
	err := s.Scan(&it.ID, &it.SKU, &it.Name, &it.Stock, &it.ReorderLevel, &it.Status)
	return it, err
}

// ListInventory returns every item, lowest stock first.
func (r *Repository) ListInventory(ctx context.Context) ([]core.InventoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY stock ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

	items := []core.InventoryItem{}
	for rows.Next() {
		it, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return items, nil
}

// GetInventoryItem returns the item with id, or nil when it does not exist.
func (r *Repository) GetInventoryItem(ctx context.Context, id int64) (*core.InventoryItem, error) {
	it, err := scanInventoryItem(r.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item %d: %w", id, err)
	}
	return &it, nil
}

// UpdateInventory overwrites stock, reorder level and status of item id.
// Status is stored as given; it is never derived from the stock level.
func (r *Repository) UpdateInventory(ctx context.Context, id int64, stock, reorderLevel int64, status string) (*core.InventoryItem, int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory SET stock = ?, reorder_level = ?, status = ? WHERE id = ?`,
		stock, reorderLevel, status, id)
	if err != nil {
		return nil, 0, fmt.Errorf("update inventory item %d: %w", id, err)
	}
	changes, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("rows affected: %w", err)
	}
	if changes == 0 {
		return nil, 0, nil
	}
	it, err := r.GetInventoryItem(ctx, id)
	if err != nil {
		return nil, changes, err
	}
	return it, changes, nil
}

// UpsertInventoryItem inserts an item or refreshes the one with the same SKU.
func (r *Repository) UpsertInventoryItem(ctx context.Context, it core.InventoryItem) error {
	if it.Status == "" {
		it.Status = core.DefaultInventoryStatus
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (sku, name, stock, reorder_level, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			name          = excluded.name,
			stock         = excluded.stock,
			reorder_level = excluded.reorder_level,
			status        = excluded.status`,
		it.SKU, it.Name, it.Stock, it.ReorderLevel, it.Status)
	if err != nil {
		return fmt.Errorf("upsert inventory item %s: %w", it.SKU, err)
	}
	return nil
}

// TotalStock sums stock across all items.
func (r *Repository) TotalStock(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(stock), 0) FROM inventory`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}
