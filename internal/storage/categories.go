package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bizdash/internal/core"
)

// CategoryTotals returns every category with its sales total for month
// ("YYYY-MM"). Categories without sales that month report 0. Rows are ordered
// by total descending, ties broken by category id ascending.
func (r *Repository) CategoryTotals(ctx context.Context, month string) ([]core.CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, COALESCE(SUM(s.amount), 0) AS total
		FROM categories c
		LEFT JOIN category_sales s ON s.category_id = c.id AND s.month = ?
		GROUP BY c.id, c.name
		ORDER BY total DESC, c.id ASC`, month)
	if err != nil {
		return nil, fmt.Errorf("query category totals: %w", err)
	}
	defer rows.Close()

	out := []core.CategoryTotal{}
	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.ID, &ct.Name, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category totals: %w", err)
	}
	return out, nil
}

// ListCategories returns all categories by id.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertCategory returns the id of the category called name, creating it if needed.
func (r *Repository) UpsertCategory(ctx context.Context, name string) (int64, error) {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("insert category %s: %w", name, err)
	}
	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM categories WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup category %s: %w", name, err)
	}
	return id, nil
}

// AddCategorySale records a sales amount for a category and month.
func (r *Repository) AddCategorySale(ctx context.Context, categoryID int64, month string, amount decimal.Decimal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO category_sales (category_id, month, amount) VALUES (?, ?, ?)`,
		categoryID, month, amount)
	if err != nil {
		return 0, fmt.Errorf("insert category sale: %w", err)
	}
	return res.LastInsertId()
}

// DeleteCategory removes a category; its sales rows go with it.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete category %d: %w", id, err)
	}
	return res.RowsAffected()
}

// CountCategorySales reports the number of sales rows for a category.
func (r *Repository) CountCategorySales(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM category_sales WHERE category_id = ?`, categoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count category sales: %w", err)
	}
	return n, nil
}
