package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erenulutas0/doranV5-sub000/internal/entity"
	"github.com/erenulutas0/doranV5-sub000/internal/usecase"
)

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// Create writes the order row and all item rows in one transaction. Either
// everything lands or nothing does.
func (r *MySQLOrderRepo) Create(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO orders (id,user_id,address_id,status,total_amount,shipping_address,city,zip_code,phone_number,notes,order_date,delivery_date,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.UserID, nullStr(o.AddressID), string(o.Status), o.TotalAmount,
		o.ShippingAddress, o.City, o.ZipCode, o.PhoneNumber, o.Notes,
		o.OrderDate, o.DeliveryDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, o *entity.Order) error {
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO order_items (id,order_id,product_id,product_name,price,quantity,subtotal)
VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range o.Items {
		if _, err := stmt.ExecContext(ctx, it.ID, o.ID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.Subtotal); err != nil {
			return fmt.Errorf("insert order item %s: %w", it.ID, err)
		}
	}
	return nil
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,address_id,status,total_amount,shipping_address,city,zip_code,phone_number,notes,order_date,delivery_date,created_at,updated_at
FROM orders WHERE id=?`, id)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.list(ctx, `
SELECT id,user_id,address_id,status,total_amount,shipping_address,city,zip_code,phone_number,notes,order_date,delivery_date,created_at,updated_at
FROM orders WHERE user_id=? ORDER BY order_date DESC`, userID)
}

func (r *MySQLOrderRepo) ListByStatus(ctx context.Context, status entity.Status) ([]entity.Order, error) {
	return r.list(ctx, `
SELECT id,user_id,address_id,status,total_amount,shipping_address,city,zip_code,phone_number,notes,order_date,delivery_date,created_at,updated_at
FROM orders WHERE status=? ORDER BY order_date DESC`, string(status))
}

func (r *MySQLOrderRepo) list(ctx context.Context, query string, arg any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := r.loadItems(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// UpdateStatusIf commits a transition only when the row is still in the
// expected status. rows==0 means not found or a lost concurrent race.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, from, to entity.Status, deliveredAt *time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders
SET status=?, delivery_date=COALESCE(?, delivery_date), updated_at=NOW()
WHERE id=? AND status=?`,
		string(to), deliveredAt, id, string(from))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Update rewrites the shipping snapshot, notes and total, and replaces the
// whole item collection, all in one transaction. The WHERE status='PENDING'
// guard backs the not-editable rule at the persistence layer too.
func (r *MySQLOrderRepo) Update(ctx context.Context, o *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
UPDATE orders
SET shipping_address=?, city=?, zip_code=?, phone_number=?, notes=?, total_amount=?, updated_at=?
WHERE id=? AND status='PENDING'`,
		o.ShippingAddress, o.City, o.ZipCode, o.PhoneNumber, o.Notes, o.TotalAmount, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return entity.ErrNotEditable
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id=?`, o.ID); err != nil {
		return fmt.Errorf("clear order items: %w", err)
	}
	if err := insertItems(ctx, tx, o); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MySQLOrderRepo) loadItems(ctx context.Context, o *entity.Order) error {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,order_id,product_id,product_name,price,quantity,subtotal
FROM order_items WHERE order_id=? ORDER BY id`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Price, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*entity.Order, error) {
	var (
		o         entity.Order
		status    string
		addressID sql.NullString
		delivered sql.NullTime
		notes     sql.NullString
	)
	err := row.Scan(&o.ID, &o.UserID, &addressID, &status, &o.TotalAmount,
		&o.ShippingAddress, &o.City, &o.ZipCode, &o.PhoneNumber, &notes,
		&o.OrderDate, &delivered, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.Status(status)
	o.AddressID = addressID.String
	o.Notes = notes.String
	if delivered.Valid {
		t := delivered.Time
		o.DeliveryDate = &t
	}
	return &o, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
