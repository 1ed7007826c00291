package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.OrderStorage = (*OrdersRepository)(nil)

// OrdersRepository persists orders and drives their status machine.
// Order creation and the cancellation+restore pair each run as a
// single transaction over products, variants and order rows.
type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

// CreateOrder resolves, prices and reserves every requested item, then
// inserts the order with status PENDING and the frozen unit prices.
// A failure at any step leaves no stock mutation and no order row.
func (r OrdersRepository) CreateOrder(
	ctx context.Context, orderID string, req domain.OrderRequest,
) (o domain.Order, resErr error) {
	const op = "OrdersRepository.CreateOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if resErr == nil {
			if err := tx.Commit(); err != nil {
				resErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	var total float64
	items := make([]domain.OrderItem, 0, len(req.Items))

	for _, it := range req.Items {
		unitPrice, err := resolveUnitPrice(ctx, tx, it)
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}

		err = reserveLine(ctx, tx, domain.StockLine{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("%s: %w", op, err)
		}

		total += unitPrice * float64(it.Quantity)
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
		})
	}

	now := time.Now()
	order := domain.Order{
		OrderID:         orderID,
		UserID:          req.UserID,
		Total:           total,
		Status:          domain.OrderPending,
		PaymentID:       req.PaymentID,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := insertOrder(ctx, tx, order); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

// resolveUnitPrice fetches the catalog price for an order line:
// the variant override when present, otherwise the product base price.
// The discount overlay is never read here.
func resolveUnitPrice(
	ctx context.Context, tx execer, it domain.OrderRequestItem,
) (float64, error) {
	var basePrice float64
	err := tx.QueryRowContext(ctx, `
		SELECT price FROM products WHERE product_id = $1;`,
		it.ProductID,
	).Scan(&basePrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf(
				"%w: %q", domain.ErrProductNotFound, it.ProductID,
			)
		}
		return 0, fmt.Errorf("failed to read product: %w", err)
	}

	if it.VariantID == "" {
		return basePrice, nil
	}

	var override sql.NullFloat64
	err = tx.QueryRowContext(ctx, `
		SELECT price FROM variants
		WHERE variant_id = $1 AND product_id = $2;`,
		it.VariantID, it.ProductID,
	).Scan(&override)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf(
				"%w: %q", domain.ErrVariantNotFound, it.VariantID,
			)
		}
		return 0, fmt.Errorf("failed to read variant: %w", err)
	}

	if override.Valid {
		return override.Float64, nil
	}
	return basePrice, nil
}

func insertOrder(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	addrB, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			order_id, user_id, total, status,
			payment_id, shipping_address, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		o.OrderID, o.UserID, o.Total, o.Status,
		nullStr(o.PaymentID), string(addrB), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (
			order_id, product_id, variant_id, quantity, unit_price
		)
		VALUES ($1, $2, $3, $4, $5);`)
	if err != nil {
		return fmt.Errorf("failed to prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, it := range o.Items {
		_, err := stmt.ExecContext(ctx,
			o.OrderID, it.ProductID, nullStr(it.VariantID),
			it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func (r OrdersRepository) OrderByID(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "OrdersRepository.OrderByID"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := r.readOrder(ctx, `
		SELECT order_id, user_id, total, status,
			payment_id, shipping_address, created_at, updated_at
		FROM orders WHERE order_id = $1;`, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// OrderByPaymentRef matches the order whose identity equals the
// gateway reference or whose stored payment id equals the transaction
// id. No match is a normal outcome surfaced as ErrOrderNotFound.
func (r OrdersRepository) OrderByPaymentRef(
	ctx context.Context, reference, transactionID string,
) (domain.Order, error) {
	const op = "OrdersRepository.OrderByPaymentRef"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	o, err := r.readOrder(ctx, `
		SELECT order_id, user_id, total, status,
			payment_id, shipping_address, created_at, updated_at
		FROM orders
		WHERE order_id = $1 OR payment_id = $2
		LIMIT 1;`, reference, transactionID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

func (r OrdersRepository) OrdersByUser(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "OrdersRepository.OrdersByUser"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, `
		SELECT order_id, user_id, total, status,
			payment_id, shipping_address, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC;`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range orders {
		items, err := r.orderItems(ctx, orders[i].OrderID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders[i].Items = items
	}
	return orders, nil
}

// ApproveOrder applies PENDING -> PROCESSING. The status guard in the
// WHERE clause makes redelivered approvals a no-op.
func (r OrdersRepository) ApproveOrder(
	ctx context.Context, orderID, transactionID string,
) (bool, error) {
	const op = "OrdersRepository.ApproveOrder"

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE order_id = $4 AND status = $5;`,
		domain.OrderProcessing, transactionID, time.Now(),
		orderID, domain.OrderPending,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n == 1, nil
}

// CancelOrder applies the terminal transition and restores every
// item's stock inside one transaction. The conditional update is the
// double-restoration guard: once the order is CANCELLED, redelivered
// decline events affect zero rows and the restore never runs again.
func (r OrdersRepository) CancelOrder(
	ctx context.Context, orderID, transactionID string,
) (applied bool, resErr error) {
	const op = "OrdersRepository.CancelOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if resErr == nil {
			if err := tx.Commit(); err != nil {
				applied = false
				resErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}
		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_id = $2, updated_at = $3
		WHERE order_id = $4 AND status <> $1;`,
		domain.OrderCancelled, transactionID, time.Now(), orderID,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return false, nil
	}

	lines, err := orderStockLines(ctx, tx, orderID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	for _, ln := range lines {
		if err := restoreLine(ctx, tx, ln); err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
	}
	return true, nil
}

func (r OrdersRepository) SetOrderStatus(
	ctx context.Context, orderID string, status domain.OrderStatus,
) error {
	const op = "OrdersRepository.SetOrderStatus"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `
		UPDATE orders SET status = $1, updated_at = $2
		WHERE order_id = $3;`,
		status, time.Now(), orderID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w: %q", op, domain.ErrOrderNotFound, orderID)
	}
	return nil
}

func (r OrdersRepository) readOrder(
	ctx context.Context, query string, args ...any,
) (domain.Order, error) {
	row := r.sqldb.QueryRowContext(ctx, query, args...)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, err
	}

	items, err := r.orderItems(ctx, o.OrderID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r OrdersRepository) orderItems(
	ctx context.Context, orderID string,
) ([]domain.OrderItem, error) {
	rows, err := r.sqldb.QueryContext(ctx, `
		SELECT product_id, variant_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY order_item_id;`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		var variantID sql.NullString
		err := rows.Scan(
			&it.ProductID, &variantID, &it.Quantity, &it.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		it.VariantID = strOrEmpty(variantID)
		items = append(items, it)
	}
	return items, rows.Err()
}

func orderStockLines(
	ctx context.Context, tx *sql.Tx, orderID string,
) ([]domain.StockLine, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT product_id, variant_id, quantity
		FROM order_items
		WHERE order_id = $1;`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to read order items: %w", err)
	}
	defer rows.Close()

	var lines []domain.StockLine
	for rows.Next() {
		var ln domain.StockLine
		var variantID sql.NullString
		if err := rows.Scan(&ln.ProductID, &variantID, &ln.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		ln.VariantID = strOrEmpty(variantID)
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var paymentID sql.NullString
	var addrS string

	err := row.Scan(
		&o.OrderID, &o.UserID, &o.Total, &o.Status,
		&paymentID, &addrS, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}

	o.PaymentID = strOrEmpty(paymentID)
	if err := json.Unmarshal([]byte(addrS), &o.ShippingAddress); err != nil {
		return domain.Order{}, fmt.Errorf(
			"failed to unmarshal shipping address: %w", err,
		)
	}
	return o, nil
}
