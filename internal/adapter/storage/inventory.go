package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.InventoryStorage = (*InventoryRepository)(nil)

// InventoryRepository owns the product and variant stock counters.
// Reserve and Restore each run as one transaction: every line commits
// or none do. The per-line helpers are shared with the orders
// repository so order creation and cancellation drive the ledger
// inside their own transaction.
type InventoryRepository struct {
	sqldb sqldb
}

func NewInventoryRepository(sqldb sqldb) InventoryRepository {
	return InventoryRepository{sqldb}
}

// Reserve atomically checks and decrements the stock counter of every
// line. A missing product or variant, or a quantity above the
// available stock, aborts the whole batch.
func (r InventoryRepository) Reserve(
	ctx context.Context, lines []domain.StockLine,
) (resErr error) {
	const op = "InventoryRepository.Reserve"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
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

	for _, ln := range lines {
		if err := reserveLine(ctx, tx, ln); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Restore increments stock by the recorded quantity for each line.
// Quantities are trusted echoes of a prior reservation, so no upper
// bound is applied.
func (r InventoryRepository) Restore(
	ctx context.Context, lines []domain.StockLine,
) (resErr error) {
	const op = "InventoryRepository.Restore"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
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

	for _, ln := range lines {
		if err := restoreLine(ctx, tx, ln); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// reserveLine decrements one stock counter, refusing to go below zero.
// The conditional update checks and decrements in a single statement,
// so concurrent reservations cannot oversell the row.
func reserveLine(ctx context.Context, tx execer, ln domain.StockLine) error {
	if ln.VariantID != "" {
		res, err := tx.ExecContext(ctx, `
			UPDATE variants
			SET stock = stock - $1
			WHERE variant_id = $2 AND product_id = $3 AND stock >= $1;`,
			ln.Quantity, ln.VariantID, ln.ProductID,
		)
		if err != nil {
			return fmt.Errorf("failed to reserve variant stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if err := variantExists(ctx, tx, ln); err != nil {
				return err
			}
			return fmt.Errorf(
				"%w: variant %q", domain.ErrInsufficientStock, ln.VariantID,
			)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $1
		WHERE product_id = $2 AND stock >= $1;`,
		ln.Quantity, ln.ProductID,
	)
	if err != nil {
		return fmt.Errorf("failed to reserve product stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if err := productExists(ctx, tx, ln.ProductID); err != nil {
			return err
		}
		return fmt.Errorf(
			"%w: product %q", domain.ErrInsufficientStock, ln.ProductID,
		)
	}
	return nil
}

func restoreLine(ctx context.Context, tx execer, ln domain.StockLine) error {
	if ln.VariantID != "" {
		res, err := tx.ExecContext(ctx, `
			UPDATE variants SET stock = stock + $1 WHERE variant_id = $2;`,
			ln.Quantity, ln.VariantID,
		)
		if err != nil {
			return fmt.Errorf("failed to restore variant stock: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf(
				"%w: variant %q", domain.ErrVariantNotFound, ln.VariantID,
			)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + $1 WHERE product_id = $2;`,
		ln.Quantity, ln.ProductID,
	)
	if err != nil {
		return fmt.Errorf("failed to restore product stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf(
			"%w: product %q", domain.ErrProductNotFound, ln.ProductID,
		)
	}
	return nil
}

func productExists(ctx context.Context, tx execer, productID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM products WHERE product_id = $1;`, productID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", domain.ErrProductNotFound, productID)
	}
	return err
}

func variantExists(ctx context.Context, tx execer, ln domain.StockLine) error {
	var one int
	err := tx.QueryRowContext(ctx, `
		SELECT 1 FROM variants WHERE variant_id = $1 AND product_id = $2;`,
		ln.VariantID, ln.ProductID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %q", domain.ErrVariantNotFound, ln.VariantID)
	}
	return err
}
