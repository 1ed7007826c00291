package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.DiscountStorage = (*DiscountsRepository)(nil)

// DiscountsRepository persists discounts, their scope associations and
// the campaign price overlays on products.
type DiscountsRepository struct {
	sqldb sqldb
}

func NewDiscountsRepository(sqldb sqldb) DiscountsRepository {
	return DiscountsRepository{sqldb}
}

func (r DiscountsRepository) CreateDiscount(
	ctx context.Context, d domain.Discount,
) (created domain.Discount, resErr error) {
	const op = "DiscountsRepository.CreateDiscount"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
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

	_, err = tx.ExecContext(ctx, `
		INSERT INTO discounts (
			discount_id, kind, value, code, starts_at, ends_at, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		d.DiscountID, d.Kind, d.Value, nullStr(d.Code),
		d.StartsAt, d.EndsAt, d.Active,
	)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, codeErr(err, d.Code))
	}

	if err := insertScope(ctx, tx, d); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// UpdateDiscount rewrites the discount row and replaces its scope
// associations ("set" semantics, not append).
func (r DiscountsRepository) UpdateDiscount(
	ctx context.Context, d domain.Discount,
) (updated domain.Discount, resErr error) {
	const op = "DiscountsRepository.UpdateDiscount"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
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

	res, err := tx.ExecContext(ctx, `
		UPDATE discounts
		SET kind = $1, value = $2, code = $3,
			starts_at = $4, ends_at = $5, is_active = $6
		WHERE discount_id = $7;`,
		d.Kind, d.Value, nullStr(d.Code),
		d.StartsAt, d.EndsAt, d.Active, d.DiscountID,
	)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, codeErr(err, d.Code))
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Discount{}, fmt.Errorf(
			"%s: %w: %q", op, domain.ErrDiscountNotFound, d.DiscountID,
		)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM discount_products WHERE discount_id = $1;`, d.DiscountID)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM discount_collections WHERE discount_id = $1;`, d.DiscountID)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertScope(ctx, tx, d); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

func (r DiscountsRepository) DeleteDiscount(
	ctx context.Context, discountID string,
) error {
	const op = "DiscountsRepository.DeleteDiscount"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.sqldb.ExecContext(ctx, `
		DELETE FROM discounts WHERE discount_id = $1;`, discountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf(
			"%s: %w: %q", op, domain.ErrDiscountNotFound, discountID,
		)
	}
	return nil
}

func (r DiscountsRepository) DiscountByID(
	ctx context.Context, discountID string,
) (domain.Discount, error) {
	const op = "DiscountsRepository.DiscountByID"

	if err := ctx.Err(); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	var d domain.Discount
	var code sql.NullString
	err := r.sqldb.QueryRowContext(ctx, `
		SELECT discount_id, kind, value, code, starts_at, ends_at, is_active
		FROM discounts WHERE discount_id = $1;`,
		discountID,
	).Scan(
		&d.DiscountID, &d.Kind, &d.Value, &code,
		&d.StartsAt, &d.EndsAt, &d.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Discount{}, fmt.Errorf(
				"%s: %w: %q", op, domain.ErrDiscountNotFound, discountID,
			)
		}
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}
	d.Code = strOrEmpty(code)

	d.ProductIDs, err = r.scopeIDs(ctx, `
		SELECT product_id FROM discount_products WHERE discount_id = $1;`,
		discountID)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	d.CollectionIDs, err = r.scopeIDs(ctx, `
		SELECT collection_id FROM discount_collections WHERE discount_id = $1;`,
		discountID)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	return d, nil
}

// ScopeProducts resolves the discount scope as the union of directly
// attached products and members of attached collections, deduplicated
// by product identity.
func (r DiscountsRepository) ScopeProducts(
	ctx context.Context, discountID string,
) ([]domain.Product, error) {
	const op = "DiscountsRepository.ScopeProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.sqldb.QueryContext(ctx, `
		SELECT p.product_id, p.name, p.price
		FROM products p
		WHERE p.product_id IN (
			SELECT product_id
			FROM discount_products
			WHERE discount_id = $1
			UNION
			SELECT cp.product_id
			FROM collection_products cp
			JOIN discount_collections dc
				ON dc.collection_id = cp.collection_id
			WHERE dc.discount_id = $1
		);`, discountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r DiscountsRepository) SetOverlayPrices(
	ctx context.Context, overlays map[string]float64,
) (resErr error) {
	const op = "DiscountsRepository.SetOverlayPrices"
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

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE products SET discount_price = $1 WHERE product_id = $2;`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer stmt.Close()

	for productID, price := range overlays {
		if _, err := stmt.ExecContext(ctx, price, productID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (r DiscountsRepository) ClearOverlayPrices(
	ctx context.Context, productIDs []string,
) (resErr error) {
	const op = "DiscountsRepository.ClearOverlayPrices"
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

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE products SET discount_price = NULL WHERE product_id = $1;`)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer stmt.Close()

	for _, productID := range productIDs {
		if _, err := stmt.ExecContext(ctx, productID); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (r DiscountsRepository) scopeIDs(
	ctx context.Context, query, discountID string,
) ([]string, error) {
	rows, err := r.sqldb.QueryContext(ctx, query, discountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertScope(ctx context.Context, tx *sql.Tx, d domain.Discount) error {
	if len(d.ProductIDs) != 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO discount_products (discount_id, product_id)
			VALUES ($1, $2);`)
		if err != nil {
			return fmt.Errorf("failed to prepare stmt: %w", err)
		}
		defer stmt.Close()

		for _, productID := range d.ProductIDs {
			if _, err := stmt.ExecContext(ctx, d.DiscountID, productID); err != nil {
				return fmt.Errorf("failed to attach product: %w", err)
			}
		}
	}

	if len(d.CollectionIDs) != 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO discount_collections (discount_id, collection_id)
			VALUES ($1, $2);`)
		if err != nil {
			return fmt.Errorf("failed to prepare stmt: %w", err)
		}
		defer stmt.Close()

		for _, collectionID := range d.CollectionIDs {
			if _, err := stmt.ExecContext(ctx, d.DiscountID, collectionID); err != nil {
				return fmt.Errorf("failed to attach collection: %w", err)
			}
		}
	}
	return nil
}

// codeErr maps a unique-violation on the discount code to the domain
// conflict error.
func codeErr(err error, code string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateCode, code)
	}
	return err
}
