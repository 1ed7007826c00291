package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mfranco-dev/tienda/internal/core/domain"
	"github.com/mfranco-dev/tienda/internal/core/port"
)

var _ port.DiscountManager = (*DiscountsService)(nil)

// DiscountsService manages discount lifecycle and the campaign price
// overlay. Overlays are last-writer-wins: overlapping campaigns
// overwrite each other and unapplying one clears the overlay outright.
type DiscountsService struct {
	discounts port.DiscountStorage
}

func NewDiscountsService(discounts port.DiscountStorage) DiscountsService {
	return DiscountsService{discounts}
}

func (s DiscountsService) CreateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	const op = "DiscountsService.CreateDiscount"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateDiscount(d); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	d.DiscountID = uuid.NewString()
	created, err := s.discounts.CreateDiscount(ctx, d)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("discount created",
		"discountID", created.DiscountID, "campaign", created.IsCampaign())

	if created.IsCampaign() && created.Active {
		if err := s.apply(ctx, created.DiscountID); err != nil {
			return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return created, nil
}

func (s DiscountsService) UpdateDiscount(
	ctx context.Context, d domain.Discount,
) (domain.Discount, error) {
	const op = "DiscountsService.UpdateDiscount"

	if err := ctx.Err(); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := validateDiscount(d); err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.discounts.UpdateDiscount(ctx, d)
	if err != nil {
		return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
	}

	if updated.IsCampaign() {
		if updated.Active {
			err = s.apply(ctx, updated.DiscountID)
		} else {
			err = s.unapply(ctx, updated.DiscountID)
		}
		if err != nil {
			return domain.Discount{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return updated, nil
}

func (s DiscountsService) DeleteDiscount(
	ctx context.Context, discountID string,
) error {
	const op = "DiscountsService.DeleteDiscount"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Clear overlays before the scope associations are gone.
	if err := s.unapply(ctx, discountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.discounts.DeleteDiscount(ctx, discountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// apply recomputes the overlay price from the live base price for
// every product in scope. Re-applying on update is therefore
// idempotent.
func (s DiscountsService) apply(ctx context.Context, discountID string) error {
	const op = "DiscountsService.apply"
	log := slog.With("op", op)

	d, err := s.discounts.DiscountByID(ctx, discountID)
	if err != nil {
		return err
	}

	products, err := s.discounts.ScopeProducts(ctx, discountID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	overlays := make(map[string]float64, len(products))
	for _, p := range products {
		overlays[p.ProductID] = d.OverlayPrice(p.Price)
	}

	if err := s.discounts.SetOverlayPrices(ctx, overlays); err != nil {
		return err
	}

	log.Info("campaign applied",
		"discountID", discountID, "nProducts", len(overlays))
	return nil
}

// unapply clears the overlay to "no overlay" for every product in
// scope, not to any prior value.
func (s DiscountsService) unapply(ctx context.Context, discountID string) error {
	const op = "DiscountsService.unapply"
	log := slog.With("op", op)

	products, err := s.discounts.ScopeProducts(ctx, discountID)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ProductID)
	}

	if err := s.discounts.ClearOverlayPrices(ctx, ids); err != nil {
		return err
	}

	log.Info("campaign unapplied",
		"discountID", discountID, "nProducts", len(ids))
	return nil
}

func validateDiscount(d domain.Discount) error {
	if !d.Kind.Valid() {
		return fmt.Errorf(
			"%w: unknown kind %q", domain.ErrInvalidDiscount, d.Kind,
		)
	}
	if d.Value < 0 {
		return fmt.Errorf(
			"%w: value must not be negative", domain.ErrInvalidDiscount,
		)
	}
	if !d.EndsAt.IsZero() && d.EndsAt.Before(d.StartsAt) {
		return fmt.Errorf(
			"%w: end date precedes start date", domain.ErrInvalidDiscount,
		)
	}
	return nil
}
