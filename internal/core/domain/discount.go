package domain

import "time"

type DiscountKind string

const (
	DiscountFixed      DiscountKind = "FIXED"
	DiscountPercentage DiscountKind = "PERCENTAGE"
)

func (k DiscountKind) Valid() bool {
	return k == DiscountFixed || k == DiscountPercentage
}

type Discount struct {
	DiscountID    string
	Kind          DiscountKind
	Value         float64
	Code          string
	StartsAt      time.Time
	EndsAt        time.Time
	Active        bool
	ProductIDs    []string
	CollectionIDs []string
}

// IsCampaign reports whether the discount auto-applies to catalog
// prices. Coupons carry a redemption code and never do.
func (d Discount) IsCampaign() bool {
	return d.Code == ""
}

// OverlayPrice computes the discounted overlay for a base price.
// FIXED subtracts the value, floored at zero; PERCENTAGE scales the
// base with no additional floor.
func (d Discount) OverlayPrice(base float64) float64 {
	if d.Kind == DiscountFixed {
		if p := base - d.Value; p > 0 {
			return p
		}
		return 0
	}
	return base * (1 - d.Value/100)
}
