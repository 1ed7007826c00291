package domain

type (
	Product struct {
		ProductID     string
		Name          string
		Category      string
		Price         float64
		DiscountPrice *float64
		Stock         int
		Variants      []Variant
	}

	Variant struct {
		VariantID string
		ProductID string
		Name      string
		SKU       string
		Price     *float64
		Stock     int
	}

	Collection struct {
		CollectionID string
		Name         string
	}
)

// UnitPrice selects the catalog price an order line is charged at:
// the variant override when the line targets a variant that has one,
// otherwise the product base price. The discount overlay is display-only
// and is never consulted here.
func UnitPrice(p Product, v *Variant) float64 {
	if v != nil && v.Price != nil {
		return *v.Price
	}
	return p.Price
}

// StockLine addresses a single stock counter: the variant's when
// VariantID is set, the product's otherwise.
type StockLine struct {
	ProductID string
	VariantID string
	Quantity  int
}
