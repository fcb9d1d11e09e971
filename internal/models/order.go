package models

// TaxRatePercent is the storefront's flat sales tax
const TaxRatePercent = 8

// CartLine is one row of a cart snapshot
type CartLine struct {
	Name     string
	Price    Money
	Quantity int
}

// CheckoutInfo is the step one form
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// OrderSummary holds the step two totals
type OrderSummary struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// TaxFor returns the tax on a subtotal, rounded half up to the cent.
func TaxFor(subtotal Money) Money {
	return Money((int64(subtotal)*TaxRatePercent + 50) / 100)
}

// NewOrderSummary computes the totals the storefront displays for a cart.
func NewOrderSummary(lines []CartLine) OrderSummary {
	var subtotal Money
	for _, l := range lines {
		subtotal += l.Price * Money(l.Quantity)
	}
	tax := TaxFor(subtotal)
	return OrderSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// SubtotalLabel returns the subtotal as displayed on the overview screen.
func (s OrderSummary) SubtotalLabel() string { return s.Subtotal.Label(SubtotalPrefix) }

// TaxLabel returns the tax as displayed on the overview screen.
func (s OrderSummary) TaxLabel() string { return s.Tax.Label(TaxPrefix) }

// TotalLabel returns the total as displayed on the overview screen.
func (s OrderSummary) TotalLabel() string { return s.Total.Label(TotalPrefix) }
