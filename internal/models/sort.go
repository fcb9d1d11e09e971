package models

// SortOption is a value of the inventory sort dropdown
type SortOption string

// Sort options offered by the storefront
const (
	SortNameAsc   SortOption = "az"
	SortNameDesc  SortOption = "za"
	SortPriceAsc  SortOption = "lohi"
	SortPriceDesc SortOption = "hilo"
)

// SortOptions lists the options in dropdown order.
func SortOptions() []SortOption {
	return []SortOption{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}
}

// Label returns the text the dropdown shows for the option.
func (o SortOption) Label() string {
	switch o {
	case SortNameAsc:
		return "Name (A to Z)"
	case SortNameDesc:
		return "Name (Z to A)"
	case SortPriceAsc:
		return "Price (low to high)"
	case SortPriceDesc:
		return "Price (high to low)"
	default:
		return string(o)
	}
}
