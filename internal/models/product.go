package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Product is one item of the storefront catalog
type Product struct {
	ID          int
	Name        string
	Description string
	Price       Money
}

// ErrUnknownProduct is returned when a catalog lookup misses
var ErrUnknownProduct = errors.New("unknown product")

// Catalog product names
const (
	BikeLight      = "Sauce Labs Bike Light"
	BoltTShirt     = "Sauce Labs Bolt T-Shirt"
	Onesie         = "Sauce Labs Onesie"
	RedTShirt      = "Test.allTheThings() T-Shirt (Red)"
	Backpack       = "Sauce Labs Backpack"
	FleeceJacket   = "Sauce Labs Fleece Jacket"
	CartContentKey = "cart-contents"
)

// catalog mirrors the storefront inventory. IDs are the values the storefront
// keeps in local storage under CartContentKey.
var catalog = []Product{
	{ID: 0, Name: BikeLight, Price: 999, Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night."},
	{ID: 1, Name: BoltTShirt, Price: 1599, Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt."},
	{ID: 2, Name: Onesie, Price: 799, Description: "Rib snap infant onesie for the junior automation engineer in development."},
	{ID: 3, Name: RedTShirt, Price: 1599, Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests."},
	{ID: 4, Name: Backpack, Price: 2999, Description: "carry.allTheThings() with the sleek, streamlined Sly Pack."},
	{ID: 5, Name: FleeceJacket, Price: 4999, Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything."},
}

// Catalog returns a copy of the storefront catalog ordered by ID.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// ProductByID looks a product up by its storefront ID.
func ProductByID(id int) (Product, error) {
	for _, p := range catalog {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: id %d", ErrUnknownProduct, id)
}

// ProductByName looks a product up by display name, ignoring case.
func ProductByName(name string) (Product, error) {
	for _, p := range catalog {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
}

// SortProducts returns a sorted copy of products. Ties keep catalog order.
func SortProducts(products []Product, option SortOption) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	var less func(a, b Product) bool
	switch option {
	case SortNameDesc:
		less = func(a, b Product) bool { return a.Name > b.Name }
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.Price > b.Price }
	default:
		less = func(a, b Product) bool { return a.Name < b.Name }
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
