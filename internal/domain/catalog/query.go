package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// ProductSort is the storefront ordering of a product list.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNameAsc   ProductSort = "name_asc"
)

// ParseProductSort maps a query value onto a sort; empty means newest.
func ParseProductSort(s string) (ProductSort, error) {
	switch ProductSort(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return ProductSort(s), nil
	}
	return "", shared.NewDomainError("INVALID_SORT", fmt.Sprintf("Unsupported sort %q", s))
}

// priceRangeUnit is the unit of price range keys: one million dong.
var priceRangeUnit = decimal.NewFromInt(1_000_000)

// PriceRange is a half-open price interval [Min, Max). A nil Max is open-ended.
type PriceRange struct {
	Min decimal.Decimal
	Max *decimal.Decimal
}

// ParsePriceRange parses range keys expressed in millions of dong:
// "10-20" selects [10M, 20M) and "50+" selects 50M and above.
func ParsePriceRange(key string) (*PriceRange, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	invalid := shared.NewDomainError("INVALID_PRICE_RANGE", fmt.Sprintf("Invalid price range %q", key))

	if low, ok := strings.CutSuffix(key, "+"); ok {
		minM, err := strconv.ParseInt(low, 10, 64)
		if err != nil || minM < 0 {
			return nil, invalid
		}
		return &PriceRange{Min: decimal.NewFromInt(minM).Mul(priceRangeUnit)}, nil
	}

	low, high, ok := strings.Cut(key, "-")
	if !ok {
		return nil, invalid
	}
	minM, err := strconv.ParseInt(low, 10, 64)
	if err != nil || minM < 0 {
		return nil, invalid
	}
	maxM, err := strconv.ParseInt(high, 10, 64)
	if err != nil || maxM <= minM {
		return nil, invalid
	}
	maxPrice := decimal.NewFromInt(maxM).Mul(priceRangeUnit)
	return &PriceRange{Min: decimal.NewFromInt(minM).Mul(priceRangeUnit), Max: &maxPrice}, nil
}

// Contains reports whether price falls inside the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return r.Max == nil || price.LessThan(*r.Max)
}

// ProductQuery describes a storefront product listing.
type ProductQuery struct {
	CategoryID *uuid.UUID
	PriceRange *PriceRange
	OnlyNew    bool
	OnlySale   bool
	Featured   bool
	Search     string
	Sort       ProductSort
}

// Apply filters and sorts products. categories is the full category list,
// used to widen a category filter to its child categories.
func (q ProductQuery) Apply(products []Product, categories []Category) []Product {
	var categoryIDs map[uuid.UUID]struct{}
	if q.CategoryID != nil {
		categoryIDs = CategoryWithDescendants(*q.CategoryID, categories)
	}
	needle := valueobject.Slugify(q.Search)

	out := make([]Product, 0, len(products))
	for i := range products {
		p := &products[i]
		if categoryIDs != nil && !p.InCategory(categoryIDs) {
			continue
		}
		if q.PriceRange != nil && !q.PriceRange.Contains(p.Price) {
			continue
		}
		if q.OnlyNew && !p.IsNew {
			continue
		}
		if q.OnlySale && !p.IsSale {
			continue
		}
		if q.Featured && !p.IsFeatured {
			continue
		}
		if needle != "" && !strings.Contains(valueobject.Slugify(p.Name), needle) {
			continue
		}
		out = append(out, *p)
	}

	SortProducts(out, q.Sort)
	return out
}

// SortProducts orders products in place; ties keep their input order.
func SortProducts(products []Product, by ProductSort) {
	var less func(a, b *Product) bool
	switch by {
	case SortPriceAsc:
		less = func(a, b *Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b *Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortNameAsc:
		less = func(a, b *Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b *Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(products, func(i, j int) bool { return less(&products[i], &products[j]) })
}

// OrderByIDs arranges products in the order of ids. Ids without a matching
// product are skipped.
func OrderByIDs(products []Product, ids []uuid.UUID) []Product {
	byID := make(map[uuid.UUID]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
