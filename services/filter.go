package services

import (
	"math"
	"sort"
	"strconv"

	"github.com/rscollections/storefront/models"
)

// Catalog listing constants. The hard price cap bounds every derived range;
// listings page at a fixed size.
const (
	MaxPriceCap = 200000
	PageSize    = 20
)

// Sort keys accepted by the listing pipeline.
const (
	SortByName      = "name"
	SortByNameDesc  = "name-desc"
	SortByPriceAsc  = "price-asc"
	SortByPriceDesc = "price-desc"
	SortByNewest    = "newest"
)

// Filter is the ephemeral, request-scoped selection applied to a product
// list. Bounds are inclusive.
type Filter struct {
	PriceMin float64
	PriceMax float64
	Category string
	InStock  bool
	SortBy   string
}

// DefaultFilter covers the full price cap, all categories, name sort.
func DefaultFilter() Filter {
	return Filter{
		PriceMin: 0,
		PriceMax: MaxPriceCap,
		Category: "all",
		SortBy:   SortByName,
	}
}

// PriceBounds derives the slider bounds for a product list: floor of the
// cheapest price clamped at zero, ceiling of the priciest clamped at the
// hard cap, upper never below lower. An empty list falls back to the full
// range.
func PriceBounds(products []models.Product) (float64, float64) {
	var min, max float64
	found := false
	for _, p := range products {
		price := p.Price
		if math.IsNaN(price) {
			continue
		}
		if !found {
			min, max = price, price
			found = true
			continue
		}
		if price < min {
			min = price
		}
		if price > max {
			max = price
		}
	}
	if !found {
		return 0, MaxPriceCap
	}

	lower := math.Max(0, math.Floor(min))
	upper := math.Min(MaxPriceCap, math.Ceil(max))
	if upper < lower {
		upper = lower
	}
	return lower, upper
}

// Which price bound the caller last touched. A crossed range resolves toward
// the adjusted bound.
const (
	AdjustMin = "min"
	AdjustMax = "max"
)

// ClampPriceRange forces the filter's price range inside [lower, upper] and
// keeps min <= max: raising min above max drags max up with it, lowering max
// below min drags min down, depending on which bound was adjusted. NaN input
// snaps to the corresponding bound.
func ClampPriceRange(f Filter, lower, upper float64, adjusted string) Filter {
	clamp := func(v, fallback float64) float64 {
		if math.IsNaN(v) {
			return fallback
		}
		return math.Min(math.Max(v, lower), upper)
	}
	f.PriceMin = clamp(f.PriceMin, lower)
	f.PriceMax = clamp(f.PriceMax, upper)
	if f.PriceMin > f.PriceMax {
		if adjusted == AdjustMax {
			f.PriceMin = f.PriceMax
		} else {
			f.PriceMax = f.PriceMin
		}
	}
	return f
}

// ApplyFilter returns the products matching the filter, sorted by its sort
// key. The input slice is not modified; the sort is stable.
func ApplyFilter(products []models.Product, f Filter) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if math.IsNaN(p.Price) || p.Price < f.PriceMin || p.Price > f.PriceMax {
			continue
		}
		if f.Category != "" && f.Category != "all" && p.Category != f.Category {
			continue
		}
		if f.InStock && !p.InStock {
			continue
		}
		filtered = append(filtered, p)
	}

	switch f.SortBy {
	case SortByName:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Name < filtered[j].Name
		})
	case SortByNameDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Name > filtered[j].Name
		})
	case SortByPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priceOrZero(filtered[i]) < priceOrZero(filtered[j])
		})
	case SortByPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return priceOrZero(filtered[i]) > priceOrZero(filtered[j])
		})
	case SortByNewest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return createdTime(filtered[i]) > createdTime(filtered[j])
		})
	}
	return filtered
}

// Paginate slices a fixed-size page out of the list. Page numbers start at
// 1; anything below is treated as 1, and pages past the end are empty.
func Paginate(products []models.Product, page, size int) []models.Product {
	if size <= 0 {
		size = PageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * size
	if start >= len(products) {
		return []models.Product{}
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// TotalPages for a list under the given page size.
func TotalPages(total, size int) int {
	if size <= 0 {
		size = PageSize
	}
	return (total + size - 1) / size
}

func priceOrZero(p models.Product) float64 {
	if math.IsNaN(p.Price) {
		return 0
	}
	return p.Price
}

// createdTime resolves the ordering timestamp for the newest sort: the
// explicit creation time when present, else the seconds-since-epoch field
// embedded in the first 8 hex characters of a 24-character identifier.
// Documented fallback heuristic only; other identifier formats order as 0.
func createdTime(p models.Product) int64 {
	if !p.CreatedAt.IsZero() {
		return p.CreatedAt.UnixMilli()
	}
	if len(p.ID) == 24 {
		if seconds, err := strconv.ParseInt(p.ID[:8], 16, 64); err == nil {
			return seconds * 1000
		}
	}
	return 0
}
