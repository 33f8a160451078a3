package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/rscollections/storefront/clients"
	"github.com/rscollections/storefront/models"
	"github.com/rscollections/storefront/pkg/apperrors"
)

// CatalogService fetches the upstream catalog and runs the local
// filter/sort/pagination pipeline over it. One pipeline serves every
// category view; pages differ only in the upstream scope they pass in.
type CatalogService struct {
	api CatalogAPI
}

func NewCatalogService(api CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

// ShopQuery scopes a listing: the upstream category/subCategory narrow what
// is fetched, the filter narrows what is shown. Adjusted names the price
// bound the client last moved so a crossed range resolves toward it.
type ShopQuery struct {
	Category    string
	SubCategory string
	Filter      Filter
	Adjusted    string
	Page        int
}

// ShopPage is one page of a filtered listing plus the metadata the filter
// panel needs.
type ShopPage struct {
	Products      []models.Product `json:"products"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
	TotalFiltered int              `json:"totalFiltered"`
	TotalPages    int              `json:"totalPages"`
	TotalFetched  int              `json:"totalFetched"`
	PriceMin      float64          `json:"priceMin"`
	PriceMax      float64          `json:"priceMax"`
}

func (s *CatalogService) ListProducts(ctx context.Context, q ShopQuery) (*ShopPage, error) {
	docs, err := s.api.GetProducts(ctx, clients.ProductQuery{
		Category:    q.Category,
		SubCategory: q.SubCategory,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUpstream, err)
	}

	products := models.NormalizeAll(docs)
	lower, upper := PriceBounds(products)
	filter := ClampPriceRange(q.Filter, lower, upper, q.Adjusted)
	filtered := ApplyFilter(products, filter)
	page := Paginate(filtered, q.Page, PageSize)

	current := q.Page
	if current < 1 {
		current = 1
	}

	return &ShopPage{
		Products:      page,
		Page:          current,
		PageSize:      PageSize,
		TotalFiltered: len(filtered),
		TotalPages:    TotalPages(len(filtered), PageSize),
		TotalFetched:  len(products),
		PriceMin:      lower,
		PriceMax:      upper,
	}, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (models.Product, error) {
	doc, err := s.api.GetProduct(ctx, id)
	if err != nil {
		var ue *clients.UpstreamError
		if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
			return models.Product{}, apperrors.Wrap(apperrors.ErrNotFound, err)
		}
		return models.Product{}, apperrors.Wrap(apperrors.ErrUpstream, err)
	}
	return doc.Normalize(), nil
}

// HomePage bundles the landing-page sections.
type HomePage struct {
	NewArrivals       []models.Product            `json:"newArrivals"`
	PopularByCategory map[string][]models.Product `json:"popularByCategory"`
}

// Home fetches new arrivals and the weekly-popular sets concurrently. A
// failed section degrades to empty instead of failing the whole page.
func (s *CatalogService) Home(ctx context.Context) *HomePage {
	type arrivalsResult struct {
		docs []models.UpstreamProduct
		err  error
	}
	type popularResult struct {
		docs map[string][]models.UpstreamProduct
		err  error
	}

	arrivalsCh := make(chan arrivalsResult, 1)
	popularCh := make(chan popularResult, 1)

	go func() {
		docs, err := s.api.GetProducts(ctx, clients.ProductQuery{Page: 1, Limit: 15})
		arrivalsCh <- arrivalsResult{docs: docs, err: err}
	}()
	go func() {
		docs, err := s.api.GetPopularWeeklyByCategory(ctx, 10)
		popularCh <- popularResult{docs: docs, err: err}
	}()

	arrivals := <-arrivalsCh
	popular := <-popularCh

	page := &HomePage{
		NewArrivals:       []models.Product{},
		PopularByCategory: map[string][]models.Product{},
	}
	if arrivals.err != nil {
		zap.L().Warn("home: new arrivals fetch failed", zap.Error(arrivals.err))
	} else {
		page.NewArrivals = models.NormalizeAll(arrivals.docs)
	}
	if popular.err != nil {
		zap.L().Warn("home: popular-by-category fetch failed", zap.Error(popular.err))
	} else {
		for category, docs := range popular.docs {
			page.PopularByCategory[category] = models.NormalizeAll(docs)
		}
	}
	return page
}
