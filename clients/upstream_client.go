package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rscollections/storefront/models"
)

// UpstreamError is a non-2xx reply from the upstream API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: status=%d body=%s", e.Status, e.Body)
}

// IsValidation reports whether the upstream rejected the request as invalid
// input, as opposed to failing outright.
func (e *UpstreamError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}

// UpstreamClient talks to the remote product/order API. User identity rides
// on the X-User-Email header for profile-scoped calls.
type UpstreamClient struct {
	baseURL string
	client  *http.Client
}

func NewUpstreamClient(baseURL string, timeout time.Duration) *UpstreamClient {
	return &UpstreamClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Do issues a raw request against the upstream; admin proxy handlers use it
// together with CopyResponse.
func (u *UpstreamClient) Do(ctx context.Context, method, path string, query url.Values, headers http.Header, body io.Reader) (*http.Response, error) {
	target := u.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		for _, vv := range v {
			req.Header.Add(k, vv)
		}
	}
	return u.client.Do(req)
}

func (u *UpstreamClient) doJSON(ctx context.Context, method, path string, query url.Values, email string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	if email != "" {
		headers.Set("X-User-Email", email)
	}

	resp, err := u.Do(ctx, method, path, query, headers, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{Status: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ProductQuery scopes a catalog listing upstream; the filter pipeline runs
// locally on the returned page.
type ProductQuery struct {
	Category    string
	SubCategory string
	Page        int
	Limit       int
}

// GetProducts fetches a product listing. The upstream responds either with a
// bare array or with a {"products": [...]} wrapper; both are accepted.
func (u *UpstreamClient) GetProducts(ctx context.Context, q ProductQuery) ([]models.UpstreamProduct, error) {
	query := url.Values{}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.SubCategory != "" {
		query.Set("subCategory", q.SubCategory)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var raw json.RawMessage
	if err := u.doJSON(ctx, http.MethodGet, "/products", query, "", nil, &raw); err != nil {
		return nil, err
	}

	var wrapped struct {
		Products []models.UpstreamProduct `json:"products"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Products != nil {
		return wrapped.Products, nil
	}

	var list []models.UpstreamProduct
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return list, nil
}

func (u *UpstreamClient) GetProduct(ctx context.Context, id string) (models.UpstreamProduct, error) {
	var doc models.UpstreamProduct
	err := u.doJSON(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, "", nil, &doc)
	return doc, err
}

// GetPopularWeeklyByCategory returns the weekly-popular products keyed by
// category slug.
func (u *UpstreamClient) GetPopularWeeklyByCategory(ctx context.Context, limit int) (map[string][]models.UpstreamProduct, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	out := map[string][]models.UpstreamProduct{}
	err := u.doJSON(ctx, http.MethodGet, "/products/popular-weekly-by-category", query, "", nil, &out)
	return out, err
}

// OTPUser is the upstream's view of a verified user.
type OTPUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (u *UpstreamClient) RequestOTP(ctx context.Context, email string) error {
	return u.doJSON(ctx, http.MethodPost, "/auth/request-otp", nil, "", map[string]string{"email": email}, nil)
}

func (u *UpstreamClient) ResendOTP(ctx context.Context, email string) error {
	return u.doJSON(ctx, http.MethodPost, "/auth/resend-otp", nil, "", map[string]string{"email": email}, nil)
}

func (u *UpstreamClient) VerifyOTP(ctx context.Context, email, code string) (OTPUser, error) {
	var out struct {
		User OTPUser `json:"user"`
	}
	err := u.doJSON(ctx, http.MethodPost, "/auth/verify-otp", nil, "",
		map[string]string{"email": email, "code": code}, &out)
	if err != nil {
		return OTPUser{}, err
	}
	if out.User.Email == "" {
		out.User.Email = email
	}
	return out.User, nil
}

func (u *UpstreamClient) SaveAddress(ctx context.Context, email string, addr models.Address) error {
	return u.doJSON(ctx, http.MethodPut, "/profile/address", nil, email, addr, nil)
}

func (u *UpstreamClient) FetchCart(ctx context.Context, email string) (*models.Cart, error) {
	var cart models.Cart
	err := u.doJSON(ctx, http.MethodGet, "/profile/cart", nil, email, nil, &cart)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (u *UpstreamClient) SaveCart(ctx context.Context, email string, cart *models.Cart) error {
	return u.doJSON(ctx, http.MethodPut, "/profile/cart", nil, email, cart, nil)
}

func (u *UpstreamClient) FetchWishlist(ctx context.Context, email string) (*models.Wishlist, error) {
	var wl models.Wishlist
	err := u.doJSON(ctx, http.MethodGet, "/profile/wishlist", nil, email, nil, &wl)
	if err != nil {
		var ue *UpstreamError
		if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &wl, nil
}

func (u *UpstreamClient) SaveWishlist(ctx context.Context, email string, wl *models.Wishlist) error {
	return u.doJSON(ctx, http.MethodPut, "/profile/wishlist", nil, email, wl, nil)
}

// PlaceOrder submits the order and returns the created record. The upstream
// replies with a {"order": {...}} wrapper.
func (u *UpstreamClient) PlaceOrder(ctx context.Context, order models.Order) (models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	if err := u.doJSON(ctx, http.MethodPost, "/orders", nil, order.UserEmail, order, &out); err != nil {
		return models.Order{}, err
	}
	if out.Order.ID == "" {
		out.Order = order
	}
	return out.Order, nil
}

func (u *UpstreamClient) AdminLogin(ctx context.Context, email, password string) error {
	return u.doJSON(ctx, http.MethodPost, "/admin/login", nil, "",
		map[string]string{"email": email, "password": password}, nil)
}

// CopyResponse streams an upstream response back to the caller unchanged.
func CopyResponse(w http.ResponseWriter, resp *http.Response) error {
	defer resp.Body.Close()

	for k, v := range resp.Header {
		for _, vv := range v {
			w.Header().Add(k, vv)
		}
	}
	w.WriteHeader(resp.StatusCode)

	_, err := io.Copy(w, resp.Body)
	return err
}
