package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rscollections/storefront/models"
)

// RedisSessionStore keeps session state in Redis under sess:{sid}:* keys.
// Every write refreshes the TTL, so state lives as long as the session stays
// active.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (r *RedisSessionStore) key(sid, kind string) string {
	return fmt.Sprintf("sess:%s:%s", sid, kind)
}

func (r *RedisSessionStore) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisSessionStore) setJSON(ctx context.Context, key string, val interface{}) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

func (r *RedisSessionStore) GetCart(ctx context.Context, sid string) (*models.Cart, error) {
	var cart models.Cart
	ok, err := r.getJSON(ctx, r.key(sid, "cart"), &cart)
	if err != nil || !ok {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisSessionStore) SaveCart(ctx context.Context, sid string, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	return r.setJSON(ctx, r.key(sid, "cart"), cart)
}

func (r *RedisSessionStore) DeleteCart(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "cart")).Err()
}

func (r *RedisSessionStore) GetWishlist(ctx context.Context, sid string) (*models.Wishlist, error) {
	var wl models.Wishlist
	ok, err := r.getJSON(ctx, r.key(sid, "wishlist"), &wl)
	if err != nil || !ok {
		return nil, err
	}
	return &wl, nil
}

func (r *RedisSessionStore) SaveWishlist(ctx context.Context, sid string, wl *models.Wishlist) error {
	wl.UpdatedAt = time.Now()
	return r.setJSON(ctx, r.key(sid, "wishlist"), wl)
}

func (r *RedisSessionStore) DeleteWishlist(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "wishlist")).Err()
}

func (r *RedisSessionStore) GetPending(ctx context.Context, sid string) (*models.PendingItem, error) {
	var item models.PendingItem
	ok, err := r.getJSON(ctx, r.key(sid, "pending"), &item)
	if err != nil || !ok {
		return nil, err
	}
	return &item, nil
}

func (r *RedisSessionStore) SetPending(ctx context.Context, sid string, item *models.PendingItem) error {
	return r.setJSON(ctx, r.key(sid, "pending"), item)
}

func (r *RedisSessionStore) ClearPending(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "pending")).Err()
}

func (r *RedisSessionStore) GetLoginState(ctx context.Context, sid string) (*models.LoginState, error) {
	var state models.LoginState
	ok, err := r.getJSON(ctx, r.key(sid, "login"), &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (r *RedisSessionStore) SaveLoginState(ctx context.Context, sid string, state *models.LoginState) error {
	return r.setJSON(ctx, r.key(sid, "login"), state)
}

func (r *RedisSessionStore) ClearLoginState(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "login")).Err()
}

func (r *RedisSessionStore) GetRedirectPath(ctx context.Context, sid string) (string, error) {
	path, err := r.client.Get(ctx, r.key(sid, "redirect")).Result()
	if err == redis.Nil {
		return "", nil
	}
	return path, err
}

func (r *RedisSessionStore) SetRedirectPath(ctx context.Context, sid, path string) error {
	return r.client.Set(ctx, r.key(sid, "redirect"), path, r.ttl).Err()
}

func (r *RedisSessionStore) ClearRedirectPath(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "redirect")).Err()
}

func (r *RedisSessionStore) GetCheckout(ctx context.Context, sid string) (*models.CheckoutState, error) {
	var state models.CheckoutState
	ok, err := r.getJSON(ctx, r.key(sid, "checkout"), &state)
	if err != nil || !ok {
		return nil, err
	}
	return &state, nil
}

func (r *RedisSessionStore) SaveCheckout(ctx context.Context, sid string, state *models.CheckoutState) error {
	return r.setJSON(ctx, r.key(sid, "checkout"), state)
}

func (r *RedisSessionStore) ClearCheckout(ctx context.Context, sid string) error {
	return r.client.Del(ctx, r.key(sid, "checkout")).Err()
}

func (r *RedisSessionStore) ClearSession(ctx context.Context, sid string) error {
	keys := []string{
		r.key(sid, "cart"),
		r.key(sid, "wishlist"),
		r.key(sid, "pending"),
		r.key(sid, "login"),
		r.key(sid, "redirect"),
		r.key(sid, "checkout"),
	}
	return r.client.Del(ctx, keys...).Err()
}
