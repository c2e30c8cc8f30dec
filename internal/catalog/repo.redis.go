package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "catalog:product:"
	productIndexKey  = "catalog:products"
)

// Repository persists products in Redis: one JSON value per product plus a
// list index holding IDs newest first.
type Repository struct {
	client *redis.Client
}

// NewRepository constructs Repository.
func NewRepository(client *redis.Client) *Repository {
	return &Repository{client: client}
}

// Create stores the product and pushes it to the front of the index.
func (r *Repository) Create(ctx context.Context, product Product) error {
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("catalog: marshal product: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, productKeyPrefix+product.ID, raw, 0)
	pipe.LPush(ctx, productIndexKey, product.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("catalog: store product: %w", err)
	}
	return nil
}

// List returns all products, newest first. IDs left in the index whose value
// has expired or been removed out of band are skipped and pruned.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	ids, err := r.client.LRange(ctx, productIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("catalog: read index: %w", err)
	}
	products := []Product{}
	for _, id := range ids {
		raw, err := r.client.Get(ctx, productKeyPrefix+id).Bytes()
		if errors.Is(err, redis.Nil) {
			r.client.LRem(ctx, productIndexKey, 0, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("catalog: read product %s: %w", id, err)
		}
		var product Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("catalog: decode product %s: %w", id, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// Delete removes the product and its index entry.
func (r *Repository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, productKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("catalog: delete product: %w", err)
	}
	r.client.LRem(ctx, productIndexKey, 0, id)
	if removed == 0 {
		return ErrNotFound
	}
	return nil
}
