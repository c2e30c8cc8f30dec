package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(NewRepository(client), nil), mr
}

func TestCreateAppliesDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC) }

	product, err := svc.Create(context.Background(), CreateInput{
		Name:     "RDLR501",
		Category: "Rings",
	})
	require.NoError(t, err)
	require.NotEmpty(t, product.ID)
	require.Equal(t, "YES", product.CAD)
	require.Equal(t, "D", product.Quality)
	require.Equal(t, "18K", product.GoldPurity)
	require.Equal(t, "430", product.GoldRate24k)
	require.Equal(t, "450", product.DiaRate)
	require.Equal(t, "15/08/26", product.Date)
}

func TestCreateKeepsSubmittedValues(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), CreateInput{
		Name:        "RER22",
		Category:    "Earrings",
		GoldPurity:  "14K",
		GoldRate24k: "500",
		Date:        "01.02.2026",
		GrossWt:     "9.74g",
	})
	require.NoError(t, err)
	require.Equal(t, "14K", product.GoldPurity)
	require.Equal(t, "500", product.GoldRate24k)
	require.Equal(t, "01.02.2026", product.Date)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{Category: "Rings"})
	require.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Create(context.Background(), CreateInput{Name: "R1", Category: "Crowns"})
	require.ErrorIs(t, err, ErrInvalidCategory)
}

func TestListNewestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(context.Background(), CreateInput{Name: "R1", Category: "Rings"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateInput{Name: "R2", Category: "Pendant"})
	require.NoError(t, err)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, second.ID, products[0].ID)
	require.Equal(t, first.ID, products[1].ID)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)

	product, err := svc.Create(context.Background(), CreateInput{Name: "R1", Category: "Rings"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), product.ID))

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, products)

	require.ErrorIs(t, svc.Delete(context.Background(), product.ID), ErrNotFound)
}

func TestListSkipsEvictedProducts(t *testing.T) {
	svc, mr := newTestService(t)

	product, err := svc.Create(context.Background(), CreateInput{Name: "R1", Category: "Rings"})
	require.NoError(t, err)
	mr.Del(productKeyPrefix + product.ID)

	products, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, products)
}
