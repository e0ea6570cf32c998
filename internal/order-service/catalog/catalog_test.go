package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcmexdev/storefront/internal/order-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v float64) *float64 { return &v }

func TestLoad_Default(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	products := c.Products()
	require.NotEmpty(t, products)

	var priceless int
	for _, p := range products {
		if p.Price == nil {
			priceless++
		}
	}
	assert.Equal(t, 1, priceless, "the seed carries one priceless product")

	p, err := c.Product(products[0].ID)
	require.NoError(t, err)
	assert.Equal(t, products[0].Title, p.Title)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- id: a
  title: A
  price: 100
- id: b
  title: B
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Products(), 2)

	a, err := c.Product("a")
	require.NoError(t, err)
	assert.Equal(t, 100.0, *a.Price)

	b, err := c.Product("b")
	require.NoError(t, err)
	assert.Nil(t, b.Price)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New([]domain.Product{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate product id a")

	_, err = New([]domain.Product{{Title: "nameless"}})
	assert.ErrorContains(t, err, "has no id")

	_, err = New([]domain.Product{{ID: "a", Price: price(-1)}})
	assert.ErrorContains(t, err, "negative price")
}

func TestProduct_NotFound(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	_, err = c.Product("missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProducts_ReturnsCopy(t *testing.T) {
	c, err := New([]domain.Product{{ID: "a", Title: "A"}})
	require.NoError(t, err)

	got := c.Products()
	got[0].Title = "changed"
	assert.Equal(t, "A", c.Products()[0].Title)
}
