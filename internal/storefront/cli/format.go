package cli

import (
	"strconv"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
)

const pricelessLabel = "Priceless"

// FormatPrice renders a catalog price. Products without a price read "Priceless".
func FormatPrice(price *float64) string {
	if price == nil {
		return pricelessLabel
	}
	return FormatAmount(*price)
}

func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " synapses"
}

func productLine(i int, p entity.Product, inCart bool) string {
	mark := ""
	if inCart {
		mark = "  [in cart]"
	}
	return strconv.Itoa(i+1) + ". " + p.Title + " (" + p.Category + ") " + FormatPrice(p.Price) + mark
}
