package service

import (
	"fmt"
	"math"

	"gallery/internal/entity"

	"github.com/shopspring/decimal"
)

type orderAccumulator struct {
	order *entity.DetailedOrder
	total decimal.Decimal
}

// AggregateOrders folds joined order rows into one DetailedOrder per order,
// in the order each id first appears. A row without a line item contributes
// only its order and customer. Totals are summed in row order.
func AggregateOrders(rows []entity.DetailedOrderRow) ([]*entity.DetailedOrder, error) {
	const op = "service.AggregateOrders"

	byID := make(map[string]*orderAccumulator)
	accumulators := make([]*orderAccumulator, 0)

	for i := range rows {
		row := &rows[i]

		acc, ok := byID[row.OrderID]
		if !ok {
			acc = &orderAccumulator{
				order: &entity.DetailedOrder{
					OrderID:   row.OrderID,
					OrderDate: row.OrderDate,
					Customer:  row.Customer,
					Artworks:  make([]entity.DetailedOrderLine, 0),
				},
				total: decimal.Zero,
			}
			byID[row.OrderID] = acc
			accumulators = append(accumulators, acc)
		}

		if !row.Line.Valid {
			continue
		}

		artwork := row.Line.Artwork
		if artwork == nil {
			return nil, fmt.Errorf("%s: order %s line %s references missing artwork %s: %w",
				op, row.OrderID, row.Line.ID, row.Line.ArtworkID, entity.ErrDataIntegrity)
		}

		subtotal := decimal.NewFromInt(int64(row.Line.Amount)).
			Mul(decimal.NewFromFloat(artwork.Price))
		subtotalValue := subtotal.InexactFloat64()
		if math.IsInf(subtotalValue, 0) {
			return nil, fmt.Errorf("%s: order %s line %s subtotal overflows float64: %w",
				op, row.OrderID, row.Line.ID, entity.ErrDataIntegrity)
		}
		acc.total = acc.total.Add(subtotal)

		acc.order.Artworks = append(acc.order.Artworks, entity.DetailedOrderLine{
			ID:                 row.Line.ID,
			ArtworkID:          row.Line.ArtworkID,
			Amount:             row.Line.Amount,
			ArtworkTitle:       artwork.Title,
			ArtworkDescription: artwork.Description,
			ArtworkYearCreated: artwork.YearCreated,
			ArtworkPrice:       artwork.Price,
			ArtworkArtistID:    artwork.ArtistID,
			ArtworkArtType:     artwork.ArtType,
			Subtotal:           subtotalValue,
		})
	}

	orders := make([]*entity.DetailedOrder, 0, len(accumulators))
	for _, acc := range accumulators {
		acc.order.TotalAmount = acc.total.InexactFloat64()
		if math.IsInf(acc.order.TotalAmount, 0) {
			return nil, fmt.Errorf("%s: order %s total overflows float64: %w",
				op, acc.order.OrderID, entity.ErrDataIntegrity)
		}
		orders = append(orders, acc.order)
	}
	return orders, nil
}
