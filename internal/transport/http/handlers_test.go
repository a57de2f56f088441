package httpt_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gallery/internal/entity"
	"gallery/internal/service"
	mock_service "gallery/internal/service/mock"
	httpt "gallery/internal/transport/http"
	"gallery/pkg/logger"
	"gallery/pkg/metric"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type repos struct {
	artists   *mock_service.MockArtistRepository
	customers *mock_service.MockCustomerRepository
	artworks  *mock_service.MockArtworkRepository
	orders    *mock_service.MockOrderRepository
	lines     *mock_service.MockArtworkInOrderRepository
}

func newTestHandler(t *testing.T, opts ...httpt.Option) (*httpt.Handler, repos) {
	t.Helper()

	ctrl := gomock.NewController(t)
	r := repos{
		artists:   mock_service.NewMockArtistRepository(ctrl),
		customers: mock_service.NewMockCustomerRepository(ctrl),
		artworks:  mock_service.NewMockArtworkRepository(ctrl),
		orders:    mock_service.NewMockOrderRepository(ctrl),
		lines:     mock_service.NewMockArtworkInOrderRepository(ctrl),
	}

	log := logger.NewNop()
	h := httpt.NewHandler(
		httpt.Services{
			Artists:         service.NewArtistService(r.artists, log),
			Customers:       service.NewCustomerService(r.customers, log),
			Artworks:        service.NewArtworkService(r.artworks, r.lines, nil, log),
			Orders:          service.NewOrderService(r.orders, r.lines, nil, log),
			ArtworksInOrder: service.NewArtworkInOrderService(r.lines, log),
		},
		log,
		metric.NewFactory().HTTP(),
		opts...,
	)
	return h, r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	rec := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_DetailedOrderScenario(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)

	r.customers.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
			return c, nil
		}).Times(1)

	rec := do(t, h, http.MethodPost, "/customers", `{
		"customer_id": "client-chosen",
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@example.com",
		"phone": "555-0100",
		"address": "London"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	customer := decode[entity.Customer](t, rec)
	require.NotEmpty(t, customer.ID)
	assert.NotEqual(t, "client-chosen", customer.ID)

	r.orders.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, o *entity.Order) (*entity.Order, error) {
			return o, nil
		}).Times(1)

	rec = do(t, h, http.MethodPost, "/orders",
		`{"id_customer": "`+customer.ID+`", "order_date": "2025-03-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[entity.Order](t, rec)
	require.NotEmpty(t, order.ID)
	assert.Equal(t, "2025-03-01", order.OrderDate.String())

	r.orders.EXPECT().ListDetailedRows(gomock.Any()).Return([]entity.DetailedOrderRow{
		{OrderID: order.ID, OrderDate: order.OrderDate, Customer: customer},
	}, nil).Times(1)

	rec = do(t, h, http.MethodGet, "/orders/detailed", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var detailed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detailed))
	require.Len(t, detailed, 1)

	got := detailed[0]
	assert.Equal(t, order.ID, got["id_order"])
	assert.Equal(t, "2025-03-01", got["order_date"])
	assert.Equal(t, []any{}, got["artworks"])
	assert.InDelta(t, 0.0, got["total_amount"], 0)

	nested, ok := got["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", nested["first_name"])
	assert.Equal(t, "Lovelace", nested["last_name"])
	assert.Equal(t, customer.ID, nested["customer_id"])
}

func TestHandler_DetailedOrderTotals(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)

	row := func(lineID string, amount int, price float64) entity.DetailedOrderRow {
		return entity.DetailedOrderRow{
			OrderID:   "o1",
			OrderDate: entity.NewDate(2025, time.February, 2),
			Customer:  entity.Customer{ID: "c1", FirstName: "Ada", LastName: "Lovelace"},
			Line: entity.JoinedLine{
				Valid:     true,
				ID:        lineID,
				ArtworkID: "a-" + lineID,
				Amount:    amount,
				Artwork:   &entity.JoinedArtwork{Title: "t", Price: price},
			},
		}
	}
	r.orders.EXPECT().ListDetailedRows(gomock.Any()).
		Return([]entity.DetailedOrderRow{row("l1", 2, 10), row("l2", 3, 5)}, nil).Times(1)

	rec := do(t, h, http.MethodGet, "/orders/detailed", "")
	require.Equal(t, http.StatusOK, rec.Code)

	orders := decode[[]entity.DetailedOrder](t, rec)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Artworks, 2)
	assert.InDelta(t, 20.0, orders[0].Artworks[0].Subtotal, 0)
	assert.InDelta(t, 15.0, orders[0].Artworks[1].Subtotal, 0)
	assert.InDelta(t, 35.0, orders[0].TotalAmount, 0)
}

func TestHandler_ErrorMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc   string
		method string
		path   string
		body   string
		mocks  func(r repos)
		status int
	}{
		{
			desc:   "GetMissingArtist",
			method: http.MethodGet,
			path:   "/artists/nope",
			mocks: func(r repos) {
				r.artists.EXPECT().GetByID(gomock.Any(), "nope").
					Return(nil, entity.ErrDataNotFound).Times(1)
			},
			status: http.StatusNotFound,
		},
		{
			desc:   "UpdateMissingCustomer",
			method: http.MethodPut,
			path:   "/customers/nope",
			body:   `{"first_name": "x"}`,
			mocks: func(r repos) {
				r.customers.EXPECT().Exists(gomock.Any(), "nope").Return(false, nil).Times(1)
			},
			status: http.StatusNotFound,
		},
		{
			desc:   "DeleteMissingLine",
			method: http.MethodDelete,
			path:   "/artworks_in_order/nope",
			mocks: func(r repos) {
				r.lines.EXPECT().Delete(gomock.Any(), nil, "nope").
					Return(entity.ErrDataNotFound).Times(1)
			},
			status: http.StatusNotFound,
		},
		{
			desc:   "UndecodableBody",
			method: http.MethodPost,
			path:   "/artworks",
			body:   `{"price": "expensive"}`,
			mocks:  func(repos) {},
			status: http.StatusBadRequest,
		},
		{
			desc:   "MalformedDate",
			method: http.MethodPost,
			path:   "/orders",
			body:   `{"id_customer": "c1", "order_date": "01/03/2025"}`,
			mocks:  func(repos) {},
			status: http.StatusBadRequest,
		},
		{
			desc:   "StoreFailure",
			method: http.MethodGet,
			path:   "/artworks",
			mocks: func(r repos) {
				r.artworks.EXPECT().List(gomock.Any()).
					Return(nil, errors.New("connection refused")).Times(1)
			},
			status: http.StatusInternalServerError,
		},
		{
			desc:   "IntegrityViolation",
			method: http.MethodGet,
			path:   "/orders/detailed",
			mocks: func(r repos) {
				r.orders.EXPECT().ListDetailedRows(gomock.Any()).Return([]entity.DetailedOrderRow{
					{OrderID: "o1", Line: entity.JoinedLine{Valid: true, ID: "l1", ArtworkID: "gone"}},
				}, nil).Times(1)
			},
			status: http.StatusInternalServerError,
		},
		{
			desc:   "TotalOverflow",
			method: http.MethodGet,
			path:   "/orders/detailed",
			mocks: func(r repos) {
				r.orders.EXPECT().ListDetailedRows(gomock.Any()).Return([]entity.DetailedOrderRow{{
					OrderID: "o1",
					Line: entity.JoinedLine{
						Valid: true, ID: "l1", ArtworkID: "w1", Amount: 2,
						Artwork: &entity.JoinedArtwork{Title: "Priceless", Price: 1e308},
					},
				}}, nil).Times(1)
			},
			status: http.StatusInternalServerError,
		},
		{
			desc:   "Timeout",
			method: http.MethodGet,
			path:   "/orders",
			mocks: func(r repos) {
				r.orders.EXPECT().List(gomock.Any()).
					DoAndReturn(func(ctx context.Context) ([]*entity.Order, error) {
						<-ctx.Done()
						return nil, ctx.Err()
					}).Times(1)
			},
			status: http.StatusGatewayTimeout,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			h, r := newTestHandler(t, httpt.RequestTimeout(20*time.Millisecond))
			tc.mocks(r)

			rec := do(t, h, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			body := decode[httpt.ErrorResponse](t, rec)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandler_FixedFilters(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)

	r.artists.EXPECT().ListBornAfter(gomock.Any(), 1980).
		Return([]*entity.Artist{{ID: "a1", BirthYear: 1985}}, nil).Times(1)
	r.customers.EXPECT().ListByAddress(gomock.Any(), "ירושלים").
		Return([]*entity.Customer{}, nil).Times(1)
	r.artworks.EXPECT().ListByType(gomock.Any(), "sculpture").
		Return([]*entity.Artwork{}, nil).Times(1)

	var after entity.Date
	r.orders.EXPECT().ListAfter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d entity.Date) ([]*entity.Order, error) {
			after = d
			return []*entity.Order{}, nil
		}).Times(1)

	rec := do(t, h, http.MethodGet, "/artists/born_after_1980", "")
	require.Equal(t, http.StatusOK, rec.Code)
	artists := decode[[]entity.Artist](t, rec)
	require.Len(t, artists, 1)
	assert.Equal(t, 1985, artists[0].BirthYear)

	rec = do(t, h, http.MethodGet, "/customers/address/jerusalem", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/artworks/type/sculpture", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/orders/after/2025-01-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, after.Equal(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestHandler_BornAfterExcludesAda(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)

	var stored []*entity.Artist
	r.artists.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *entity.Artist) (*entity.Artist, error) {
			stored = append(stored, a)
			return a, nil
		}).Times(3)
	r.artists.EXPECT().ListBornAfter(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, year int) ([]*entity.Artist, error) {
			matched := make([]*entity.Artist, 0)
			for _, a := range stored {
				if a.BirthYear > year {
					matched = append(matched, a)
				}
			}
			return matched, nil
		}).Times(1)

	rec := do(t, h, http.MethodPost, "/artists",
		`{"artist_id": "ada", "first_name": "Ada", "last_name": "Lovelace", "birth_year": 1815}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ada := decode[entity.Artist](t, rec)
	require.NotEmpty(t, ada.ID)
	assert.NotEqual(t, "ada", ada.ID)

	rec = do(t, h, http.MethodPost, "/artists",
		`{"first_name": "Edge", "last_name": "Case", "birth_year": 1980}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/artists",
		`{"first_name": "Zoe", "last_name": "Adams", "birth_year": 2001}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	zoe := decode[entity.Artist](t, rec)

	rec = do(t, h, http.MethodGet, "/artists/born_after_1980", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	artists := decode[[]entity.Artist](t, rec)
	require.Len(t, artists, 1)
	assert.Equal(t, zoe.ID, artists[0].ID)
	for _, a := range artists {
		assert.NotEqual(t, ada.ID, a.ID)
	}
}

func TestHandler_CRUD(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)

	gomock.InOrder(
		r.artists.EXPECT().Exists(gomock.Any(), "a1").Return(true, nil).Times(1),
		r.artists.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a *entity.Artist) (*entity.Artist, error) {
				return a, nil
			}).Times(1),
	)
	r.artists.EXPECT().Delete(gomock.Any(), nil, "a1").Return(nil).Times(1)
	r.artworks.EXPECT().GetByID(gomock.Any(), "w1").
		Return(&entity.Artwork{ID: "w1", Title: "Nocturne", Price: 120.5}, nil).Times(1)
	r.lines.EXPECT().DeleteByOrderID(gomock.Any(), nil, "o1").Return(int64(2), nil).Times(1)
	r.orders.EXPECT().Delete(gomock.Any(), nil, "o1").Return(nil).Times(1)

	rec := do(t, h, http.MethodPut, "/artists/a1",
		`{"artist_id": "other", "first_name": "Hilma", "last_name": "af Klint", "birth_year": 1862}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	artist := decode[entity.Artist](t, rec)
	assert.Equal(t, "a1", artist.ID)
	assert.Equal(t, "Hilma", artist.FirstName)

	rec = do(t, h, http.MethodDelete, "/artists/a1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[httpt.MessageResponse](t, rec)
	assert.Contains(t, msg.Message, "a1")

	rec = do(t, h, http.MethodGet, "/artworks/w1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	artwork := decode[entity.Artwork](t, rec)
	assert.Equal(t, "Nocturne", artwork.Title)

	rec = do(t, h, http.MethodDelete, "/orders/o1", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_TrailingSlash(t *testing.T) {
	t.Parallel()

	h, r := newTestHandler(t)
	r.artworks.EXPECT().List(gomock.Any()).Return([]*entity.Artwork{}, nil).Times(1)

	rec := do(t, h, http.MethodGet, "/artworks/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_RequestIDAndCORS(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
