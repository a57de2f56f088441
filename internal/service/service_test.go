package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gallery/internal/entity"
	"gallery/internal/service"
	mock_service "gallery/internal/service/mock"
	"gallery/pkg/logger"
	mock_logger "gallery/pkg/logger/mock"
	"gallery/pkg/storage/postgres"
	mock_transaction "gallery/pkg/storage/postgres/transaction/mock"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateFakeArtist() *entity.Artist {
	return &entity.Artist{
		ID:        uuid.NewString(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		BirthYear: gofakeit.Number(1850, 2005),
	}
}

func generateFakeCustomer() *entity.Customer {
	return &entity.Customer{
		ID:        uuid.NewString(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     gofakeit.Email(),
		Phone:     gofakeit.Phone(),
		Address:   gofakeit.Address().Address,
	}
}

func generateFakeArtwork() *entity.Artwork {
	return &entity.Artwork{
		ID:          uuid.NewString(),
		Title:       gofakeit.BookTitle(),
		Description: gofakeit.Sentence(8),
		YearCreated: gofakeit.Number(1900, 2024),
		Price:       float64(gofakeit.Number(10, 5000)),
		ArtistID:    uuid.NewString(),
		ArtType:     gofakeit.RandomString([]string{"painting", "sculpture", "photograph"}),
	}
}

func generateFakeOrder() *entity.Order {
	created := gofakeit.DateRange(
		time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	)
	return &entity.Order{
		ID:         uuid.NewString(),
		CustomerID: uuid.NewString(),
		OrderDate:  entity.NewDate(created.Year(), created.Month(), created.Day()),
	}
}

func TestArtistService_Create(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockArtistRepository(ctrl)
	s := service.NewArtistService(repo, logger.NewNop())

	input := generateFakeArtist()
	clientID := input.ID

	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, artist *entity.Artist) (*entity.Artist, error) {
			stored := *artist
			return &stored, nil
		}).Times(1)

	created, err := s.Create(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEqual(t, clientID, created.ID, "client supplied id must be replaced")
	_, parseErr := uuid.Parse(created.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, clientID, input.ID, "caller's record must not be mutated")
	assert.Equal(t, input.FirstName, created.FirstName)
	assert.Equal(t, input.BirthYear, created.BirthYear)
}

func TestArtistService_Update(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection reset")

	testCases := []struct {
		desc    string
		mocks   func(repo *mock_service.MockArtistRepository, id string, artist *entity.Artist)
		wantErr error
	}{
		{
			desc: "Success",
			mocks: func(repo *mock_service.MockArtistRepository, id string, artist *entity.Artist) {
				gomock.InOrder(
					repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil).Times(1),
					repo.EXPECT().Update(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, a *entity.Artist) (*entity.Artist, error) {
							return a, nil
						}).Times(1),
				)
			},
		},
		{
			desc: "NotFoundFromExistenceCheck",
			mocks: func(repo *mock_service.MockArtistRepository, id string, _ *entity.Artist) {
				repo.EXPECT().Exists(gomock.Any(), id).Return(false, nil).Times(1)
				repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: entity.ErrDataNotFound,
		},
		{
			desc: "ExistenceCheckFails",
			mocks: func(repo *mock_service.MockArtistRepository, id string, _ *entity.Artist) {
				repo.EXPECT().Exists(gomock.Any(), id).Return(false, dbErr).Times(1)
			},
			wantErr: dbErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			repo := mock_service.NewMockArtistRepository(ctrl)
			s := service.NewArtistService(repo, logger.NewNop())

			id := uuid.NewString()
			artist := generateFakeArtist()
			tc.mocks(repo, id, artist)

			updated, err := s.Update(context.Background(), id, artist)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, updated)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, updated.ID, "path id wins over body id")
			assert.Equal(t, artist.LastName, updated.LastName)
		})
	}
}

func TestArtistService_ListBornAfter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockArtistRepository(ctrl)
	s := service.NewArtistService(repo, logger.NewNop())

	want := []*entity.Artist{generateFakeArtist(), generateFakeArtist()}
	repo.EXPECT().ListBornAfter(gomock.Any(), 1980).Return(want, nil).Times(1)

	got, err := s.ListBornAfter(context.Background(), 1980)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestCustomerService_Delete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockCustomerRepository(ctrl)
	s := service.NewCustomerService(repo, logger.NewNop())

	id := generateFakeCustomer().ID
	repo.EXPECT().Delete(gomock.Any(), nil, id).Return(entity.ErrDataNotFound).Times(1)

	err := s.Delete(context.Background(), id)
	require.ErrorIs(t, err, entity.ErrDataNotFound)
}

func TestCustomerService_ListByAddress(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockCustomerRepository(ctrl)
	s := service.NewCustomerService(repo, logger.NewNop())

	customer := generateFakeCustomer()
	customer.Address = "רחוב יפו 1, ירושלים"
	repo.EXPECT().ListByAddress(gomock.Any(), "ירושלים").
		Return([]*entity.Customer{customer}, nil).Times(1)

	got, err := s.ListByAddress(context.Background(), "ירושלים")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, customer.ID, got[0].ID)
}

func TestOrderService_Delete(t *testing.T) {
	t.Parallel()

	lineErr := errors.New("lines locked")

	testCases := []struct {
		desc    string
		atomic  bool
		mocks   func(orders *mock_service.MockOrderRepository, lines *mock_service.MockArtworkInOrderRepository, tx *mock_transaction.MockManager, id string)
		wantErr error
	}{
		{
			desc: "LinesThenOrder",
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				_ *mock_transaction.MockManager,
				id string,
			) {
				gomock.InOrder(
					lines.EXPECT().DeleteByOrderID(gomock.Any(), nil, id).Return(int64(2), nil).Times(1),
					orders.EXPECT().Delete(gomock.Any(), nil, id).Return(nil).Times(1),
				)
			},
		},
		{
			desc: "OrderWithoutLines",
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				_ *mock_transaction.MockManager,
				id string,
			) {
				lines.EXPECT().DeleteByOrderID(gomock.Any(), nil, id).Return(int64(0), nil).Times(1)
				orders.EXPECT().Delete(gomock.Any(), nil, id).Return(nil).Times(1)
			},
		},
		{
			desc: "MissingOrder",
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				_ *mock_transaction.MockManager,
				id string,
			) {
				lines.EXPECT().DeleteByOrderID(gomock.Any(), nil, id).Return(int64(0), nil).Times(1)
				orders.EXPECT().Delete(gomock.Any(), nil, id).Return(entity.ErrDataNotFound).Times(1)
			},
			wantErr: entity.ErrDataNotFound,
		},
		{
			desc: "LineDeleteFailsStopsCascade",
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				_ *mock_transaction.MockManager,
				id string,
			) {
				lines.EXPECT().DeleteByOrderID(gomock.Any(), nil, id).Return(int64(0), lineErr).Times(1)
				orders.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErr: lineErr,
		},
		{
			desc:   "AtomicRunsBothStepsInOneTransaction",
			atomic: true,
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				tx *mock_transaction.MockManager,
				id string,
			) {
				txExec := &postgres.TxQueryExecuter{}
				tx.EXPECT().ExecuteInTransaction(gomock.Any(), "DeleteOrder", gomock.Any()).
					DoAndReturn(func(
						_ context.Context,
						_ string,
						fn func(postgres.QueryExecuter) error,
					) error {
						return fn(txExec)
					}).Times(1)

				gomock.InOrder(
					lines.EXPECT().DeleteByOrderID(gomock.Any(), txExec, id).Return(int64(1), nil).Times(1),
					orders.EXPECT().Delete(gomock.Any(), txExec, id).Return(nil).Times(1),
				)
			},
		},
		{
			desc:   "AtomicRollbackSurfacesError",
			atomic: true,
			mocks: func(
				orders *mock_service.MockOrderRepository,
				lines *mock_service.MockArtworkInOrderRepository,
				tx *mock_transaction.MockManager,
				id string,
			) {
				tx.EXPECT().ExecuteInTransaction(gomock.Any(), "DeleteOrder", gomock.Any()).
					DoAndReturn(func(
						_ context.Context,
						_ string,
						fn func(postgres.QueryExecuter) error,
					) error {
						return fn(&postgres.TxQueryExecuter{})
					}).Times(1)

				lines.EXPECT().DeleteByOrderID(gomock.Any(), gomock.Any(), id).Return(int64(3), nil).Times(1)
				orders.EXPECT().Delete(gomock.Any(), gomock.Any(), id).Return(entity.ErrDataNotFound).Times(1)
			},
			wantErr: entity.ErrDataNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			orders := mock_service.NewMockOrderRepository(ctrl)
			lines := mock_service.NewMockArtworkInOrderRepository(ctrl)
			tx := mock_transaction.NewMockManager(ctrl)

			id := uuid.NewString()
			tc.mocks(orders, lines, tx, id)

			var s *service.OrderService
			if tc.atomic {
				s = service.NewOrderService(orders, lines, tx, logger.NewNop())
			} else {
				s = service.NewOrderService(orders, lines, nil, logger.NewNop())
			}

			err := s.Delete(context.Background(), id)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestArtworkService_Delete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	artworks := mock_service.NewMockArtworkRepository(ctrl)
	lines := mock_service.NewMockArtworkInOrderRepository(ctrl)
	s := service.NewArtworkService(artworks, lines, nil, logger.NewNop())

	id := generateFakeArtwork().ID
	gomock.InOrder(
		lines.EXPECT().DeleteByArtworkID(gomock.Any(), nil, id).Return(int64(4), nil).Times(1),
		artworks.EXPECT().Delete(gomock.Any(), nil, id).Return(nil).Times(1),
	)

	require.NoError(t, s.Delete(context.Background(), id))
}

func TestOrderService_ListAfter(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	orders := mock_service.NewMockOrderRepository(ctrl)
	s := service.NewOrderService(orders, mock_service.NewMockArtworkInOrderRepository(ctrl), nil, logger.NewNop())

	after := entity.NewDate(2025, time.January, 1)
	want := []*entity.Order{generateFakeOrder()}
	orders.EXPECT().ListAfter(gomock.Any(), after).Return(want, nil).Times(1)

	got, err := s.ListAfter(context.Background(), after)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOrderService_ListDetailed(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("relation \"orders\" does not exist")

	testCases := []struct {
		desc    string
		rows    []entity.DetailedOrderRow
		rowsErr error
		want    int
		wantErr error
	}{
		{
			desc: "AggregatesRows",
			rows: []entity.DetailedOrderRow{
				detailedRow("o1", "l1", 1, 10),
				detailedRow("o1", "l2", 2, 5),
				emptyOrderRow("o2"),
			},
			want: 2,
		},
		{
			desc:    "StoreFailure",
			rowsErr: storeErr,
			wantErr: storeErr,
		},
		{
			desc: "IntegrityViolation",
			rows: []entity.DetailedOrderRow{
				{OrderID: "o1", Line: entity.JoinedLine{Valid: true, ID: "l1", ArtworkID: "gone", Amount: 1}},
			},
			wantErr: entity.ErrDataIntegrity,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			orders := mock_service.NewMockOrderRepository(ctrl)
			s := service.NewOrderService(orders, mock_service.NewMockArtworkInOrderRepository(ctrl), nil, logger.NewNop())

			orders.EXPECT().ListDetailedRows(gomock.Any()).Return(tc.rows, tc.rowsErr).Times(1)

			got, err := s.ListDetailed(context.Background())
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tc.want)
		})
	}
}

func TestService_LogsFailures(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockArtworkInOrderRepository(ctrl)
	log := mock_logger.NewMockLogger(ctrl)
	s := service.NewArtworkInOrderService(repo, log)

	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom")).Times(1)
	log.EXPECT().
		LogAttrs(gomock.Any(), logger.ErrorLevel, "service operation failed", gomock.Any()).
		Times(1)

	_, err := s.List(context.Background())
	require.Error(t, err)
}

func TestService_LogsSlowOperations(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := mock_service.NewMockArtworkInOrderRepository(ctrl)
	log := mock_logger.NewMockLogger(ctrl)
	s := service.NewArtworkInOrderService(repo, log)

	repo.EXPECT().List(gomock.Any()).
		DoAndReturn(func(context.Context) ([]*entity.ArtworkInOrder, error) {
			time.Sleep(250 * time.Millisecond)
			return []*entity.ArtworkInOrder{}, nil
		}).Times(1)
	log.EXPECT().
		LogAttrs(gomock.Any(), logger.WarnLevel, "slow service operation", gomock.Any()).
		Times(1)

	lines, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}
