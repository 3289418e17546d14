package preview

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
)

type MockSpaces struct {
	mock.Mock
}

func (m *MockSpaces) GetSpace(ctx context.Context, id string) (*storage.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Space), args.Error(1)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}

func TestBatchNames(t *testing.T) {
	rr := httptest.NewRecorder()
	BatchNames(slog.Default()).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/preview/batch-names?prefix=B&start=98&count=3", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"B-098", "B-099", "B-100"}, decode[BatchNamesResponse](t, rr).Names)
}

func TestBatchNames_Errors(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"empty prefix", "?prefix=&start=1&count=3", "請輸入前綴"},
		{"too many", "?prefix=A&start=1&count=201", "數量必須介於 1 到 200"},
		{"negative start", "?prefix=A&start=-1&count=3", "起始編號不可小於 0"},
		{"non numeric", "?prefix=A&start=x&count=3", "起始編號必須是整數"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			BatchNames(slog.Default()).ServeHTTP(rr,
				httptest.NewRequest(http.MethodGet, "/api/preview/batch-names"+tc.query, nil))

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tc.want, decode[ErrorResponse](t, rr).Error)
		})
	}
}

func TestPrice(t *testing.T) {
	m := new(MockSpaces)
	monthly := int64(3600)
	m.On("GetSpace", mock.Anything, "sp-1").Return(&storage.Space{ID: "sp-1", EffectiveMonthlyPrice: &monthly}, nil)

	rr := httptest.NewRecorder()
	Price(slog.Default(), m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/preview/price?space_id=sp-1&agreement_type=yearly", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[PriceResponse](t, rr)
	require.NotNil(t, resp.Price)
	assert.Equal(t, int64(43200), *resp.Price)
	assert.Equal(t, "NT$43,200", resp.Formatted)
}

func TestPrice_NothingToPropose(t *testing.T) {
	m := new(MockSpaces)
	m.On("GetSpace", mock.Anything, "sp-1").Return(&storage.Space{ID: "sp-1"}, nil)

	rr := httptest.NewRecorder()
	Price(slog.Default(), m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/preview/price?space_id=sp-1&agreement_type=daily", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, decode[PriceResponse](t, rr).Price)
}

func TestPrice_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", &restapi.Error{Status: 404, Code: "NOT_FOUND", Message: "Space not found"}, http.StatusNotFound},
		{"expired", restapi.ErrUnauthorized, http.StatusUnauthorized},
		{"upstream", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(MockSpaces)
			m.On("GetSpace", mock.Anything, "sp-1").Return(nil, tc.err)

			rr := httptest.NewRecorder()
			Price(slog.Default(), m).ServeHTTP(rr,
				httptest.NewRequest(http.MethodGet, "/api/preview/price?space_id=sp-1&agreement_type=monthly", nil))

			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestPrice_InvalidRentalType(t *testing.T) {
	m := new(MockSpaces)

	rr := httptest.NewRecorder()
	Price(slog.Default(), m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/api/preview/price?space_id=sp-1&agreement_type=weekly", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	m.AssertNotCalled(t, "GetSpace", mock.Anything, mock.Anything)
}
