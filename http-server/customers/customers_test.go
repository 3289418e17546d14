package customers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hauwenw/ping-parking/internal/service"
	"github.com/hauwenw/ping-parking/internal/session"
	"github.com/hauwenw/ping-parking/internal/storage"
	"github.com/hauwenw/ping-parking/internal/storage/restapi"
	"github.com/hauwenw/ping-parking/internal/web/webtest"
)

type MockCustomers struct {
	mock.Mock
}

func (m *MockCustomers) ListCustomers(ctx context.Context, search string) ([]storage.Customer, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Customer), args.Error(1)
}

func (m *MockCustomers) GetCustomer(ctx context.Context, id string) (*storage.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Customer), args.Error(1)
}

func (m *MockCustomers) CustomerDetail(ctx context.Context, id string) (*service.CustomerDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CustomerDetail), args.Error(1)
}

func (m *MockCustomers) CreateCustomer(ctx context.Context, in storage.CustomerInput) (*storage.Customer, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Customer), args.Error(1)
}

func (m *MockCustomers) UpdateCustomer(ctx context.Context, id string, in storage.CustomerInput) (*storage.Customer, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Customer), args.Error(1)
}

func (m *MockCustomers) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var notFound = &restapi.Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Customer not found"}

func TestGetCustomers_Search(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockCustomers)
	m.On("ListCustomers", mock.Anything, "0912").Return([]storage.Customer{
		{ID: "c-1", Name: "王小明", Phone: "0912345678", ActiveAgreementCount: 1},
	}, nil)

	rr := httptest.NewRecorder()
	GetCustomers(slog.Default(), rs, m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/customers?search=0912", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "王小明")
	assert.Contains(t, rr.Body.String(), "0912-345-678")
	m.AssertExpectations(t)
}

func TestGetCustomer_Detail(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockCustomers)
	spaceName := "A-01"
	m.On("CustomerDetail", mock.Anything, "c-1").Return(&service.CustomerDetail{
		Customer: &storage.Customer{ID: "c-1", Name: "王小明", Phone: "0912345678"},
		Agreements: []storage.Agreement{{
			ID: "ag-1", SpaceName: &spaceName, AgreementType: storage.RentalMonthly,
			StartDate: "2026-03-01", EndDate: "2026-03-31", Price: 3600,
		}},
	}, nil)

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/customers/c-1", nil), "id", "c-1")
	rr := httptest.NewRecorder()
	GetCustomer(slog.Default(), rs, m).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "月租")
	assert.Contains(t, body, "2026年03月01日")
	assert.Contains(t, body, "進行中")
}

func TestGetCustomer_NotFound(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)
	m.On("CustomerDetail", mock.Anything, "missing").Return(nil, notFound)

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/customers/missing", nil), "id", "missing")
	rr := httptest.NewRecorder()
	GetCustomer(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, "/customers", rr.Header().Get("Location"))
	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "找不到客戶"}}, webtest.Flashes(t, mgr, rr))
	assert.NotContains(t, rr.Body.String(), "合約紀錄")
}

func TestSaveCustomer_InvalidPhone(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)

	rr := httptest.NewRecorder()
	SaveCustomer(slog.Default(), rs, m).ServeHTTP(rr, webtest.PostForm("/customers", url.Values{
		"name":  {"王小明"},
		"phone": {"12345"},
	}))

	assert.Equal(t, "/customers", rr.Header().Get("Location"))
	assert.Contains(t, webtest.Flashes(t, mgr, rr)[0].Message, "電話格式錯誤")
	m.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
}

func TestSaveCustomer_Success(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)
	email := "ming@example.com"
	m.On("CreateCustomer", mock.Anything, storage.CustomerInput{
		Name: "王小明", Phone: "0912345678", Email: &email,
	}).Return(&storage.Customer{ID: "c-9"}, nil)

	rr := httptest.NewRecorder()
	SaveCustomer(slog.Default(), rs, m).ServeHTTP(rr, webtest.PostForm("/customers", url.Values{
		"name":  {"王小明"},
		"phone": {"0912345678"},
		"email": {"ming@example.com"},
	}))

	assert.Equal(t, "/customers/c-9", rr.Header().Get("Location"))
	assert.Equal(t, "客戶已新增", webtest.Flashes(t, mgr, rr)[0].Message)
}

func TestUpdateCustomer_ServerValidation(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)
	m.On("UpdateCustomer", mock.Anything, "c-1", mock.Anything).
		Return(nil, &restapi.Error{Status: http.StatusUnprocessableEntity, Message: "電話號碼已被使用"})

	req := webtest.WithURLParams(webtest.PostForm("/customers/c-1", url.Values{
		"name":  {"王小明"},
		"phone": {"0912345678"},
	}), "id", "c-1")
	rr := httptest.NewRecorder()
	UpdateCustomer(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, "/customers/c-1", rr.Header().Get("Location"))
	assert.Equal(t, "電話號碼已被使用", webtest.Flashes(t, mgr, rr)[0].Message)
}

func TestConfirmDelete_RendersWithoutDeleting(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockCustomers)
	m.On("GetCustomer", mock.Anything, "c-1").Return(&storage.Customer{ID: "c-1", Name: "王小明", Phone: "0912345678"}, nil)

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/customers/c-1/delete", nil), "id", "c-1")
	rr := httptest.NewRecorder()
	ConfirmDelete(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "確定要刪除客戶「王小明」")
	m.AssertNotCalled(t, "DeleteCustomer", mock.Anything, mock.Anything)
}

func TestDeleteCustomer_RequiresConfirmation(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)

	req := webtest.WithURLParams(webtest.PostForm("/customers/c-1/delete", url.Values{"confirm": {"no"}}), "id", "c-1")
	rr := httptest.NewRecorder()
	DeleteCustomer(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, "/customers/c-1", rr.Header().Get("Location"))
	assert.Equal(t, session.FlashInfo, webtest.Flashes(t, mgr, rr)[0].Kind)
	m.AssertNotCalled(t, "DeleteCustomer", mock.Anything, mock.Anything)
}

func TestDeleteCustomer_Confirmed(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockCustomers)
	m.On("DeleteCustomer", mock.Anything, "c-1").Return(nil)

	req := webtest.WithURLParams(webtest.PostForm("/customers/c-1/delete", url.Values{"confirm": {"yes"}}), "id", "c-1")
	rr := httptest.NewRecorder()
	DeleteCustomer(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, "/customers", rr.Header().Get("Location"))
	assert.Equal(t, "客戶已刪除", webtest.Flashes(t, mgr, rr)[0].Message)
	m.AssertExpectations(t)
}
