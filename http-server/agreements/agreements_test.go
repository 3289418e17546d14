package agreements

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

type MockAgreements struct {
	mock.Mock
}

func (m *MockAgreements) AgreementsPage(ctx context.Context) (*service.AgreementsPage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AgreementsPage), args.Error(1)
}

func (m *MockAgreements) AgreementForm(ctx context.Context, spaceID string) (*service.AgreementForm, error) {
	args := m.Called(ctx, spaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AgreementForm), args.Error(1)
}

func (m *MockAgreements) AgreementDetail(ctx context.Context, id string) (*service.AgreementDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AgreementDetail), args.Error(1)
}

func (m *MockAgreements) CreateAgreement(ctx context.Context, in storage.AgreementInput) (*storage.Agreement, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Agreement), args.Error(1)
}

func (m *MockAgreements) TerminateAgreement(ctx context.Context, id string, in storage.TerminateInput) (*storage.Agreement, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Agreement), args.Error(1)
}

func ptr[T any](v T) *T { return &v }

func TestGetAgreements_Summary(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementsPage", mock.Anything).Return(&service.AgreementsPage{
		Agreements: []storage.Agreement{{
			ID: "ag-1", CustomerName: ptr("王小明"), SpaceName: ptr("A-01"),
			AgreementType: storage.RentalMonthly, StartDate: "2026-03-01", EndDate: "2026-03-31",
			Price: 3600, PaymentStatus: ptr("pending"),
		}},
		Summary: &storage.AgreementSummary{ActiveCount: 12, PendingPaymentTotal: 43200, AvailableSpaceCount: 8},
	}, nil)

	rr := httptest.NewRecorder()
	GetAgreements(slog.Default(), rs, m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/agreements", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "NT$43,200")
	assert.Contains(t, body, "待付款")
	assert.Contains(t, body, "王小明")
}

func TestGetAgreements_LoadFailure(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementsPage", mock.Anything).Return(nil, &restapi.Error{Status: 500, Message: "Request failed"})

	rr := httptest.NewRecorder()
	GetAgreements(slog.Default(), rs, m).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/agreements", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, rr.Body.String(), "Request failed")
}

func TestNewAgreement_ProposesPrice(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	space := &storage.Space{ID: "sp-1", Name: "A-01", EffectiveMonthlyPrice: ptr(int64(3600)), EffectiveDailyPrice: ptr(int64(150))}
	m.On("AgreementForm", mock.Anything, "sp-1").Return(&service.AgreementForm{
		Spaces:   []storage.Space{*space},
		Selected: space,
	}, nil)

	rr := httptest.NewRecorder()
	NewAgreement(slog.Default(), rs, m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/agreements/new?space_id=sp-1&agreement_type=quarterly", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `value="10800"`)
	assert.Contains(t, body, "NT$10,800")
}

func TestNewAgreement_DefaultsToMonthly(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementForm", mock.Anything, "").Return(&service.AgreementForm{}, nil)

	rr := httptest.NewRecorder()
	NewAgreement(slog.Default(), rs, m).ServeHTTP(rr,
		httptest.NewRequest(http.MethodGet, "/agreements/new?agreement_type=weekly", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `value="monthly" selected`)
}

func TestSaveAgreement_Success(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)
	want := storage.AgreementInput{
		CustomerID: "c-1", SpaceID: "sp-1", AgreementType: storage.RentalMonthly,
		StartDate: "2026-03-01", Price: 3600, LicensePlates: "ABC-1234",
	}
	m.On("CreateAgreement", mock.Anything, want).Return(&storage.Agreement{ID: "ag-7"}, nil)

	rr := httptest.NewRecorder()
	SaveAgreement(slog.Default(), rs, m).ServeHTTP(rr, webtest.PostForm("/agreements", url.Values{
		"customer_id":    {"c-1"},
		"space_id":       {"sp-1"},
		"agreement_type": {"monthly"},
		"start_date":     {"2026-03-01"},
		"price":          {"3600"},
		"license_plates": {"ABC-1234"},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/agreements/ag-7", rr.Header().Get("Location"))
	assert.Equal(t, []session.Flash{{Kind: session.FlashSuccess, Message: "合約已建立"}}, webtest.Flashes(t, mgr, rr))
	m.AssertExpectations(t)
}

func TestSaveAgreement_MissingPrice(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)

	rr := httptest.NewRecorder()
	SaveAgreement(slog.Default(), rs, m).ServeHTTP(rr, webtest.PostForm("/agreements", url.Values{
		"customer_id":    {"c-1"},
		"space_id":       {"sp-1"},
		"agreement_type": {"monthly"},
		"start_date":     {"2026-03-01"},
		"license_plates": {"ABC-1234"},
	}))

	assert.Equal(t, "/agreements/new?space_id=sp-1", rr.Header().Get("Location"))
	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "價格為必填"}}, webtest.Flashes(t, mgr, rr))
	m.AssertNotCalled(t, "CreateAgreement", mock.Anything, mock.Anything)
}

func TestSaveAgreement_SpaceTaken(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("CreateAgreement", mock.Anything, mock.Anything).
		Return(nil, &restapi.Error{Status: http.StatusConflict, Code: "CONFLICT", Message: "此車位已有進行中的合約"})

	rr := httptest.NewRecorder()
	SaveAgreement(slog.Default(), rs, m).ServeHTTP(rr, webtest.PostForm("/agreements", url.Values{
		"customer_id":    {"c-1"},
		"space_id":       {"sp-1"},
		"agreement_type": {"daily"},
		"start_date":     {"2026-03-01"},
		"price":          {"150"},
		"license_plates": {"ABC-1234"},
	}))

	assert.Equal(t, "/agreements/new?space_id=sp-1", rr.Header().Get("Location"))
	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "此車位已有進行中的合約"}}, webtest.Flashes(t, mgr, rr))
}

func TestGetAgreement_WithPendingPayment(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementDetail", mock.Anything, "ag-1").Return(&service.AgreementDetail{
		Agreement: &storage.Agreement{ID: "ag-1", AgreementType: storage.RentalMonthly, StartDate: "2026-03-01", EndDate: "2026-03-31", Price: 3600},
		Payment:   &storage.Payment{ID: "pay-1", AgreementID: "ag-1", Amount: 3600, Status: storage.PaymentPending},
	}, nil)

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/agreements/ag-1", nil), "id", "ag-1")
	rr := httptest.NewRecorder()
	GetAgreement(slog.Default(), rs, m).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "/payments/pay-1/complete")
	assert.Contains(t, body, "/agreements/ag-1/terminate")
}

func TestGetAgreement_WithoutPayment(t *testing.T) {
	rs, _ := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementDetail", mock.Anything, "ag-1").Return(&service.AgreementDetail{
		Agreement: &storage.Agreement{ID: "ag-1", TerminatedAt: ptr("2026-03-15"), TerminationReason: ptr("客戶搬家")},
	}, nil)

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/agreements/ag-1", nil), "id", "ag-1")
	rr := httptest.NewRecorder()
	GetAgreement(slog.Default(), rs, m).ServeHTTP(rr, req)

	body := rr.Body.String()
	assert.Contains(t, body, "尚無付款紀錄")
	assert.Contains(t, body, "客戶搬家")
	assert.NotContains(t, body, "/terminate")
}

func TestGetAgreement_NotFound(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("AgreementDetail", mock.Anything, "missing").
		Return(nil, &restapi.Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Agreement not found"})

	req := webtest.WithURLParams(httptest.NewRequest(http.MethodGet, "/agreements/missing", nil), "id", "missing")
	rr := httptest.NewRecorder()
	GetAgreement(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/agreements", rr.Header().Get("Location"))
	assert.NotContains(t, rr.Body.String(), "合約詳情")
	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "找不到合約"}}, webtest.Flashes(t, mgr, rr))
}

func TestTerminateAgreement(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)
	m.On("TerminateAgreement", mock.Anything, "ag-1", storage.TerminateInput{TerminationReason: "客戶搬家"}).
		Return(&storage.Agreement{ID: "ag-1"}, nil)

	req := webtest.WithURLParams(webtest.PostForm("/agreements/ag-1/terminate", url.Values{
		"termination_reason": {"客戶搬家"},
	}), "id", "ag-1")
	rr := httptest.NewRecorder()
	TerminateAgreement(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, "/agreements/ag-1", rr.Header().Get("Location"))
	assert.Equal(t, []session.Flash{{Kind: session.FlashSuccess, Message: "合約已終止"}}, webtest.Flashes(t, mgr, rr))
}

func TestTerminateAgreement_RequiresReason(t *testing.T) {
	rs, mgr := webtest.NewResponder(t)
	m := new(MockAgreements)

	req := webtest.WithURLParams(webtest.PostForm("/agreements/ag-1/terminate", url.Values{}), "id", "ag-1")
	rr := httptest.NewRecorder()
	TerminateAgreement(slog.Default(), rs, m).ServeHTTP(rr, req)

	assert.Equal(t, []session.Flash{{Kind: session.FlashError, Message: "終止原因為必填"}}, webtest.Flashes(t, mgr, rr))
	m.AssertNotCalled(t, "TerminateAgreement", mock.Anything, mock.Anything, mock.Anything)
}
