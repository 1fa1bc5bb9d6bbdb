package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-borrow/library/config"
	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/library/internal/handler"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/pkg/auth"

	service_mocks "github.com/Astemirdum/library-borrow/library/internal/handler/mocks"
)

var (
	user  = auth.Identity{UserID: 7, Role: auth.RoleUser}
	admin = auth.Identity{UserID: 1, Role: auth.RoleAdmin}
)

type env struct {
	tm *auth.TokenManager
}

func newEnv() env {
	return env{tm: auth.NewTokenManager(auth.Config{Secret: "test", TokenTTL: time.Hour, Issuer: "test"})}
}

func (e env) token(t *testing.T, id auth.Identity) string {
	t.Helper()
	tok, _, err := e.tm.Issue(id)
	require.NoError(t, err)
	return "Bearer " + tok
}

type request struct {
	method string
	target string
	body   string
	caller *auth.Identity
}

type response struct {
	expectedCode int
	expectedBody string
}

type mockBehavior func(r *service_mocks.MockLibraryService)

type testCase struct {
	name         string
	mockBehavior mockBehavior
	request      request
	response     response
}

func run(t *testing.T, tests []testCase) {
	t.Helper()
	e := newEnv()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, e.tm, config.HTTPServer{}, log)
			router := h.NewRouter()

			r := httptest.NewRequest(tt.request.method, tt.request.target, strings.NewReader(tt.request.body))
			r.Header.Set("Content-Type", "application/json")
			if tt.request.caller != nil {
				r.Header.Set("Authorization", e.token(t, *tt.request.caller))
			}
			w := httptest.NewRecorder()

			if tt.mockBehavior != nil {
				tt.mockBehavior(svc)
			}
			router.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func kindOf(t *testing.T, body string) string {
	t.Helper()
	var resp errs.Response
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	return resp.Kind
}

func TestHandler_RequestBorrow(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), user, int64(3), int64(0)).
					Return(model.BorrowResponse{BorrowID: 11, Status: model.StatusPending}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/borrows/request", body: `{"bookId":3}`, caller: &user},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"borrowId":11,"status":"pending"}`,
			},
		},
		{
			name: "err. duplicate echoes status",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), user, int64(3), int64(0)).
					Return(model.BorrowResponse{}, errs.WithStatus(errs.ErrConflict, "approved", "already requested"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/borrows/request", body: `{"bookId":3}`, caller: &user},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"conflict: already requested","kind":"ConflictError","status":"approved"}`,
			},
		},
		{
			name:    "err. no token",
			request: request{method: http.MethodPost, target: "/api/v1/borrows/request", body: `{"bookId":3}`},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"no authorization header"}`,
			},
		},
		{
			name:     "err. malformed body",
			request:  request{method: http.MethodPost, target: "/api/v1/borrows/request", body: `{"bookId":"x"`, caller: &user},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "err. transient",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), user, int64(3), int64(0)).
					Return(model.BorrowResponse{}, errs.ErrTransient)
			},
			request: request{method: http.MethodPost, target: "/api/v1/borrows/request", body: `{"bookId":3}`, caller: &user},
			response: response{
				expectedCode: http.StatusServiceUnavailable,
				expectedBody: `{"message":"transient store error","kind":"TransientStoreError"}`,
			},
		},
	})
}

func TestHandler_RequestBorrow_Validation(t *testing.T) {
	e := newEnv()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)
	router := handler.New(svc, e.tm, config.HTTPServer{}, zap.NewExample().Named("test")).NewRouter()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/borrows/request", strings.NewReader(`{"userId":7}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", e.token(t, user))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "ValidationError", kindOf(t, w.Body.String()))
}

func TestHandler_Status(t *testing.T) {
	t.Parallel()
	st := model.StatusBorrowed
	id := int64(4)
	run(t, []testCase{
		{
			name: "none",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().GetStatus(gomock.Any(), user, int64(2), int64(0)).Return(model.StatusView{}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/borrows/status?bookId=2", caller: &user},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":null}`,
			},
		},
		{
			name: "borrowed",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().GetStatus(gomock.Any(), admin, int64(2), int64(7)).
					Return(model.StatusView{Status: &st, BorrowID: &id}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/borrows/status?bookId=2&userId=7", caller: &admin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"status":"borrowed","borrowId":4}`,
			},
		},
		{
			name:     "err. bookId missing",
			request:  request{method: http.MethodGet, target: "/api/v1/borrows/status", caller: &user},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: `{"message":"validation error: bookId is required","kind":"ValidationError"}`},
		},
		{
			name:     "err. user id invalid",
			request:  request{method: http.MethodGet, target: "/api/v1/borrows/user/abc", caller: &user},
			response: response{expectedCode: http.StatusBadRequest, expectedBody: `{"message":"validation error: userId is invalid","kind":"ValidationError"}`},
		},
		{
			name: "err. foreign history",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListUserBorrows(gomock.Any(), user, int64(9)).
					Return(nil, errs.Forbidden("cannot act on behalf of user 9"))
			},
			request:  request{method: http.MethodGet, target: "/api/v1/borrows/user/9", caller: &user},
			response: response{expectedCode: http.StatusForbidden, expectedBody: `{"message":"forbidden: cannot act on behalf of user 9","kind":"ForbiddenError"}`},
		},
	})
}

func TestHandler_CancelAndReturn(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "cancel ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CancelRequest(gomock.Any(), user, int64(5)).Return(nil)
			},
			request:  request{method: http.MethodPost, target: "/api/v1/borrows/cancel", body: `{"borrowId":5}`, caller: &user},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "cancel not pending",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().CancelRequest(gomock.Any(), user, int64(5)).Return(errs.InvalidState("approved"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/borrows/cancel", body: `{"borrowId":5}`, caller: &user},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"invalid state: record is approved","kind":"InvalidStateError","status":"approved"}`,
			},
		},
		{
			name: "return nothing borrowed",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().SelfReturn(gomock.Any(), user, int64(3), int64(0)).Return(model.Borrow{}, errs.NotFound("no borrowed copy"))
			},
			request:  request{method: http.MethodPost, target: "/api/v1/borrows/return", body: `{"bookId":3}`, caller: &user},
			response: response{expectedCode: http.StatusNotFound},
		},
	})
}

func TestHandler_Admin(t *testing.T) {
	t.Parallel()
	notes := "shelf B"
	run(t, []testCase{
		{
			name:     "err. user on admin route",
			request:  request{method: http.MethodPost, target: "/api/v1/admin/borrows/5/approve", caller: &user},
			response: response{expectedCode: http.StatusForbidden, expectedBody: `{"message":"admin role required"}`},
		},
		{
			name: "approve with notes",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Approve(gomock.Any(), admin, int64(5), notes).
					Return(model.Borrow{ID: 5, BookID: 3, UserID: 7, Status: model.StatusApproved, AdminNotes: &notes}, nil)
			},
			request: request{method: http.MethodPost, target: "/api/v1/admin/borrows/5/approve", body: `{"notes":"shelf B"}`, caller: &admin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":5,"bookId":3,"userId":7,"status":"approved","requestDate":"0001-01-01T00:00:00Z","approvalDate":null,"borrowDate":null,"returnDate":null,"adminNotes":"shelf B"}`,
			},
		},
		{
			name: "reject without body",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Reject(gomock.Any(), admin, int64(5), "").
					Return(model.Borrow{ID: 5, Status: model.StatusRejected}, nil)
			},
			request:  request{method: http.MethodPost, target: "/api/v1/admin/borrows/5/reject", caller: &admin},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "confirm borrow out of stock",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ConfirmBorrow(gomock.Any(), admin, int64(5), "").
					Return(model.Borrow{}, errs.New(errs.ErrOutOfStock, "book 3 has no available copies"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/admin/borrows/5/confirm-borrow", caller: &admin},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"out of stock: book 3 has no available copies","kind":"OutOfStockError"}`,
			},
		},
		{
			name: "confirm return",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ConfirmReturn(gomock.Any(), admin, int64(5), "").
					Return(model.Borrow{ID: 5, Status: model.StatusReturned}, nil)
			},
			request:  request{method: http.MethodPost, target: "/api/v1/admin/borrows/5/confirm-return", caller: &admin},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "list filtered",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AdminListAll(gomock.Any(), admin, model.BorrowFilter{Status: model.StatusPending, Page: 1, Size: 10}).
					Return(model.ListBorrows{Paging: model.Paging{Page: 1, PageSize: 10}, Items: []model.BorrowView{}}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/admin/borrows?status=pending&page=1&size=10", caller: &admin},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":1,"pageSize":10,"totalElements":0,"items":[]}`,
			},
		},
		{
			name:     "err. bad page",
			request:  request{method: http.MethodGet, target: "/api/v1/admin/borrows?page=x", caller: &admin},
			response: response{expectedCode: http.StatusBadRequest},
		},
		{
			name: "ledger",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().LedgerReport(gomock.Any(), admin).Return([]model.LedgerDrift{}, nil)
			},
			request:  request{method: http.MethodGet, target: "/api/v1/admin/ledger", caller: &admin},
			response: response{expectedCode: http.StatusOK, expectedBody: `[]`},
		},
	})
}

func TestHandler_BooksAndAuth(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name: "list books anonymous",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListBooks(gomock.Any(), 0, 0).
					Return(model.ListBooks{Items: []model.Book{{ID: 1, Title: "Dune", Author: "Herbert", Quantity: 2, TotalCopies: 2}}, Paging: model.Paging{TotalElements: 1}}, nil)
			},
			request: request{method: http.MethodGet, target: "/api/v1/books"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"page":0,"pageSize":0,"totalElements":1,"items":[{"id":1,"title":"Dune","author":"Herbert","description":"","imageUrl":null,"quantity":2,"totalCopies":2}]}`,
			},
		},
		{
			name:     "err. user creates book",
			request:  request{method: http.MethodPost, target: "/api/v1/books", body: `{"title":"x","author":"y"}`, caller: &user},
			response: response{expectedCode: http.StatusForbidden},
		},
		{
			name: "adjust stock",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().AdjustStock(gomock.Any(), admin, int64(1), -1).Return(model.Book{ID: 1, Quantity: 1, TotalCopies: 1}, nil)
			},
			request:  request{method: http.MethodPatch, target: "/api/v1/books/1/stock", body: `{"delta":-1}`, caller: &admin},
			response: response{expectedCode: http.StatusOK},
		},
		{
			name: "delete book with history",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().DeleteBook(gomock.Any(), admin, int64(1)).Return(errs.New(errs.ErrConflict, "book 1 has borrow records"))
			},
			request:  request{method: http.MethodDelete, target: "/api/v1/books/1", caller: &admin},
			response: response{expectedCode: http.StatusConflict},
		},
		{
			name: "login bad credentials",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().Login(gomock.Any(), model.LoginRequest{Email: "a@b.co", Password: "x"}).
					Return(model.LoginResponse{}, errs.New(errs.ErrUnauthenticated, "invalid email or password"))
			},
			request: request{method: http.MethodPost, target: "/api/v1/auth/login", body: `{"email":"a@b.co","password":"x"}`},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"unauthenticated: invalid email or password","kind":"Unauthenticated"}`,
			},
		},
		{
			name:     "err. register bad email",
			request:  request{method: http.MethodPost, target: "/api/v1/auth/register", body: `{"name":"a","email":"nope","password":"secret1"}`},
			response: response{expectedCode: http.StatusBadRequest},
		},
	})
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	run(t, []testCase{
		{
			name:     "ok",
			request:  request{method: http.MethodGet, target: "/manage/health"},
			response: response{expectedCode: http.StatusOK, expectedBody: "OK"},
		},
	})
}
