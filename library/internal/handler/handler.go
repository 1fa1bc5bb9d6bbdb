package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/library-borrow/library/config"
	"github.com/Astemirdum/library-borrow/library/internal/errs"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	md "github.com/Astemirdum/library-borrow/pkg/middleware"
	"github.com/Astemirdum/library-borrow/pkg/validate"
	_ "github.com/Astemirdum/library-borrow/swagger"
)

type Handler struct {
	librarySvc LibraryService
	tokens     md.TokenResolver
	cfg        config.HTTPServer
	log        *zap.Logger
}

func New(librarySvc LibraryService, tokens md.TokenResolver, cfg config.HTTPServer, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		tokens:     tokens,
		cfg:        cfg,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const baseRPS = 10
	apiRPS := rate.Limit(h.cfg.RateLimit)
	if apiRPS <= 0 {
		apiRPS = rate.Inf
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	origins := h.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)

	authed := api.Group("", md.JwtAuthentication(h.tokens))
	authed.GET("/auth/me", h.Me)

	authed.POST("/borrows/request", h.RequestBorrow)
	authed.GET("/borrows/status", h.GetStatus)
	authed.GET("/borrows/user/:userId", h.ListUserBorrows)
	authed.POST("/borrows/cancel", h.CancelRequest)
	authed.POST("/borrows/return", h.SelfReturn)

	authed.POST("/books", h.CreateBook, md.RequireAdmin)
	authed.PUT("/books/:bookId", h.UpdateBook, md.RequireAdmin)
	authed.PATCH("/books/:bookId/stock", h.AdjustStock, md.RequireAdmin)
	authed.DELETE("/books/:bookId", h.DeleteBook, md.RequireAdmin)

	admin := authed.Group("/admin", md.RequireAdmin)
	admin.GET("/borrows", h.AdminListAll)
	admin.POST("/borrows/:borrowId/approve", h.Approve)
	admin.POST("/borrows/:borrowId/reject", h.Reject)
	admin.POST("/borrows/:borrowId/confirm-borrow", h.ConfirmBorrow)
	admin.POST("/borrows/:borrowId/confirm-return", h.ConfirmReturn)
	admin.GET("/stats", h.Stats)
	admin.GET("/ledger", h.Ledger)

	return e
}

// Health
// @Summary liveness probe
// @Tags manage
// @Success 200 {string} string "OK"
// @Router /manage/health [get]
func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func httpError(err error) *echo.HTTPError {
	code, resp := errs.ToResponse(err)
	return echo.NewHTTPError(code, resp).SetInternal(err)
}

func identity(c echo.Context) auth.Identity {
	id, _ := auth.GetIdentity(c.Request().Context()) //nolint:errcheck
	return id
}

func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return httpError(errs.Validation("malformed body"))
	}
	if err := c.Validate(req); err != nil {
		return httpError(errs.Validation("%s", err.Error()))
	}
	return nil
}

func idParam(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, httpError(errs.Validation("%s is invalid", name))
	}
	return id, nil
}

// optionalID parses an optional positive id from the query string.
func optionalID(c echo.Context, name string) (int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, httpError(errs.Validation("%s is invalid", name))
	}
	return id, nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 0 {
			return 0, 0, httpError(errs.Validation("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 0 {
			return 0, 0, httpError(errs.Validation("size is invalid"))
		}
	}
	return page, size, nil
}
