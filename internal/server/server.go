// Package server exposes the storefront payment API over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/config"
	"github.com/dokimion24/payment/internal/domain"
	"github.com/dokimion24/payment/internal/metrics"
	"github.com/dokimion24/payment/internal/payment"
	"github.com/dokimion24/payment/internal/store"
	"github.com/dokimion24/payment/internal/usecase"
)

type Server struct {
	cfg      config.Config
	orders   *usecase.OrderService
	payments *usecase.PaymentService
	factory  *payment.Factory
	metrics  *metrics.Metrics
	router   *gin.Engine
}

func New(cfg config.Config, st *store.Store, f *payment.Factory, m *metrics.Metrics) *Server {
	s := &Server{
		cfg:      cfg,
		orders:   &usecase.OrderService{Repo: st, Factory: f},
		payments: &usecase.PaymentService{Repo: st, Factory: f},
		factory:  f,
		metrics:  m,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	if s.cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.cors(), s.observe())

	api := r.Group("/api")
	api.POST("/orders", s.handleCreateOrder)

	pay := api.Group("/payment")
	pay.POST("/confirm", s.handleTossConfirm)
	pay.POST("/paypal", s.handlePayPalConfirm)
	pay.POST("/cancel", s.handleCancel)
	pay.GET("/providers", s.handleProviders)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router = r
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) Run(addr string) error { return s.router.Run(addr) }

func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		handler := c.FullPath()
		if handler == "" {
			handler = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.Requests.WithLabelValues(handler, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
		slog.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("elapsed", elapsed))
	}
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req usecase.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
		return
	}

	created, fieldErrs, err := s.orders.Create(req)
	if err != nil {
		slog.Error("order creation failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "order creation server error"})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": joinMessages(fieldErrs)})
		return
	}

	s.metrics.OrdersCreated.Inc()
	resp := gin.H{"orderId": created.Order.OrderID, "status": created.Order.Status}
	if created.CheckoutURL != "" {
		resp["checkoutUrl"] = created.CheckoutURL
	}
	c.JSON(http.StatusCreated, resp)
}

type tossConfirmBody struct {
	PaymentKey string          `json:"paymentKey"`
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
}

func (s *Server) handleTossConfirm(c *gin.Context) {
	var body tossConfirmBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
		return
	}
	var errs []string
	if body.PaymentKey == "" {
		errs = append(errs, "paymentKey is required")
	}
	if body.OrderID == "" {
		errs = append(errs, "orderId is required")
	}
	if !body.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than 0")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": joinMessages(errs)})
		return
	}

	res, err := s.payments.Confirm(c.Request.Context(), usecase.ConfirmRequest{
		OrderID:    body.OrderID,
		PaymentKey: body.PaymentKey,
		Provider:   domain.ProviderToss,
		Amount:     body.Amount,
		HasAmount:  true,
	})
	s.countPayment(domain.ProviderToss, err)
	if err != nil {
		s.confirmError(c, err, res)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":     body.OrderID,
		"totalAmount": res.TotalAmount,
		"method":      res.Method,
		"status":      res.GatewayStatus,
		"approvedAt":  res.ApprovedAt,
	})
}

type paypalConfirmBody struct {
	OrderID  string `json:"orderId"`
	Status   string `json:"status"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Payer    any    `json:"payer"`
}

func (s *Server) handlePayPalConfirm(c *gin.Context) {
	var body paypalConfirmBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
		return
	}
	var errs []string
	if body.OrderID == "" {
		errs = append(errs, "orderId is required")
	}
	if body.Status == "" {
		errs = append(errs, "status is required")
	}
	req := usecase.ConfirmRequest{
		OrderID:    body.OrderID,
		PaymentKey: body.OrderID,
		Provider:   domain.ProviderPayPal,
		Currency:   body.Currency,
	}
	if body.Amount != "" {
		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			errs = append(errs, "amount must be a valid number")
		} else {
			req.Amount = amount
			req.HasAmount = true
		}
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": joinMessages(errs)})
		return
	}

	res, err := s.payments.Confirm(c.Request.Context(), req)
	s.countPayment(domain.ProviderPayPal, err)
	if err != nil {
		s.confirmError(c, err, res)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": body.OrderID,
		"status":  body.Status,
	})
}

type cancelBody struct {
	OrderID       string              `json:"orderId"`
	Provider      domain.ProviderType `json:"provider"`
	TransactionID string              `json:"transactionId"`
}

func (s *Server) handleCancel(c *gin.Context) {
	var body cancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json body"})
		return
	}
	var errs []string
	if body.OrderID == "" {
		errs = append(errs, "orderId is required")
	}
	if body.Provider == "" {
		errs = append(errs, "provider is required")
	}
	if body.TransactionID == "" {
		errs = append(errs, "transactionId is required")
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": joinMessages(errs)})
		return
	}

	res, err := s.payments.Cancel(c.Request.Context(), body.OrderID, body.Provider, body.TransactionID)
	if err != nil {
		s.confirmError(c, err, res)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orderId": body.OrderID,
		"status":  domain.OrderCancelled,
	})
}

func (s *Server) handleProviders(c *gin.Context) {
	country := c.Query("country")
	if country == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "country is required"})
		return
	}
	businessType := domain.BusinessType(c.DefaultQuery("businessType", string(domain.BusinessNone)))
	if !businessType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "businessType must be one of NONE, INDIVIDUAL, CORPORATE"})
		return
	}

	pctx := domain.PaymentContext{Country: country, BusinessType: businessType}
	providers := s.factory.AvailableProviders(pctx)
	out := make([]gin.H, 0, len(providers))
	for _, p := range providers {
		ad, err := s.factory.Adapter(p)
		if err != nil {
			slog.Error("provider registry incomplete", slog.Any("error", err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "provider lookup server error"})
			return
		}
		out = append(out, gin.H{"provider": p, "name": ad.Name()})
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}

// confirmError maps protocol failures onto the HTTP taxonomy: unknown order
// 404, conflicts and gateway rejections 400, everything else (transport,
// registry faults) a generic 500.
func (s *Server) confirmError(c *gin.Context, err error, res domain.PaymentResult) {
	var notFound usecase.ErrNotFound
	var conflict usecase.ErrConflict
	var badReq usecase.ErrBadRequest
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.As(err, &badReq):
		resp := gin.H{"message": err.Error()}
		if res.Code != "" {
			resp["code"] = res.Code
		}
		c.JSON(http.StatusBadRequest, resp)
	default:
		slog.Error("payment request failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "payment server error"})
	}
}

func (s *Server) countPayment(provider domain.ProviderType, err error) {
	outcome := "approved"
	if err != nil {
		var badReq usecase.ErrBadRequest
		var conflict usecase.ErrConflict
		var notFound usecase.ErrNotFound
		switch {
		case errors.As(err, &badReq), errors.As(err, &conflict), errors.As(err, &notFound):
			outcome = "rejected"
		default:
			outcome = "error"
		}
	}
	s.metrics.Payments.WithLabelValues(string(provider), outcome).Inc()
}

func joinMessages(msgs []string) string {
	return strings.Join(msgs, ", ")
}
