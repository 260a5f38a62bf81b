package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ticker-service/internal/application"
	"ticker-service/internal/domain"
	"ticker-service/internal/infrastructure/logx"

	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const staleWarning = `110 - "Response is Stale"`

type Server struct {
	svc *application.TickerService
}

func NewServer(svc *application.TickerService) *Server { return &Server{svc: svc} }

type tickerResponse struct {
	Pair                string          `json:"pair"`
	Last                decimal.Decimal `json:"last"`
	LowestAsk           decimal.Decimal `json:"lowestAsk"`
	HighestBid          decimal.Decimal `json:"highestBid"`
	PercentChange       decimal.Decimal `json:"percentChange"`
	BaseVolume          decimal.Decimal `json:"baseVolume"`
	QuoteVolume         decimal.Decimal `json:"quoteVolume"`
	IsFrozen            bool            `json:"isFrozen"`
	High24hr            decimal.Decimal `json:"high24hr"`
	Low24hr             decimal.Decimal `json:"low24hr"`
	ObservedAt          time.Time       `json:"observedAt"`
	AgeMs               int64           `json:"ageMs"`
	Stale               bool            `json:"stale"`
	ConsecutiveFailures int             `json:"consecutiveFailures"`
}

func toResponse(q domain.TickerQuote) tickerResponse {
	t := q.Ticker
	return tickerResponse{
		Pair:                string(t.Pair),
		Last:                t.Last,
		LowestAsk:           t.LowestAsk,
		HighestBid:          t.HighestBid,
		PercentChange:       t.PercentChange,
		BaseVolume:          t.BaseVolume,
		QuoteVolume:         t.QuoteVolume,
		IsFrozen:            t.Frozen,
		High24hr:            t.High24h,
		Low24hr:             t.Low24h,
		ObservedAt:          t.ObservedAt,
		AgeMs:               q.Age.Milliseconds(),
		Stale:               q.Stale,
		ConsecutiveFailures: q.ConsecutiveFailures,
	}
}

// GetTickerParams are the query parameters of GET /poloniex/tickers.
type GetTickerParams struct {
	TradingPair string `form:"tradingPair" json:"tradingPair"`
}

func bindGetTickerParams(r *http.Request) (GetTickerParams, error) {
	var params GetTickerParams
	err := runtime.BindQueryParameter("form", true, true, "tradingPair", r.URL.Query(), &params.TradingPair)
	if err != nil {
		return params, fmt.Errorf("invalid format for parameter tradingPair: %w", err)
	}
	if params.TradingPair == "" {
		return params, errors.New("query parameter 'tradingPair' must not be empty")
	}
	return params, nil
}

// GetTicker serves GET /poloniex/tickers?tradingPair=.
func (s *Server) GetTicker(w http.ResponseWriter, r *http.Request) {
	params, err := bindGetTickerParams(r)
	if err != nil {
		paramError(w, err)
		return
	}
	raw := params.TradingPair
	q, err := s.svc.GetTickerValue(r.Context(), raw)
	switch {
	case errors.Is(err, domain.ErrInvalidPair):
		badRequest(w, "unknown trading pair: "+raw)
		return
	case errors.Is(err, domain.ErrNoDataYet):
		writeError(w, http.StatusServiceUnavailable, "no data yet for "+raw)
		return
	case err != nil:
		logx.WithFields(r.Context()).Error("get_ticker_failed", zap.Error(err))
		internalError(w)
		return
	}
	w.Header().Set("X-Ticker-Age-Ms", strconv.FormatInt(q.Age.Milliseconds(), 10))
	if q.Stale {
		w.Header().Set("Warning", staleWarning)
		w.Header().Set("X-Ticker-Stale", "true")
	}
	writeJSON(w, http.StatusOK, toResponse(q))
}

// ListTickers serves GET /poloniex/tickers/all.
func (s *Server) ListTickers(w http.ResponseWriter, r *http.Request) {
	quotes := s.svc.Tickers(r.Context())
	out := make([]tickerResponse, 0, len(quotes))
	stale := false
	for _, q := range quotes {
		out = append(out, toResponse(q))
		stale = stale || q.Stale
	}
	if stale {
		w.Header().Set("Warning", staleWarning)
		w.Header().Set("X-Ticker-Stale", "true")
	}
	writeJSON(w, http.StatusOK, out)
}

type orderResponse struct {
	Pair        string          `json:"pair"`
	OrderNumber string          `json:"orderNumber"`
	Type        string          `json:"type"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
	Total       decimal.Decimal `json:"total"`
	Date        time.Time       `json:"date"`
}

func (s *Server) GetBalances(w http.ResponseWriter, r *http.Request) {
	b, err := s.svc.Balances(r.Context())
	if err != nil {
		s.accountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) GetOpenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.svc.OpenOrders(r.Context())
	if err != nil {
		s.accountError(w, r, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderResponse{
			Pair:        string(o.Pair),
			OrderNumber: o.OrderNumber,
			Type:        o.Type,
			Rate:        o.Rate,
			Amount:      o.Amount,
			Total:       o.Total,
			Date:        o.Date,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) accountError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, application.ErrAccountNotConfigured) {
		writeError(w, http.StatusNotImplemented, "account api not configured")
		return
	}
	logx.WithFields(r.Context()).Warn("account_call_failed", zap.Error(err))
	writeError(w, http.StatusBadGateway, "upstream account api failed")
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: msg})
}

// paramError reports a query binding failure with the JSON error envelope.
func paramError(w http.ResponseWriter, err error) {
	badRequest(w, err.Error())
}

func badRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, msg)
}

func internalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}
