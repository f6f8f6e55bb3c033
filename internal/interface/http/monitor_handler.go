package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"fx-alert-hub/internal/application/monitor"
	alertDomain "fx-alert-hub/internal/domain/alert"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type outcomeView struct {
	AlertID   int64  `json:"alert_id"`
	Symbol    string `json:"symbol"`
	Direction string `json:"direction"`
	Threshold string `json:"threshold"`
	Price     string `json:"price,omitempty"`
	Matched   bool   `json:"matched"`
	Notified  bool   `json:"notified"`
	Error     string `json:"error,omitempty"`
}

func toOutcomeView(o monitor.Outcome) outcomeView {
	v := outcomeView{
		AlertID:   o.AlertID,
		Symbol:    o.Symbol,
		Direction: string(o.Direction),
		Threshold: o.Threshold.String(),
		Matched:   o.Matched,
		Notified:  o.Notified,
	}
	if !o.Price.IsZero() {
		v.Price = o.Price.String()
	}
	if o.ErrorKind != monitor.KindNone {
		v.Error = string(o.ErrorKind)
	}
	return v
}

// handleCheckAlerts 立即執行一輪監控，與背景排程共用同一引擎。
func (s *Server) handleCheckAlerts(c *gin.Context) {
	outcomes, err := s.checker.Run(c.Request.Context())
	views := lo.Map(outcomes, func(o monitor.Outcome, _ int) outcomeView {
		return toOutcomeView(o)
	})
	triggered := lo.CountBy(outcomes, func(o monitor.Outcome) bool { return o.Matched })

	if err != nil {
		status := http.StatusBadGateway
		code := errCodeInternal
		if errors.Is(err, monitor.ErrStoreUnavailable) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error(), "error_code": code,
			"total_alerts": len(outcomes), "triggered": triggered, "results": views})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total_alerts": len(outcomes), "triggered": triggered, "results": views})
}

// handlePrices 回傳即時報價。有 symbols 參數時查詢指定 instrument，
// 否則回傳目前 active 警報涵蓋的全部 instrument，供儀表板顯示現價欄位。
func (s *Server) handlePrices(c *gin.Context) {
	var keys []string
	if raw := c.Query("symbols"); raw != "" {
		keys = lo.Uniq(lo.Map(strings.Split(raw, ","), func(sym string, _ int) string {
			return alertDomain.NormalizeInstrument(strings.TrimSpace(sym))
		}))
	} else {
		active, err := s.alerts.List(c.Request.Context(), "active")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error(), "error_code": errCodeInternal})
			return
		}
		keys = lo.Uniq(lo.Map(active, func(a alertDomain.Alert, _ int) string {
			return a.InstrumentKey()
		}))
	}
	prices, err := s.feed.FetchPrices(c.Request.Context(), keys)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error(), "error_code": errCodeInternal})
		return
	}

	out := make(map[string]string, len(prices))
	for instrument, price := range prices {
		out[instrument] = price.String()
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "prices": out})
}
