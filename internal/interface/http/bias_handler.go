package httpapi

import (
	"errors"
	"net/http"
	"time"

	"fx-alert-hub/internal/application/bias"
	biasDomain "fx-alert-hub/internal/domain/bias"

	"github.com/gin-gonic/gin"
)

type biasView struct {
	Symbol    string `json:"symbol"`
	Session   string `json:"session"`
	Narrative string `json:"narrative"`
	CreatedAt string `json:"created_at"`
}

func toBiasView(rec biasDomain.Record) biasView {
	return biasView{
		Symbol:    rec.Symbol,
		Session:   string(rec.Session),
		Narrative: rec.Narrative,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Server) handleGetBias(c *gin.Context) {
	if s.biasSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "bias service disabled", "error_code": errCodeBiasDisabled})
		return
	}
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "symbol is required", "error_code": errCodeBadRequest})
		return
	}

	rec, err := s.biasSvc.Get(c.Request.Context(), symbol)
	if errors.Is(err, bias.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no bias for current session", "error_code": errCodeNotFound})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error(), "error_code": errCodeInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bias": toBiasView(rec)})
}

func (s *Server) handleGenerateBias(c *gin.Context) {
	if s.biasSvc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "bias service disabled", "error_code": errCodeBiasDisabled})
		return
	}
	var body struct {
		Symbol string `json:"symbol"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "symbol is required", "error_code": errCodeBadRequest})
		return
	}

	rec, err := s.biasSvc.Generate(c.Request.Context(), body.Symbol)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error(), "error_code": errCodeInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bias": toBiasView(rec)})
}
