package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fx-alert-hub/internal/application/alerts"
	alertDomain "fx-alert-hub/internal/domain/alert"

	"github.com/gin-gonic/gin"
)

type alertView struct {
	ID          int64      `json:"id"`
	Symbol      string     `json:"symbol"`
	TVSymbol    string     `json:"tv_symbol"`
	APISymbol   string     `json:"api_symbol"`
	Category    string     `json:"category"`
	Note        string     `json:"note"`
	Threshold   string     `json:"threshold"`
	Direction   string     `json:"direction"`
	Status      string     `json:"status"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	TriggeredAt *time.Time `json:"triggered_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toAlertView(a alertDomain.Alert) alertView {
	return alertView{
		ID:          a.ID,
		Symbol:      a.Symbol,
		TVSymbol:    a.TVSymbol,
		APISymbol:   a.APISymbol,
		Category:    string(a.Category),
		Note:        a.Note,
		Threshold:   a.Threshold.String(),
		Direction:   string(a.Direction),
		Status:      string(a.Status),
		ExpiresAt:   a.ExpiresAt,
		TriggeredAt: a.TriggeredAt,
		CreatedAt:   a.CreatedAt,
	}
}

func (s *Server) handleListAlerts(c *gin.Context) {
	list, err := s.alerts.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "error_code": errCodeBadRequest})
		return
	}
	views := make([]alertView, 0, len(list))
	for _, a := range list {
		views = append(views, toAlertView(a))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": views})
}

func (s *Server) handleCreateAlert(c *gin.Context) {
	var body struct {
		Symbol    string     `json:"symbol"`
		TVSymbol  string     `json:"tv_symbol"`
		APISymbol string     `json:"api_symbol"`
		Category  string     `json:"category"`
		Note      string     `json:"note"`
		Threshold string     `json:"threshold"`
		Direction string     `json:"direction"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body", "error_code": errCodeBadRequest})
		return
	}

	created, err := s.alerts.Create(c.Request.Context(), alerts.CreateInput{
		Symbol:    body.Symbol,
		TVSymbol:  body.TVSymbol,
		APISymbol: body.APISymbol,
		Category:  body.Category,
		Note:      body.Note,
		Threshold: body.Threshold,
		Direction: body.Direction,
		ExpiresAt: body.ExpiresAt,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "error_code": errCodeBadRequest})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "alert": toAlertView(created)})
}

func (s *Server) handleUpdateAlertStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id", "error_code": errCodeBadRequest})
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body", "error_code": errCodeBadRequest})
		return
	}

	if err := s.alerts.UpdateStatus(c.Request.Context(), id, body.Status, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "alert not found", "error_code": errCodeNotFound})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "error_code": errCodeBadRequest})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleDeleteAlert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id", "error_code": errCodeBadRequest})
		return
	}
	if err := s.alerts.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "alert not found", "error_code": errCodeNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error(), "error_code": errCodeInternal})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
