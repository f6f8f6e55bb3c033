package alerts

import (
	"context"
	"fmt"
	"time"

	alertDomain "fx-alert-hub/internal/domain/alert"

	"github.com/shopspring/decimal"
)

// Filter 列表查詢條件。
type Filter struct {
	Status alertDomain.Status
}

// Repository 管理警報存取。核心監控引擎另以 monitor.AlertStore
// 取用其中的最小子集。
type Repository interface {
	List(ctx context.Context, filter Filter) ([]alertDomain.Alert, error)
	Create(ctx context.Context, a alertDomain.Alert) (alertDomain.Alert, error)
	UpdateStatus(ctx context.Context, id int64, status alertDomain.Status, triggeredAt *time.Time) error
	Delete(ctx context.Context, id int64) error
}

// Service 封裝儀表板的警報 CRUD。
type Service struct {
	repo Repository
}

// NewService 建立警報服務。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput 建立警報的輸入。Threshold 以字串收入，於此解析為 decimal，
// 避免 float 經手價位。
type CreateInput struct {
	Symbol    string
	TVSymbol  string
	APISymbol string
	Category  string
	Note      string
	Threshold string
	Direction string
	ExpiresAt *time.Time
}

// Create 驗證並建立一筆 active 警報。
func (s *Service) Create(ctx context.Context, in CreateInput) (alertDomain.Alert, error) {
	threshold, err := decimal.NewFromString(in.Threshold)
	if err != nil {
		return alertDomain.Alert{}, fmt.Errorf("invalid threshold %q: %w", in.Threshold, err)
	}
	a := alertDomain.Alert{
		Symbol:    in.Symbol,
		TVSymbol:  in.TVSymbol,
		APISymbol: in.APISymbol,
		Category:  alertDomain.Category(in.Category),
		Note:      in.Note,
		Threshold: threshold,
		Direction: alertDomain.Direction(in.Direction),
		Status:    alertDomain.StatusActive,
		ExpiresAt: in.ExpiresAt,
	}
	if err := a.Validate(); err != nil {
		return alertDomain.Alert{}, err
	}
	return s.repo.Create(ctx, a)
}

// List 列出警報，status 為空字串時回傳全部。
func (s *Service) List(ctx context.Context, status string) ([]alertDomain.Alert, error) {
	return s.repo.List(ctx, Filter{Status: alertDomain.Status(status)})
}

// UpdateStatus 更新警報狀態。引擎以外的轉移僅允許 expired 與
// 後台手動補寫 triggered。
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string, triggeredAt *time.Time) error {
	switch alertDomain.Status(status) {
	case alertDomain.StatusActive, alertDomain.StatusTriggered, alertDomain.StatusExpired:
	default:
		return fmt.Errorf("unsupported status: %s", status)
	}
	return s.repo.UpdateStatus(ctx, id, alertDomain.Status(status), triggeredAt)
}

// Delete 刪除警報。
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
