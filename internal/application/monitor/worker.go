package monitor

import (
	"context"
	"errors"
	"log"
	"time"
)

// Worker 依固定間隔執行監控週期。引擎本身無狀態，
// 重疊或外部觸發的輪次由資料庫的狀態轉移自行收斂。
type Worker struct {
	engine   *Engine
	interval time.Duration
	stopChan chan struct{}
}

// NewWorker 建立背景監控工作者。
func NewWorker(engine *Engine, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Worker{
		engine:   engine,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start 啟動迴圈。
func (w *Worker) Start() {
	log.Printf("[Monitor] starting alert monitor with interval: %v", w.interval)
	ticker := time.NewTicker(w.interval)
	go func() {
		// 啟動後立即執行一次
		w.runOnce()

		for {
			select {
			case <-ticker.C:
				w.runOnce()
			case <-w.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop 停止迴圈。
func (w *Worker) Stop() {
	close(w.stopChan)
}

func (w *Worker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	outcomes, err := w.engine.Run(ctx)
	switch {
	case errors.Is(err, ErrStoreUnavailable):
		log.Printf("[Monitor] cycle aborted, alert store unreachable: %v", err)
		return
	case errors.Is(err, ErrFeedUnavailable):
		log.Printf("[Monitor] price feed unavailable, %d alerts skipped this cycle: %v", len(outcomes), err)
		return
	case err != nil:
		log.Printf("[Monitor] cycle interrupted: %v", err)
		return
	}

	triggered, notified := 0, 0
	for _, out := range outcomes {
		if out.Matched {
			triggered++
		}
		if out.Notified {
			notified++
		}
		if out.ErrorKind == KindNotificationFailed {
			log.Printf("[Monitor] notification failed alert_id=%d symbol=%s", out.AlertID, out.Symbol)
		}
	}
	if len(outcomes) > 0 {
		log.Printf("[Monitor] cycle done alerts=%d triggered=%d notified=%d", len(outcomes), triggered, notified)
	}
}
