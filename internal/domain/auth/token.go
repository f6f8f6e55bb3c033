package auth

import "time"

// Token 封裝簽發後的 access token。儀表板為單頁工具，不使用 refresh token。
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
