package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials 表示缺少 API 凭证，应在任何网络调用之前终止。
	ErrMissingCredentials = errors.New("exchange: 缺少 API 凭证，请设置 BINANCE_API_KEY 与 BINANCE_API_SECRET")
)

// APIError 表示交易所返回的业务错误（非 2xx 响应）。
// 限频与拒单对当次调用都是终态，不做自动重试。
type APIError struct {
	HTTPStatus int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("exchange: 交易所拒绝请求 http=%d code=%d msg=%q", e.HTTPStatus, e.Code, e.Message)
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{HTTPStatus: status}

	var payload struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Msg
	}
	if apiErr.Message == "" {
		apiErr.Message = string(body)
	}

	return apiErr
}
