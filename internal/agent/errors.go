package agent

import (
	"context"
	"errors"

	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/utils"
)

// ErrorMessage is the user-facing text for a failed check.
func ErrorMessage(err error) string {
	var service *diagnose.ServiceError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, diagnose.ErrEngineOverloaded):
		return diagnose.OverloadedMessage
	case errors.Is(err, context.Canceled):
		return "检查已取消"
	case errors.Is(err, context.DeadlineExceeded):
		return "请求超时，请稍后再试！"
	case utils.IsMalformedResponse(err):
		return "模型返回的内容无法解析，请重新检查。详情：" + err.Error()
	case errors.As(err, &service):
		return "调用诊断服务失败：" + service.Err.Error()
	}
	return "检查失败：" + err.Error()
}
