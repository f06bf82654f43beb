package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/utils"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		prefix string
	}{
		{"nil", nil, ""},
		{"overloaded", &diagnose.EngineOverloadedError{Attempts: 3, Last: errors.New("529")}, diagnose.OverloadedMessage},
		{"canceled", fmt.Errorf("wrapped: %w", context.Canceled), "检查已取消"},
		{"deadline", context.DeadlineExceeded, "请求超时"},
		{"malformed", fmt.Errorf("failed to parse model response: %w", &utils.MalformedResponseError{Reason: "no object"}), "模型返回的内容无法解析"},
		{"service", &diagnose.ServiceError{Err: errors.New("status 401")}, "调用诊断服务失败：status 401"},
		{"other", errors.New("boom"), "检查失败：boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ErrorMessage(tt.err)
			assert.True(t, strings.HasPrefix(got, tt.prefix), "got %q", got)
			if tt.err == nil {
				assert.Empty(t, got)
			}
		})
	}
}
