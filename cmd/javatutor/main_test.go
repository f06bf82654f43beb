package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/javatutor/internal/diagnose"
	"github.com/agusespa/javatutor/internal/render"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/pkg/config"
	"github.com/agusespa/javatutor/pkg/spinner"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestAnnotateCommand(t *testing.T) {
	out, err := execute(t, "int a;\nint b;", "annotate", "-")
	require.NoError(t, err)
	assert.Equal(t, "[1] int a;\n[2] int b;\n", out)
}

func TestCategoriesCommand(t *testing.T) {
	out, err := execute(t, "", "categories", "--variant", "java")
	require.NoError(t, err)
	assert.Contains(t, out, "array-out-of-bounds")
	assert.Contains(t, out, "数组越界")
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "", "classify", "--variant", "java", "[3]: 数组越界")
	require.NoError(t, err)
	assert.Contains(t, out, "array-out-of-bounds")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "javatutor version dev\n", out)
}

func TestCheckMissingCredential(t *testing.T) {
	t.Setenv("JAVATUTOR_TEST_MISSING_KEY", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[llm]\napi_key_env = \"JAVATUTOR_TEST_MISSING_KEY\"\nenv_file = %q\n", filepath.Join(dir, "missing.env"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	_, err := execute(t, "public class A {}", "--config", cfgPath, "check", "-")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingCredential)
	assert.True(t, strings.HasPrefix(errorMessage(err), "未找到 API 密钥"))
}

func TestLoadConfig(t *testing.T) {
	c, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultModel, c.LLM.Model)

	_, err = loadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestResolveVariant(t *testing.T) {
	cfg = config.Defaults()

	v, err := resolveVariant("", "Main.java", "class A {}")
	require.NoError(t, err)
	assert.Equal(t, types.VariantJava, v)

	v, err = resolveVariant("auto", "index.jsp", "")
	require.NoError(t, err)
	assert.Equal(t, types.VariantJavaWeb, v)

	v, err = resolveVariant("javaweb", "", "")
	require.NoError(t, err)
	assert.Equal(t, types.VariantJavaWeb, v)

	_, err = resolveVariant("python", "", "")
	assert.Error(t, err)
}

func TestErrorMessage(t *testing.T) {
	err := &diagnose.EngineOverloadedError{Attempts: 3, Last: errors.New("529")}
	assert.Equal(t, diagnose.OverloadedMessage, errorMessage(err))
}

func TestRetryNotifier(t *testing.T) {
	notice := diagnose.RetryNotice{Attempt: 1, MaxAttempts: 3, Wait: 2500 * time.Millisecond}

	var spinOut, statusOut bytes.Buffer
	sp := spinner.New(&spinOut, "正在检查代码...")
	notify := retryNotifier(sp, render.NewStatus(&statusOut))

	notify(notice)
	assert.Contains(t, statusOut.String(), "引擎过载，2.5 秒后重试（1/3）...")
	assert.Empty(t, spinOut.String())

	statusOut.Reset()
	sp.Start()
	notify(notice)
	sp.Stop()

	assert.Empty(t, statusOut.String())
	assert.Contains(t, spinOut.String(), "⚠️ 引擎过载，2.5 秒后重试（1/3）...\n")
}
