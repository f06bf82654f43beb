package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/types"
)

func javaClassifier(t *testing.T) *Classifier {
	t.Helper()
	r, err := knowledge.Load(types.VariantJava)
	require.NoError(t, err)
	return New(r)
}

func webClassifier(t *testing.T) *Classifier {
	t.Helper()
	r, err := knowledge.Load(types.VariantJavaWeb)
	require.NoError(t, err)
	return New(r)
}

func TestClassify_Sentinel(t *testing.T) {
	c := javaClassifier(t)

	inputs := [][]string{
		{"无"},
		{""},
		{"  无  "},
		{"none"},
		{"无", "无"},
		{"", "无"},
		{},
	}

	for _, in := range inputs {
		assert.True(t, c.Classify(in...).Empty(), "input %q", in)
		assert.Nil(t, c.Matches(in...), "input %q", in)
	}
}

func TestClassify_MultipleCategories(t *testing.T) {
	c := javaClassifier(t)

	got := c.Classify("[3]: 数组越界; [7]: 参数类型不匹配, 期望int")

	want := []string{"array-out-of-bounds", "parameter-type-mismatch"}
	if diff := cmp.Diff(want, got.Strings()); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_RegistryOrder(t *testing.T) {
	c := javaClassifier(t)

	// mentioned in reverse registry order
	got := c.Classify("参数类型不匹配；多余大括号；数组越界")

	assert.Equal(t, []knowledge.Category{"array-out-of-bounds", "extra-brace", "parameter-type-mismatch"}, got.Categories())
}

func TestClassify_SharedKeywordMatchesBothCategories(t *testing.T) {
	c := javaClassifier(t)

	got := c.Classify("[6]：缺少分号")

	assert.True(t, got.Contains("missing-semicolon"))
	assert.True(t, got.Contains("for-loop-syntax"))
	assert.Equal(t, 2, got.Len())
}

func TestClassify_SubstringMatchesInsideWords(t *testing.T) {
	c := javaClassifier(t)

	// "system" occurs inside "filesystem"; accepted false positive.
	got := c.Classify("the filesystem is fine")
	assert.True(t, got.Contains("system-class-case"))

	// "If" inside a longer word.
	got = c.Classify("Iffy wording")
	assert.True(t, got.Contains("keyword-case"))
}

func TestClassify_CaseSensitive(t *testing.T) {
	c := javaClassifier(t)

	assert.True(t, c.Classify("ARRAYINDEXOUTOFBOUNDS").Empty())
	assert.True(t, c.Classify("ArrayIndexOutOfBoundsException").Contains("array-out-of-bounds"))
}

func TestClassify_SentinelFieldsAreSkipped(t *testing.T) {
	c := javaClassifier(t)

	got := c.Classify("无", "[5]：变量未初始化")

	assert.Equal(t, []string{"uninitialized-variable"}, got.Strings())
}

func TestClassify_JoinedTexts(t *testing.T) {
	c := javaClassifier(t)

	got := c.Classify("[2]：死循环", "[4]：方法嵌套")

	assert.Equal(t, []string{"infinite-loop", "nested-method"}, got.Strings())
}

func TestClassify_KeywordSoundness(t *testing.T) {
	for _, c := range []*Classifier{javaClassifier(t), webClassifier(t)} {
		for _, e := range c.Registry().Entries() {
			for _, kw := range e.Keywords {
				text := "[9]：" + kw + " 详见说明"
				assert.True(t, c.Classify(text).Contains(e.ID), "keyword %q should trigger %s", kw, e.ID)
			}
		}
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := javaClassifier(t)
	text := "[6]：for循环语法错误，缺少更新表达式，i不递增会导致死循环"

	first := c.Classify(text)
	second := c.Classify(text)

	assert.Equal(t, first.Categories(), second.Categories())
}

func TestClassify_JavaWeb(t *testing.T) {
	c := webClassifier(t)

	errorList := `1. [9]【缺少@WebServlet注解】：StudentServlet 没有@WebServlet
2. [11]【doGet/doPost缺少异常声明】：doGet缺少异常声明
3. [13]【响应未设置UTF-8字符集】：未设置字符集，中文乱码`

	got := c.Classify(errorList)

	want := []string{"servlet-missing-annotation", "servlet-missing-throws", "response-missing-charset"}
	if diff := cmp.Diff(want, got.Strings()); diff != "" {
		t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_NoMatch(t *testing.T) {
	c := webClassifier(t)

	assert.True(t, c.Classify("代码结构良好").Empty())
}

func TestMatches(t *testing.T) {
	c := javaClassifier(t)

	matches := c.Matches("[6]：缺少更新表达式，i++ 缺失")

	want := []Match{
		{Category: "for-loop-syntax", Keywords: []string{"缺少更新表达式", "i++"}},
	}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("Matches() mismatch (-want +got):\n%s", diff)
	}
}
