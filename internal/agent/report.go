package agent

import (
	"fmt"
	"strings"

	"github.com/agusespa/javatutor/internal/classify"
	"github.com/agusespa/javatutor/internal/knowledge"
	"github.com/agusespa/javatutor/internal/tools"
	"github.com/agusespa/javatutor/internal/types"
	"github.com/agusespa/javatutor/internal/utils"
)

const DefaultReportFile = "javatutor_report.md"

var sectionIcons = map[types.Field]string{
	types.FieldCompileErrors: "📄",
	types.FieldLogicErrors:   "🧠",
	types.FieldStyleIssues:   "✨",
	types.FieldErrorList:     "🔍",
}

// Presenter turns check results into markdown using one variant's knowledge
// table.
type Presenter struct {
	registry *knowledge.Registry
}

func NewPresenter(registry *knowledge.Registry) *Presenter {
	return &Presenter{registry: registry}
}

// Knowledge renders the explanation of every category in result, in registry
// order. With no categories it returns the table's clean or unmatched
// message. A category unknown to the registry panics.
func (p *Presenter) Knowledge(result classify.Result, clean bool) string {
	if result.Empty() {
		if clean {
			return p.registry.Messages().Clean
		}
		return p.registry.Messages().Unmatched
	}

	var b strings.Builder
	for i, c := range result.Categories() {
		entry := p.registry.Lookup(c)
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(fmt.Sprintf("### %s\n\n", entry.Title))
		b.WriteString(strings.TrimRight(entry.Body, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// Summary is a one-line outcome for status output.
func (p *Presenter) Summary(res *CheckResult) string {
	switch {
	case res.Degenerate:
		return "提交的代码为空，未调用模型"
	case res.Categories.Empty() && res.Clean():
		return "未发现错误"
	case res.Categories.Empty():
		return "发现问题，但没有匹配的知识点"
	}

	titles := make([]string, 0, res.Categories.Len())
	for _, c := range res.Categories.Categories() {
		titles = append(titles, p.registry.Lookup(c).Name)
	}
	return fmt.Sprintf("发现 %d 类常见错误：%s", len(titles), strings.Join(titles, "、"))
}

// Markdown renders the full report of res.
func (p *Presenter) Markdown(res *CheckResult) (string, error) {
	schema := types.SchemaFor(res.Variant)
	clean := res.Clean()

	var b strings.Builder
	b.WriteString("# 代码检查报告\n\n")
	b.WriteString(fmt.Sprintf("> 变体: `%s` · 模型: `%s` · 请求: `%s`\n\n", res.Variant, res.Model, res.RequestID))

	b.WriteString("## 📋 分项诊断\n\n")
	if clean && p.registry.Messages().Passed != "" {
		b.WriteString("✅ " + p.registry.Messages().Passed + "\n\n")
	}
	for _, f := range schema.Sections {
		b.WriteString(fmt.Sprintf("### %s %s\n\n", sectionIcons[f], f))
		b.WriteString(p.section(f, res.Report.Get(f)))
		b.WriteString("\n\n")
	}

	b.WriteString("## 🔧 改进建议\n\n")
	b.WriteString(strings.TrimSpace(res.Report.Suggestions))
	b.WriteString("\n\n")

	b.WriteString("## ✅ 修正后代码\n\n")
	b.WriteString("```java\n")
	b.WriteString(strings.TrimRight(res.FixedCode(), "\n"))
	b.WriteString("\n```\n\n")

	fd := res.Diff()
	changes, err := utils.FormatRewriteDiff(fd)
	if err != nil {
		return "", fmt.Errorf("failed to format rewrite diff: %w", err)
	}
	b.WriteString("## 📝 代码改动\n\n")
	if changes == "" {
		b.WriteString("重写代码与原代码一致。\n\n")
	} else {
		added, removed := utils.DiffStat(fd)
		b.WriteString(fmt.Sprintf("新增 %d 行，删除 %d 行，涉及修正后代码%s：\n\n", added, removed, lineRanges(utils.ChangedLines(fd))))
		b.WriteString("```diff\n")
		b.WriteString(strings.TrimRight(changes, "\n"))
		b.WriteString("\n```\n\n")
	}

	b.WriteString("## 📚 相关知识点讲解\n\n")
	b.WriteString(p.Knowledge(res.Categories, clean))
	b.WriteString("\n")

	return b.String(), nil
}

// lineRanges lists the hunk ranges, context lines included.
func lineRanges(ranges []utils.LineRange) string {
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		if r.Count <= 1 {
			parts = append(parts, fmt.Sprintf("第 %d 行", r.Start))
		} else {
			parts = append(parts, fmt.Sprintf("第 %d-%d 行", r.Start, r.Start+r.Count-1))
		}
	}
	return strings.Join(parts, "、")
}

func (p *Presenter) section(f types.Field, text string) string {
	if f != types.FieldErrorList || types.IsSentinel(text) {
		return strings.TrimSpace(text)
	}

	items := utils.SplitErrorList(text)
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func WriteReport(writeTool tools.Tool, filename, markdown string) error {
	_, err := writeTool.Execute(map[string]any{
		"filename": filename,
		"content":  markdown,
	})
	if err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	return nil
}
