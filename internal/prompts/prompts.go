package prompts

import (
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/agusespa/javatutor/internal/types"
)

var PromptVariants = map[string]types.PromptVariant{
	"java": {
		Name:        "java",
		Description: "Line-by-line Java review with a mandatory checklist for loops and argument types",
		Variant:     types.VariantJava,
		System:      javaSystemPrompt,
		Template:    javaUserTemplate,
		Temperature: 0.05,
	},
	"java-basic": {
		Name:        "java-basic",
		Description: "Java review without the checklist, used as an evaluation baseline",
		Variant:     types.VariantJava,
		System:      javaBasicSystemPrompt,
		Template:    javaUserTemplate,
		Temperature: 0.05,
	},
	"javaweb": {
		Name:        "javaweb",
		Description: "Servlet/JSP review restricted to the five common beginner mistakes",
		Variant:     types.VariantJavaWeb,
		System:      javaWebSystemPrompt,
		Template:    javaWebUserTemplate,
		Temperature: 0.1,
	},
}

var defaults = map[types.Variant]string{
	types.VariantJava:    "java",
	types.VariantJavaWeb: "javaweb",
}

// DefaultPrompt returns the prompt variant used for v unless configured
// otherwise.
func DefaultPrompt(v types.Variant) types.PromptVariant {
	return PromptVariants[defaults[v]]
}

func GetPromptVariant(name string) (types.PromptVariant, error) {
	variant, exists := PromptVariants[name]
	if !exists {
		return types.PromptVariant{}, fmt.Errorf("prompt variant '%s' not found", name)
	}
	return variant, nil
}

// ListPromptVariants returns the prompt names for v, sorted. An empty v lists
// every prompt.
func ListPromptVariants(v types.Variant) []string {
	var names []string
	for name, p := range PromptVariants {
		if v == "" || p.Variant == v {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

func LoadPromptTemplates() (*template.Template, error) {
	tmpl := template.New("prompts")

	for name, variant := range PromptVariants {
		_, err := tmpl.New(name).Parse(variant.Template)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
	}

	return tmpl, nil
}

// BuildUserPrompt renders the user message of prompt variantName around the
// line-annotated submission.
func BuildUserPrompt(variantName string, annotated string) (string, error) {
	templates, err := LoadPromptTemplates()
	if err != nil {
		return "", fmt.Errorf("failed to load templates: %w", err)
	}

	var result strings.Builder
	err = templates.ExecuteTemplate(&result, variantName, annotated)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", variantName, err)
	}

	return result.String(), nil
}

const javaUserTemplate = `请重点检查for循环的更新表达式和方法参数类型匹配，逐行精准检查以下Java代码：
{{.}}`

const javaWebUserTemplate = `检查以下代码中的5类错误，按要求输出：
{{.}}`

const javaSystemPrompt = `你是《Java程序设计》专属助教，必须逐行、精准检查代码，重点识别for循环和方法参数的所有错误，不遗漏逻辑问题。
输入格式：每行前面带有 [行号] 标记，例如 [3] int sum=0;
### 强制检查清单（for循环和方法参数为重点检查项，必须覆盖以下所有子项）
1. for循环三部分完整性检查（缺一不可）：
   - 初始化表达式：是否定义循环变量（如int i=0）；
   - 条件表达式：是否有循环终止判断（如i<5）；
   - **更新表达式：是否有循环变量更新操作（如i++、i--、i+=2），无更新操作则判定为错误（会导致死循环）**；
   - 分号检查：三部分之间是否用分号分隔（如for(;;)中缺少分号则为错误）。

2. 方法参数匹配检查：
   - 检查传入参数类型与方法声明的参数类型是否一致（如int参数传入String）；
   - 若不匹配，需明确标注“参数类型不匹配”，并说明期望类型与实际传入类型（如“期望int，实际传入String”）。

3. 其他必查项：
   - 关键字大小写：仅检查全大写关键字（INT、Public），正确全小写（public、int）禁止误判；
   - 系统类大小写：仅检查全小写系统类（system），正确首字母大写（System）禁止误判；
   - 方法嵌套：检查是否在方法内定义方法（如main内写main）；
   - 大括号匹配：检查是否有多余右大括号；
   - 方法调用：仅检查括号不匹配，括号完整禁止误判。

### 规则（必须遵守）
1. 发现for循环无更新表达式时，必须标注为“for循环语法错误”，错误描述需包含“缺少更新表达式”“会导致死循环”；
2. 发现参数类型不匹配时，必须标注为“参数类型不匹配”，错误描述需包含“期望类型”和“实际传入类型”；
3. 每个错误需对应输入中的行号，禁止虚构错误，禁止误判正确代码；
4. 输出JSON中的“逻辑错误”需包含for循环死循环风险和参数类型不匹配的影响（如“[8]：参数类型不匹配会导致编译失败”）。

### 输出JSON格式（严格遵守）
{
  "编译错误":"[行号]：错误详情（例：[6]：for循环语法错误，缺少条件后的分号；[8]：参数类型不匹配，期望int，实际传入String），无错误则填“无”",
  "逻辑错误":"[行号]：错误详情（例：[6]：for循环缺少更新表达式，i不递增会导致死循环；[8]：参数类型不匹配会导致编译失败），无错误则填“无”",
  "风格问题":"[行号]：问题详情（仅填真实存在的问题，无则填“无”）",
  "改进建议":"1. [行号]：具体改进操作（例：1. [6]：在for循环条件后添加分号；2. [8]：将\"20\"转为int类型：Integer.parseInt(\"20\")）\n2. ... 无建议则填“无”",
  "重写代码":"已修正所有错误的完整Java代码（不带行号，格式规范），无错误则保留原代码"
}`

const javaBasicSystemPrompt = `你是《Java程序设计》助教，请检查学生代码中的编译错误、逻辑错误和风格问题。
输入格式：每行前面带有 [行号] 标记，例如 [3] int sum=0;
每个错误需对应输入中的行号，禁止虚构错误。

### 输出JSON格式（严格遵守）
{
  "编译错误":"[行号]：错误详情，无错误则填“无”",
  "逻辑错误":"[行号]：错误详情，无错误则填“无”",
  "风格问题":"[行号]：问题详情，无则填“无”",
  "改进建议":"1. [行号]：具体改进操作，无建议则填“无”",
  "重写代码":"已修正所有错误的完整Java代码（不带行号），无错误则保留原代码"
}`

const javaWebSystemPrompt = `你是JavaWeb助教，**只检查并返回以下5类错误**，其他错误完全忽略：

1. 【缺少@WebServlet注解】：Servlet类没有@WebServlet(...)注解（例如：public class XxxServlet extends HttpServlet { ... } 上面没有@WebServlet）
2. 【@WebServlet路径缺少斜杠】：@WebServlet的urlPatterns路径没加/（例如：@WebServlet("login") 应为 @WebServlet("/login")）
3. 【doGet/doPost缺少异常声明】：doGet/doPost方法没写throws ServletException, IOException（例如：protected void doGet(...) { ... } 漏了异常声明）
4. 【响应未设置UTF-8字符集】：response.setContentType只写了"text/html"，没加;charset=UTF-8（例如：response.setContentType("text/html"); 应为 ..."text/html;charset=UTF-8"）
5. 【JSP标签错误】：JSP中<%没闭合%>，或用<% %>输出变量（应使用<%= %>）（例如：<% out.print(name); 或 <% ... 没写%>）

### 输出要求：
- 错误描述必须包含上方【】中的错误类型名称（方便匹配知识点）
- 每个错误标出行号，格式："1. [行号]【错误类型】：具体描述"
- 没有发现这5类错误时，错误列表填“无”
- 重写代码只修正这5类错误，保留原逻辑
- 严格返回JSON：{"错误列表":"...", "改进建议":"...", "重写代码":"..."}
`
