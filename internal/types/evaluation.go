package types

import "time"

type EvaluationConfig struct {
	Key       string   `json:"key"`
	Provider  string   `json:"provider"`
	BaseURL   string   `json:"base_url,omitempty"`
	APIKeyEnv string   `json:"api_key_env,omitempty"`
	Models    []string `json:"models"`
	Prompts   []string `json:"prompts,omitempty"`
	Runs      int      `json:"runs,omitempty"`
}

type EvaluationSuite struct {
	TestCases []TestCase `json:"test_cases"`
	BaseDir   string     `json:"base_dir"`
}

type TestCase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Variant is java, javaweb, or empty to detect it from the source.
	Variant    string          `json:"variant,omitempty"`
	SourceFile string          `json:"source_file"`
	Expected   ExpectedResults `json:"expected"`
}

type ExpectedResults struct {
	ShouldFindIssues bool     `json:"should_find_issues"`
	Categories       []string `json:"categories,omitempty"`
}

type EvaluationRun struct {
	Model         string           `json:"model"`
	Provider      string           `json:"provider"`
	PromptVariant string           `json:"prompt_variant"`
	StartTime     time.Time        `json:"start_time"`
	EndTime       time.Time        `json:"end_time"`
	TotalDuration time.Duration    `json:"total_duration"`
	Results       []TestCaseResult `json:"results"`
	AverageScore  float64          `json:"average_score"`
	SuccessRate   float64          `json:"success_rate"`
	RunNumber     int              `json:"run_number,omitempty"`
}

type EvaluationResult struct {
	Model           string                   `json:"model"`
	Provider        string                   `json:"provider"`
	PromptVariant   string                   `json:"prompt_variant"`
	TotalRuns       int                      `json:"total_runs"`
	StartTime       time.Time                `json:"start_time"`
	EndTime         time.Time                `json:"end_time"`
	TotalDuration   time.Duration            `json:"total_duration"`
	IndividualRuns  []EvaluationRun          `json:"individual_runs"`
	AggregatedStats EvaluationStats          `json:"aggregated_stats"`
	TestCaseStats   map[string]TestCaseStats `json:"test_case_stats"`
	CategoryStats   map[string]CategoryStats `json:"category_stats,omitempty"`
}

type EvaluationStats struct {
	AverageScore       float64 `json:"average_score"`
	ScoreStdDev        float64 `json:"score_std_dev"`
	MinScore           float64 `json:"min_score"`
	MaxScore           float64 `json:"max_score"`
	AverageSuccessRate float64 `json:"average_success_rate"`
	SuccessRateStdDev  float64 `json:"success_rate_std_dev"`
	AverageDuration    float64 `json:"average_duration_seconds"`
	DurationStdDev     float64 `json:"duration_std_dev_seconds"`
	// CategoryRecall is the share of expected categories that were
	// classified, over every successful check of every run.
	CategoryRecall float64 `json:"category_recall"`
	// CleanChecks counts successful checks of cases that expect no issues.
	CleanChecks int `json:"clean_checks"`
	// CleanFalsePositiveRate is the percentage of CleanChecks that reported
	// issues anyway.
	CleanFalsePositiveRate float64 `json:"clean_false_positive_rate"`
}

type TestCaseStats struct {
	TestCaseName     string  `json:"test_case_name"`
	AverageScore     float64 `json:"average_score"`
	ScoreStdDev      float64 `json:"score_std_dev"`
	SuccessRate      float64 `json:"success_rate"`
	ConsistencyScore float64 `json:"consistency_score"`
	CategoryHitRate  float64 `json:"category_hit_rate"`
}

// CategoryStats tracks one error category across the runs of an evaluation.
// Expected counts successful checks of cases that list it, Hits those that
// classified it, and Spurious the checks that classified it unasked.
type CategoryStats struct {
	Category string  `json:"category"`
	Expected int     `json:"expected"`
	Hits     int     `json:"hits"`
	Spurious int     `json:"spurious"`
	Recall   float64 `json:"recall"`
}

// TestCaseResult is one check of one test case. FoundIssues and Categories
// are what the checker reported.
type TestCaseResult struct {
	TestCase      TestCase      `json:"test_case"`
	Model         string        `json:"model"`
	RequestID     string        `json:"request_id,omitempty"`
	FoundIssues   bool          `json:"found_issues"`
	Categories    []string      `json:"categories"`
	ExecutionTime time.Duration `json:"execution_time"`
	Success       bool          `json:"success"`
	Score         float64       `json:"score"`
	Errors        []string      `json:"errors,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}
