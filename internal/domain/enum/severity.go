package enum

// Severity is the tier of an anomaly alert
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Impact is the qualitative impact tier of an insight
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// InsightCategory groups coach insights
type InsightCategory string

const (
	InsightOpportunity  InsightCategory = "opportunity"
	InsightRisk         InsightCategory = "risk"
	InsightOptimization InsightCategory = "optimization"
	InsightStrategy     InsightCategory = "strategy"
)

// TrendDirection tags a period-over-period comparison.
// For cost metrics "up" means improvement, i.e. costs went down.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)
