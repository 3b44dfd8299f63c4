package assetcache

// Priority is the eviction precedence tier of a cached asset. Higher
// tiers survive budget pressure longer; Critical entries are never
// evicted, even when that leaves the budget exceeded.
type Priority uint8

const (
	// PriorityLow is evicted first (distant objects, unused LODs).
	PriorityLow Priority = iota
	// PriorityMedium is the standard tier for most assets.
	PriorityMedium
	// PriorityHigh is evicted last (nearby objects, current level).
	PriorityHigh
	// PriorityCritical is exempt from eviction (UI, player character).
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}
