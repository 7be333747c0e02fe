package services

import (
	"os"
)

type FeatureFlags struct {
	excludeViewedEnabled bool
}

func NewFeatureFlags() *FeatureFlags {
	excludeViewed := os.Getenv("FEATURE_EXCLUDE_VIEWED") == "true"

	return &FeatureFlags{
		excludeViewedEnabled: excludeViewed,
	}
}

// ExcludeViewedEnabled reports whether previously viewed products are
// dropped from recommendation results instead of being re-ranked.
func (f *FeatureFlags) ExcludeViewedEnabled() bool {
	return f.excludeViewedEnabled
}
