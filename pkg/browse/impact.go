package browse

import "github.com/matzehuels/codescope/pkg/dataset"

// Bucket is the badge level for an impact total.
type Bucket string

const (
	BucketLow      Bucket = "low"
	BucketMedium   Bucket = "medium"
	BucketHigh     Bucket = "high"
	BucketCritical Bucket = "critical"
)

// BucketFor maps an impact total to a badge: above 20 critical, above 10
// high, above 5 medium, else low.
func BucketFor(total int) Bucket {
	switch {
	case total > 20:
		return BucketCritical
	case total > 10:
		return BucketHigh
	case total > 5:
		return BucketMedium
	default:
		return BucketLow
	}
}

func impactTotal(imp *dataset.Impact, ok bool) int {
	if !ok {
		return 0
	}
	return imp.ImpactRadius.TotalImpact
}
