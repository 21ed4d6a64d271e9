// Package escalation decides when a report pages a human or earns a
// contribution proof, and runs those downstream effects in the background.
// The decisions are pure functions; the Dispatcher owns the fire-and-forget
// execution so lifecycle operations return without waiting on ledger or
// mail delivery.
package escalation

import (
	"github.com/aquaguardian/aquaguardian/internal/classifier"
)

// NotifyThreshold is the confidence floor for paging an authority. It is
// deliberately stricter than the 0.75 used to auto-verify a report: the
// lower bar flags for visibility, the higher bar pages a human.
const NotifyThreshold = 0.80

// ShouldNotify reports whether a classification warrants an authority
// notification. Clean water and non-water images never notify regardless of
// confidence.
func ShouldNotify(label string, confidence float64) bool {
	switch label {
	case classifier.LabelClean, classifier.LabelInvalidImage:
		return false
	}
	return confidence >= NotifyThreshold
}

// ShouldMint reports whether a completed cleanup earns a contribution
// proof: progress at exactly 100 and a payout address on file.
func ShouldMint(progress int, walletAddress *string) bool {
	return progress == 100 && walletAddress != nil && *walletAddress != ""
}
