package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ReportHash returns the hex SHA-256 digest of a report's identifying
// content, used as the tamper-evidence anchor on the ledger.
func ReportHash(reportID, description, label string) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%s", reportID, description, label))
	return hex.EncodeToString(sum[:])
}

// LocationHash returns the hex SHA-256 digest of coordinates rounded to four
// decimals. Rounding keeps the hash stable across float formatting noise
// while still pinning the location to roughly 11 meters.
func LocationHash(lat, lng float64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%.4f,%.4f", lat, lng))
	return hex.EncodeToString(sum[:])
}
