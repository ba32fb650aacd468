package common

import "time"

const (
	// AnalyzerRunLockKey guards against overlapping analysis runs when more
	// than one analyzer instance is deployed.
	AnalyzerRunLockKey = "sentiment.analyzer.run-lock"

	// AnalyzerRunLockTTL is the default lease on the run lock; a crashed run
	// releases the lock after this long.
	AnalyzerRunLockTTL = 30 * time.Minute

	// AnalyzeVersion is the version query parameter sent with every analysis
	// request, fixed by the upstream API contract.
	AnalyzeVersion = "2017-02-27"
)
