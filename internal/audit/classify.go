// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit normalizes raw accessibility reports into canonical,
// categorized audit records.
// Implements: prd002-scoring (R2-R3);
//
//	docs/ARCHITECTURE § Scoring.
package audit

import "github.com/NaomiVK/page-speed-accessibility/pkg/types"

// Display modes assigned by the upstream scoring engine.
const (
	DisplayBinary        = "binary"
	DisplayManual        = "manual"
	DisplayInformative   = "informative"
	DisplayNotApplicable = "notApplicable"
)

// Classify maps a raw audit score and display mode to a category. It is a
// total function; every input pair maps to some category. Rule order
// matters: manual/informative is checked before the passed rule, so a
// manual audit carrying score 1 is never reported as passed (R3.2).
func Classify(score *float64, displayMode string) types.AuditCategory {
	switch {
	case score != nil && *score == 0 && displayMode == DisplayBinary:
		return types.CategoryFailed
	case displayMode == DisplayManual || displayMode == DisplayInformative:
		return types.CategoryManualCheck
	case score != nil && *score == 1 && displayMode == DisplayBinary:
		return types.CategoryPassed
	case displayMode == DisplayNotApplicable:
		return types.CategoryNotApplicable
	default:
		return types.CategoryOther
	}
}
