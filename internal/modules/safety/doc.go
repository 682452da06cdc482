// Package safety documents the safety module's inputs and outputs.
//
// Inputs (canonical signals):
//   - Lifecycle.RCD classified from `*.rcd.coverage`; `none` and `partial`
//     produce findings, `full` and `unknown` produce nothing.
//   - Baseline.StressLevel; a `critical` ratio (>= 0.95 of the main switch
//     rating) is reported as an overload hazard in addition to the capacity
//     module's stress finding.
//
// Outputs:
//   - Findings SAFETY_RCD_ABSENT, SAFETY_RCD_PARTIAL and
//     SAFETY_MAIN_SWITCH_OVERLOAD.
//   - CapEx row capex:safety:rcd-installation, banded by how much protection
//     is missing.
//   - Profile-specific summary wording; tenants are directed to the property
//     manager rather than given a budget.
package safety
