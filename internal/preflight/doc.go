// Package preflight validates stage inputs and reports environment readiness.
//
// These checks run in two contexts:
//   - Each pipeline stage calls Validate with StageRequirements before any
//     work starts. Every missing or wrong-kind input is reported at once in a
//     MissingInputsError.
//   - The CLI "stagecast check" command uses RunAll and CheckSystemDeps to
//     display a readiness table.
package preflight
