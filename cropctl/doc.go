// Package cropctl drives the interactive crop-review step.
//
// A Controller owns at most one crop session at a time: pending crop
// parameters for the asset currently under review. Adjustments
// accumulate in the session and reach the selection store only on
// commit; cancel discards them. Moving to another asset while a session
// is open commits the open session first, so navigation never drops
// edits silently.
package cropctl
