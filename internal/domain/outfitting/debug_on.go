//go:build outfitdebug

package outfitting

// debugAssertions makes every flush verify the incremental aggregates against a full
// recomputation and panic on drift.
const debugAssertions = true
