// Package sequencer decides which catalog entry is shown next.
//
// Three algorithms are supported:
//   - Sequential walks the catalog in discovery order and wraps at both ends.
//     Stepping back from the first entry stays on it while the scan runs.
//   - RandomNoRepeat walks the catalog the same way after it has been
//     shuffled once the scan completes. Until then it behaves as Sequential.
//     The cursor keeps its index across the shuffle.
//   - Random draws uniformly from everything discovered so far and records
//     each pick in a bounded History so Previous can step back through it.
//
// Next blocks while the requested entry has not been discovered yet and the
// scan is still running. It reports ErrNoFiles when the scan ends with an
// empty catalog.
package sequencer
