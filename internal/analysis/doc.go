// Package analysis holds the secondary order statistics reported next to the
// comparison table: durations by priority, the duration/downtime correlation
// and the highest-downtime order matches.
package analysis
