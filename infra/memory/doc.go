// Package memory provides a typed object pool used by the matching
// engine to recycle resting-order allocations between fills.
package memory
