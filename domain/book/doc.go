// Package book implements the in-memory matching engine for a single
// instrument. It keeps two price ladders (bids and asks) of FIFO price
// levels, executes incoming orders against the opposite side under
// price-time priority, and appends every execution to an append-only
// trade tape. Aggregated depth, trailing VWAP and order-book imbalance
// are derived on demand from the same state.
//
// The engine is single-writer and performs no I/O. Serialization for
// multi-client deployments is the caller's concern (see service).
package book
