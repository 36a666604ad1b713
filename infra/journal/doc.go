// Package journal is a segmented append-only log of accepted orders.
// Every frame carries a CRC32 and a strictly monotonic sequence id, so
// a full replay rebuilds the matching engine and the display tree
// exactly as they were before a restart.
//
// Frame layout: [type:1][seq:8][time:8][len:4][payload][crc:4]
package journal
