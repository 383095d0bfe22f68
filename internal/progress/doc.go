// Package progress renders scheduler events as human-readable console
// output.
//
// The Console observer prints one line per lifecycle event, prefixed with
// [ytkit], and keeps running totals for a final summary. It implements
// scheduler.Observer and is safe for concurrent use; rendering never feeds
// back into scheduling.
//
// # Output Format
//
//	[ytkit] (01/20) dQw4w9WgXcQ resolved: Never Gonna Give You Up
//	[ytkit] dQw4w9WgXcQ 45.2% | 12.40 MB / 27.44 MB | 1.2 MB/s
//	[ytkit] retrying dQw4w9WgXcQ (2 attempts left)
//	[ytkit] (01/20) dQw4w9WgXcQ done
//	[ytkit] 19 completed | 1 failed | 3 retries | total time: 2m 11s
package progress
