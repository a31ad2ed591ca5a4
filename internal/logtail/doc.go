// Package logtail reads the tail of secondbrain's own log file for the
// activity panel.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded no matter how large the file grows. A missing file is not an error;
// the panel simply shows nothing until the first query is logged.
//
// Parse understands the single-line records written by the logging package:
//
//	2026-10-19T09:14:02Z INF query_answered request_id=4f1c... elapsed=812ms
//
// Anything else is passed through as a plain message.
package logtail
