package main

// Exported formatting helpers for testing.
var (
	FormatLine   = formatLine
	FormatRecord = formatRecord
	ShortID      = shortID
	Truncate     = truncate
)
