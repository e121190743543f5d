package main

// Exit codes
const (
	EXIT_CODE_OK          = 0
	EXIT_CODE_FAILURE     = 1
	EXIT_CODE_SKIPPED_ROW = 2
)
