package cli

const (
	// statusLineFormat truncates and pads status messages to 79 characters:
	// carriage-return wipes don't fully work on Windows consoles if the
	// cursor has already printed a character in the final column.
	statusLineFormat = "\r%-79.79s"
	// statusLineClearFormat adds a trailing carriage return to return the
	// cursor to the start of the line after clearing it.
	statusLineClearFormat = statusLineFormat + "\r"
)
