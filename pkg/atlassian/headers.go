package atlassian

// Canonical header sets used against Atlassian servers. Each function
// returns a fresh map so callers can extend it without sharing state.

// DefaultHeaders is the JSON content-type/accept pair sent when a request
// does not override its headers.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
}

// ExperimentalHeaders opts in to experimental cloud APIs.
func ExperimentalHeaders() map[string]string {
	return map[string]string{
		"Content-Type":      "application/json",
		"Accept":            "application/json",
		"X-ExperimentalApi": "opt-in",
	}
}

// FormTokenHeaders posts form data past XSRF protection.
func FormTokenHeaders() map[string]string {
	return map[string]string{
		"Content-Type":      "application/x-www-form-urlencoded; charset=UTF-8",
		"X-Atlassian-Token": "no-check",
	}
}

// NoCheckHeaders disables XSRF checking without forcing a content type.
func NoCheckHeaders() map[string]string {
	return map[string]string{
		"X-Atlassian-Token": "no-check",
	}
}

// SafeModeHeaders toggles the universal plugin manager's safe mode.
func SafeModeHeaders() map[string]string {
	return map[string]string{
		"X-Atlassian-Token": "no-check",
		"Content-Type":      "application/vnd.atl.plugins.safe.mode.flag+json",
	}
}

// ExperimentalNoCheckHeaders combines the experimental opt-in with XSRF
// no-check.
func ExperimentalNoCheckHeaders() map[string]string {
	return map[string]string{
		"X-Atlassian-Token": "no-check",
		"X-ExperimentalApi": "opt-in",
	}
}
