package main

import "strings"

// redactEmail masks an address for logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func redactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return "***"
	}
	name := email[:at]
	if len(name) > 2 {
		return name[:2] + "***" + email[at:]
	}
	return "***" + email[at:]
}
