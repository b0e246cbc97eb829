package auth

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Disposable email domains (partial list, expand as needed).
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"tempmail.com":      {},
	"10minutemail.com":  {},
	"guerrillamail.com": {},
	"yopmail.com":       {},
	"trashmail.com":     {},
	"fakeinbox.com":     {},
	"getnada.com":       {},
	"sharklasers.com":   {},
	"maildrop.cc":       {},
}

// ValidEmail reports whether email has a local@domain.tld shape and its
// domain is not a known disposable provider. Purely syntactic, no lookups.
func ValidEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	domain := strings.ToLower(email[strings.LastIndex(email, "@")+1:])
	_, disposable := disposableDomains[domain]
	return !disposable
}
