// Package admission validates candidate source URLs before any network call
// is made: https only, allowlisted host, no query or fragment, path ending
// in /SKILL.md, bounded length.
package admission

import (
	"fmt"
	"net/url"
	"strings"
)

// Error codes surfaced to the boundary layer.
const (
	CodeInvalidURL        = "invalid_url"
	CodeURLTooLong        = "url_too_long"
	CodeInvalidProtocol   = "invalid_protocol"
	CodeHostNotAllowed    = "host_not_allowed"
	CodeNoQueryOrFragment = "no_query_or_fragment"
	CodeNotSkillMD        = "not_skill_md"
)

// skillSuffix is the only path ending an admitted URL may have. The leading
// slash is part of the match; a trailing slash after the suffix is rejected.
const skillSuffix = "/SKILL.md"

// Error is a validation failure with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Policy holds the admission limits, fixed at startup.
type Policy struct {
	MaxURLLength int
	AllowedHosts []string
}

// DefaultPolicy returns the policy used when no configuration overrides it.
func DefaultPolicy() Policy {
	return Policy{
		MaxURLLength: 2048,
		AllowedHosts: []string{"raw.githubusercontent.com"},
	}
}

// Validate checks raw against the policy and returns the parsed URL on
// success. It performs no I/O.
func (p Policy) Validate(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, newError(CodeInvalidURL, "source_url must be a non-empty string")
	}
	if len(raw) > p.MaxURLLength {
		return nil, newError(CodeURLTooLong, fmt.Sprintf("source_url must be <= %d chars", p.MaxURLLength))
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, newError(CodeInvalidURL, "source_url must be a valid URL")
	}

	if u.Scheme != "https" {
		return nil, newError(CodeInvalidProtocol, "source_url must use https")
	}
	if !p.hostAllowed(u.Hostname()) {
		return nil, newError(CodeHostNotAllowed, fmt.Sprintf("host not allowed: %s", u.Hostname()))
	}
	if u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return nil, newError(CodeNoQueryOrFragment, "query/fragment not allowed")
	}
	if !strings.HasSuffix(u.Path, skillSuffix) {
		return nil, newError(CodeNotSkillMD, "path must end with /SKILL.md")
	}

	return u, nil
}

func (p Policy) hostAllowed(host string) bool {
	for _, h := range p.AllowedHosts {
		if host == h {
			return true
		}
	}
	return false
}
