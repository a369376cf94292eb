// Package responseheaders sets static response headers chosen by request path.
package responseheaders

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/always-cache/fwserve/rfc9110"

	"github.com/rs/zerolog/log"
)

// Default headers protect every response against clickjacking.
var Default = map[string]string{
	"X-Frame-Options":         "SAMEORIGIN",
	"Content-Security-Policy": "frame-ancestors 'self'",
}

// reserved headers belong to the cache policy and cannot be set by rules.
var reserved = []string{
	rfc9110.FieldCacheControl,
	rfc9110.FieldContentLength,
	rfc9110.FieldContentType,
	rfc9110.FieldExpires,
	rfc9110.FieldLastModified,
	rfc9110.FieldPragma,
	rfc9110.FieldVary,
}

// Protected reports whether rules may not set or remove the named header.
func Protected(name string) bool {
	name = http.CanonicalHeaderKey(name)
	if _, ok := Default[name]; ok {
		return true
	}
	for _, r := range reserved {
		if name == r {
			return true
		}
	}
	return false
}

type Rules []Rule

type Rule struct {
	Prefix  string            `yaml:"prefix"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	// Remove lists headers that the rule deletes.
	Remove []string `yaml:"remove"`
}

// Validate returns an error for the first rule that matches nothing or
// touches a protected header.
func (r Rules) Validate() error {
	for i, rule := range r {
		if rule.Prefix == "" && rule.Path == "" {
			return fmt.Errorf("rule %d needs a prefix or a path", i)
		}
		for name := range rule.Headers {
			if Protected(name) {
				return fmt.Errorf("rule %d sets protected header %s", i, name)
			}
		}
		for _, name := range rule.Remove {
			if Protected(name) {
				return fmt.Errorf("rule %d removes protected header %s", i, name)
			}
		}
	}
	return nil
}

// Apply sets the headers of the first rule matching the request path and
// then the Default headers. Protected headers in rules are skipped. It
// applies to every status code.
func (r Rules) Apply(req *http.Request, header http.Header) {
	if rule := r.find(req); rule != nil {
		applyRule(*rule, header)
	}
	for name, value := range Default {
		header.Set(name, value)
	}
}

func applyRule(rule Rule, header http.Header) {
	for name, value := range rule.Headers {
		if Protected(name) {
			log.Warn().Msgf("Not setting protected header %s", name)
			continue
		}
		log.Trace().Msgf("Setting header %s", name)
		header.Set(name, value)
	}
	for _, name := range rule.Remove {
		if Protected(name) {
			log.Warn().Msgf("Not removing protected header %s", name)
			continue
		}
		log.Trace().Msgf("Removing header %s", name)
		header.Del(name)
	}
}

func (r Rules) find(req *http.Request) *Rule {
	for _, rule := range r {
		if rule.Path != "" && rule.Path != req.URL.Path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(req.URL.Path, rule.Prefix) {
			continue
		}
		log.Trace().Msgf("Header rule %+v matches %s", rule, req.URL.Path)
		return &rule
	}
	return nil
}
