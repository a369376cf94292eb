// Package policy decides the status code and caching headers of a framework
// resource response. Decide is a pure function of its input and the clock
// value it is given.
package policy

import (
	"net/http"
	"time"

	"github.com/always-cache/fwserve/nonce"
	"github.com/always-cache/fwserve/resource"
	"github.com/always-cache/fwserve/rfc9110"
	"github.com/always-cache/fwserve/rfc9111"
)

const (
	// DefaultLongExpire is the lifetime of correctly nonced responses.
	DefaultLongExpire = 45 * 24 * time.Hour
	// DefaultShortExpire is the lifetime of un-nonced, non-script responses.
	DefaultShortExpire = 24 * time.Hour
	// Charset of every text response.
	Charset = "UTF-8"
)

// ExpiredDate is the Expires value of AlwaysExpired responses.
var ExpiredDate = rfc9111.AlreadyExpired

// Disposition is the cache lifetime chosen for a response.
type Disposition int

const (
	// NoDisposition is used for 304 and 404 verdicts.
	NoDisposition Disposition = iota
	LongCache
	ShortCache
	AlwaysExpired
)

func (d Disposition) String() string {
	switch d {
	case LongCache:
		return "long"
	case ShortCache:
		return "short"
	case AlwaysExpired:
		return "expired"
	default:
		return "none"
	}
}

// categoryRules decide un-nonced responses and minified lookups per category.
type categoryRules struct {
	unnoncedScripts Disposition
	unnoncedOther   Disposition
	minified        bool
}

var categories = map[resource.Category]categoryRules{
	resource.Resources:  {unnoncedScripts: AlwaysExpired, unnoncedOther: ShortCache, minified: true},
	resource.JavaScript: {unnoncedScripts: AlwaysExpired, unnoncedOther: AlwaysExpired},
	resource.Libs:       {unnoncedScripts: AlwaysExpired, unnoncedOther: ShortCache, minified: true},
}

func rulesFor(c resource.Category) categoryRules {
	if r, ok := categories[c]; ok {
		return r
	}
	return categoryRules{unnoncedScripts: AlwaysExpired, unnoncedOther: AlwaysExpired}
}

// AllowsMinified reports whether production builds may serve a minified
// variant for resources of category c.
func AllowsMinified(c resource.Category) bool {
	return rulesFor(c).minified
}

// Input is everything a verdict depends on besides the clock.
type Input struct {
	Found    bool
	Category resource.Category
	Kind     resource.Kind
	MimeType string
	Nonce    nonce.State
	// IfModifiedSince is nil when the request carries no usable precondition.
	IfModifiedSince *time.Time
}

// Verdict is the status code and header set of a response.
// Zero times and empty strings mean the header is not sent.
type Verdict struct {
	StatusCode   int
	Disposition  Disposition
	Expires      time.Time
	CacheControl string
	Pragma       string
	LastModified time.Time
	ContentType  string
	Vary         string
}

// HasBody reports whether the resource content is sent.
func (v Verdict) HasBody() bool {
	return v.StatusCode == http.StatusOK
}

// Apply writes the verdict's headers.
func (v Verdict) Apply(h http.Header) {
	if v.ContentType != "" {
		h.Set(rfc9110.FieldContentType, v.ContentType)
	}
	if !v.Expires.IsZero() {
		h.Set(rfc9110.FieldExpires, rfc9110.ToHttpDate(v.Expires))
	}
	if v.CacheControl != "" {
		h.Set(rfc9110.FieldCacheControl, v.CacheControl)
	}
	if v.Pragma != "" {
		h.Set(rfc9110.FieldPragma, v.Pragma)
	}
	if !v.LastModified.IsZero() {
		h.Set(rfc9110.FieldLastModified, rfc9110.ToHttpDate(v.LastModified))
	}
	if v.Vary != "" {
		h.Set(rfc9110.FieldVary, v.Vary)
	}
}

// Config holds the cache lifetimes. Zero values select the defaults.
type Config struct {
	LongExpire  time.Duration `yaml:"longExpire"`
	ShortExpire time.Duration `yaml:"shortExpire"`
}

// Engine computes verdicts.
type Engine struct {
	longExpire  time.Duration
	shortExpire time.Duration
}

// NewEngine returns an engine for config.
func NewEngine(config Config) Engine {
	e := Engine{longExpire: config.LongExpire, shortExpire: config.ShortExpire}
	if e.longExpire <= 0 {
		e.longExpire = DefaultLongExpire
	}
	if e.shortExpire <= 0 {
		e.shortExpire = DefaultShortExpire
	}
	return e
}

// LongExpire returns the lifetime of LongCache responses.
func (e Engine) LongExpire() time.Duration { return e.longExpire }

// ShortExpire returns the lifetime of ShortCache responses.
func (e Engine) ShortExpire() time.Duration { return e.shortExpire }

// Decide returns the verdict for in at time now.
//
// A correctly nonced request with any valid If-Modified-Since is answered
// with 304: the nonce pins the content, so the client copy cannot be stale.
// Requests without a nonce are never answered with 304.
func (e Engine) Decide(in Input, now time.Time) Verdict {
	if !in.Found {
		return Verdict{StatusCode: http.StatusNotFound}
	}
	if in.Nonce == nonce.Valid && in.IfModifiedSince != nil {
		return Verdict{StatusCode: http.StatusNotModified}
	}

	v := Verdict{
		StatusCode:  http.StatusOK,
		Disposition: e.disposition(in),
		ContentType: contentType(in),
	}
	if in.Kind == resource.Script || in.Kind == resource.Stylesheet {
		v.Vary = rfc9110.VaryAcceptEncoding
	}

	switch v.Disposition {
	case LongCache:
		e.cacheFor(&v, now, e.longExpire)
	case ShortCache:
		e.cacheFor(&v, now, e.shortExpire)
	default:
		v.Expires = ExpiredDate
		v.CacheControl = rfc9111.NoCacheNoStore
		v.Pragma = rfc9111.PragmaNoCache
	}
	return v
}

func (e Engine) disposition(in Input) Disposition {
	switch in.Nonce {
	case nonce.Valid:
		return LongCache
	case nonce.Mismatch:
		return AlwaysExpired
	}
	rules := rulesFor(in.Category)
	if in.Kind == resource.Script {
		return rules.unnoncedScripts
	}
	return rules.unnoncedOther
}

func (e Engine) cacheFor(v *Verdict, now time.Time, lifetime time.Duration) {
	v.Expires = rfc9111.Expires(now, lifetime)
	v.CacheControl = rfc9111.Public(lifetime)
	v.LastModified = now.Add(-e.shortExpire)
}

func contentType(in Input) string {
	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if in.Kind.IsText() {
		return rfc9110.ContentType(mimeType, Charset)
	}
	return rfc9110.ContentType(mimeType, "")
}
