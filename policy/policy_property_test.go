package policy_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/always-cache/fwserve/nonce"
	"github.com/always-cache/fwserve/policy"
	"github.com/always-cache/fwserve/resource"
)

var mimeTypes = []string{"image/png", "text/css", "text/javascript", "image/svg+xml", "application/octet-stream"}

func buildInput(found bool, category, kind, state, mime int, ims int64, hasIMS bool) policy.Input {
	in := policy.Input{
		Found:    found,
		Category: resource.Category(category),
		Kind:     resource.Kind(kind),
		MimeType: mimeTypes[mime],
		Nonce:    nonce.State(state),
	}
	if hasIMS {
		t := time.Unix(ims, 0).UTC()
		in.IfModifiedSince = &t
	}
	return in
}

func inputProperty(check func(policy.Input, policy.Verdict, time.Time) bool) gopter.Prop {
	engine := policy.NewEngine(policy.Config{})
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	return prop.ForAll(
		func(found bool, category, kind, state, mime int, ims int64, hasIMS bool) bool {
			in := buildInput(found, category, kind, state, mime, ims, hasIMS)
			return check(in, engine.Decide(in, now), now)
		},
		gen.Bool(),
		gen.IntRange(1, 3),
		gen.IntRange(0, 3),
		gen.IntRange(0, 2),
		gen.IntRange(0, len(mimeTypes)-1),
		gen.Int64Range(0, 4102444800),
		gen.Bool(),
	)
}

// Property: Decide(in, now) == Decide(in, now) for any input
func TestDecideIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	engine := policy.NewEngine(policy.Config{})
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	properties.Property("verdicts are deterministic", prop.ForAll(
		func(found bool, category, kind, state, mime int, ims int64, hasIMS bool) bool {
			in := buildInput(found, category, kind, state, mime, ims, hasIMS)
			return engine.Decide(in, now) == engine.Decide(in, now)
		},
		gen.Bool(),
		gen.IntRange(1, 3),
		gen.IntRange(0, 3),
		gen.IntRange(0, 2),
		gen.IntRange(0, len(mimeTypes)-1),
		gen.Int64Range(0, 4102444800),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestDecideInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("missing resources are 404 without headers", inputProperty(
		func(in policy.Input, v policy.Verdict, _ time.Time) bool {
			if in.Found {
				return v.StatusCode != http.StatusNotFound
			}
			return v == policy.Verdict{StatusCode: http.StatusNotFound}
		}))

	properties.Property("un-nonced requests are never 304", inputProperty(
		func(in policy.Input, v policy.Verdict, _ time.Time) bool {
			return in.Nonce == nonce.Valid || v.StatusCode != http.StatusNotModified
		}))

	properties.Property("mismatched nonces are already expired", inputProperty(
		func(in policy.Input, v policy.Verdict, now time.Time) bool {
			if !in.Found || in.Nonce != nonce.Mismatch {
				return true
			}
			return v.StatusCode == http.StatusOK && v.Expires.Before(now)
		}))

	properties.Property("304 carries no content type", inputProperty(
		func(_ policy.Input, v policy.Verdict, _ time.Time) bool {
			return v.StatusCode != http.StatusNotModified || (v.ContentType == "" && !v.HasBody())
		}))

	properties.Property("text responses declare UTF-8", inputProperty(
		func(in policy.Input, v policy.Verdict, _ time.Time) bool {
			if v.StatusCode != http.StatusOK {
				return true
			}
			hasCharset := strings.HasSuffix(v.ContentType, "; charset=UTF-8")
			return hasCharset == in.Kind.IsText()
		}))

	properties.TestingRun(t)
}
