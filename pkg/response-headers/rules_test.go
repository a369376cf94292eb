package responseheaders

import (
	"net/http"
	"testing"
)

func TestRuleFinder(t *testing.T) {
	makeReq := func(path string) *http.Request {
		req, _ := http.NewRequest("GET", path, nil)
		return req
	}

	rules := Rules{
		Rule{Path: "/auraFW/resources/embed.html", Headers: map[string]string{"X-Rule": "path"}},
		Rule{Prefix: "/auraFW/resources/", Headers: map[string]string{"X-Rule": "prefix"}},
	}

	if rule := rules.find(makeReq("/auraFW/resources/embed.html")); rule == nil || rule.Headers["X-Rule"] != "path" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("/auraFW/resources/aura/logo.png")); rule == nil || rule.Headers["X-Rule"] != "prefix" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.find(makeReq("/auraFW/javascript/aura_dev.js")); rule != nil {
		t.Fatal("Incorrect rule")
	}
}

func TestApplyDefaults(t *testing.T) {
	req, _ := http.NewRequest("GET", "/auraFW/libs/missing.js", nil)
	header := make(http.Header)

	Rules(nil).Apply(req, header)
	if v := header.Get("X-Frame-Options"); v != "SAMEORIGIN" {
		t.Fatalf("X-Frame-Options header wrong, is '%s'", v)
	}
	if v := header.Get("Content-Security-Policy"); v != "frame-ancestors 'self'" {
		t.Fatalf("Content-Security-Policy header wrong, is '%s'", v)
	}
}

func TestApplyRule(t *testing.T) {
	req, _ := http.NewRequest("GET", "/auraFW/resources/embed.html", nil)
	header := make(http.Header)
	header.Set("X-Powered-By", "fwserve")
	rules := Rules{
		Rule{
			Prefix:  "/auraFW/resources/",
			Headers: map[string]string{"Referrer-Policy": "same-origin"},
			Remove:  []string{"X-Powered-By"},
		},
	}

	rules.Apply(req, header)
	if v := header.Get("Referrer-Policy"); v != "same-origin" {
		t.Fatalf("Referrer-Policy header wrong, is '%s'", v)
	}
	if _, ok := header["X-Powered-By"]; ok {
		t.Fatal("X-Powered-By header not removed")
	}
}

func TestProtectedHeadersKept(t *testing.T) {
	req, _ := http.NewRequest("GET", "/auraFW/resources/embed.html", nil)
	header := make(http.Header)
	rules := Rules{
		Rule{
			Prefix: "/auraFW/resources/",
			Headers: map[string]string{
				"Content-Security-Policy": "frame-ancestors *",
				"cache-control":           "max-age=60",
				"Expires":                 "Thu, 01 Jan 2099 00:00:00 GMT",
			},
			Remove: []string{"X-Frame-Options"},
		},
	}

	rules.Apply(req, header)
	if v := header.Get("Content-Security-Policy"); v != "frame-ancestors 'self'" {
		t.Fatalf("Content-Security-Policy header wrong, is '%s'", v)
	}
	if v := header.Get("X-Frame-Options"); v != "SAMEORIGIN" {
		t.Fatalf("X-Frame-Options header wrong, is '%s'", v)
	}
	if v := header.Get("Cache-Control"); v != "" {
		t.Fatalf("Cache-Control header set to '%s'", v)
	}
	if v := header.Get("Expires"); v != "" {
		t.Fatalf("Expires header set to '%s'", v)
	}
}

func TestValidate(t *testing.T) {
	valid := Rules{Rule{Path: "/auraFW/resources/embed.html", Headers: map[string]string{"Referrer-Policy": "same-origin"}}}
	if err := valid.Validate(); err != nil {
		t.Fatal(err)
	}

	invalid := []Rules{
		{Rule{Headers: map[string]string{"Referrer-Policy": "same-origin"}}},
		{Rule{Prefix: "/", Headers: map[string]string{"Vary": "Cookie"}}},
		{Rule{Prefix: "/", Headers: map[string]string{"expires": "0"}}},
		{Rule{Prefix: "/", Remove: []string{"x-frame-options"}}},
		{Rule{Prefix: "/", Remove: []string{"Pragma"}}},
	}
	for i, rules := range invalid {
		if err := rules.Validate(); err == nil {
			t.Fatalf("rules %d accepted", i)
		}
	}
}
