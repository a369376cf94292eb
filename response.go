package fwserve

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/always-cache/fwserve/metrics"
	"github.com/always-cache/fwserve/nonce"
	"github.com/always-cache/fwserve/policy"
	"github.com/always-cache/fwserve/resource"
	"github.com/always-cache/fwserve/rfc9110"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/hlog"
)

func (s *Server) serveResource(w http.ResponseWriter, r *http.Request) {
	start := s.now()
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	log := hlog.FromRequest(r)
	ctx := r.Context()

	in := policy.Input{}
	var res resolution
	if p, err := resource.ParsePath(s.mount, r.URL.Path); err != nil {
		log.Trace().Err(err).Msg("Rejected path")
	} else {
		build := s.build.Current()
		res = s.resolve(ctx, p, build, log)
		in = policy.Input{
			Found:    res.found,
			Category: p.Category,
			Kind:     res.descriptor.Kind,
			MimeType: res.descriptor.MimeType,
			Nonce:    res.nonce,
		}
		if ims, ok := rfc9110.IfModifiedSince(r); ok {
			in.IfModifiedSince = &ims
		}
	}

	verdict := s.policy.Decide(in, s.now())

	var body io.ReadCloser
	if verdict.HasBody() && r.Method != http.MethodHead {
		var err error
		if body, err = s.store.Open(ctx, res.descriptor); err != nil {
			log.Error().Err(err).Str("key", res.descriptor.Name).Msg("Could not open resource")
			verdict = s.policy.Decide(policy.Input{}, s.now())
		} else {
			defer body.Close()
		}
	}

	s.headers.Apply(r, ww.Header())
	verdict.Apply(ww.Header())
	if verdict.HasBody() && res.descriptor.Size > 0 {
		ww.Header().Set(rfc9110.FieldContentLength, strconv.FormatInt(res.descriptor.Size, 10))
	}
	ww.WriteHeader(verdict.StatusCode)
	if body != nil {
		if _, err := io.Copy(ww, body); err != nil {
			log.Error().Err(err).Msg("Could not write response body to client")
		}
	}

	log.Trace().
		Str("nonce", res.nonce.String()).
		Str("disposition", verdict.Disposition.String()).
		Int("status", verdict.StatusCode).
		Msg("Resolved resource")
	s.metrics.Record(ctx, metrics.Response{
		Status:      ww.Status(),
		Disposition: verdict.Disposition.String(),
		Category:    in.Category.String(),
		Nonce:       nonceLabel(res),
		Bytes:       ww.BytesWritten(),
		Duration:    s.now().Sub(start),
	})
}

func nonceLabel(res resolution) string {
	if !res.found {
		return nonce.Absent.String()
	}
	return res.nonce.String()
}

func getRequestSourceIp(r *http.Request) string {
	// RemoteAddr is in the format:
	// 1.2.3.4:10000 for ipv4
	// [1:2:3]:10000 for ipv6
	ipAndPort := r.RemoteAddr
	portSepIdx := strings.LastIndex(ipAndPort, ":")
	// if not found, return
	if portSepIdx < 0 {
		return ipAndPort
	}
	return ipAndPort[:portSepIdx]
}
