// Package rfc9111 implements the parts of RFC 9111 (HTTP Caching) an origin
// server needs to control downstream caches: generating and reading
// Cache-Control directives, already-expired Expires values and Pragma.
//
// Files are named after the RFC sections they implement; comments starting
// with § quote the RFC.
package rfc9111
