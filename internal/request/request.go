package request

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apierrors "remotewebdemo/internal/errors"
)

// Options controls how an http.Request is normalized
type Options struct {
	// MaxBodyBytes bounds the body read; larger bodies are rejected
	MaxBodyBytes int64
	// DefaultOrigin is used when the request carries no Origin header
	DefaultOrigin string
}

// Request is the normalized view of an incoming HTTP request.
// Only the path cursor changes after construction.
type Request struct {
	Method         string
	Query          url.Values
	ContentType    string
	ContentParams  map[string]string
	Body           Body
	Accept         string
	Origin         string
	ApplicationURI string

	pathInfo string
}

// New builds a Request from its parts without reading a body
func New(method, path, rawQuery string) *Request {
	return &Request{
		Method:        method,
		Query:         ParseQuery(rawQuery),
		ContentParams: map[string]string{},
		pathInfo:      path,
	}
}

// FromHTTP reads and decodes r into a Request
func FromHTTP(r *http.Request, opts Options) (*Request, error) {
	req := New(r.Method, r.URL.Path, r.URL.RawQuery)
	req.Accept = r.Header.Get("Accept")
	req.Origin = r.Header.Get("Origin")
	if req.Origin == "" {
		req.Origin = opts.DefaultOrigin
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	req.ApplicationURI = scheme + "://" + r.Host + "/"

	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, params, err := mime.ParseMediaType(ct)
		if err == nil {
			req.ContentType = mediaType
			req.ContentParams = params
		} else {
			// keep the bare type so the body decoder can still choose a variant
			req.ContentType = strings.ToLower(strings.TrimSpace(strings.Split(ct, ";")[0]))
		}
	}

	raw, err := readBody(r.Body, opts.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	body, err := DecodeBody(raw, req.ContentType, req.ContentParams)
	if err != nil {
		return nil, err
	}
	req.Body = body
	return req, nil
}

func readBody(body io.Reader, limit int64) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	if limit <= 0 {
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, apierrors.BadRequestFrom(fmt.Errorf("failed to read body: %w", err))
		}
		return raw, nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, apierrors.BadRequestFrom(fmt.Errorf("failed to read body: %w", err))
	}
	if int64(len(raw)) > limit {
		return nil, apierrors.BadRequest(fmt.Sprintf("request body exceeds %d bytes", limit))
	}
	return raw, nil
}

// ShiftPath consumes and returns the next path segment. Empty and "."
// segments between others are skipped, a trailing empty segment is
// returned as "". ok is false once the path is exhausted.
func (r *Request) ShiftPath() (segment string, ok bool) {
	if r.pathInfo == "" {
		return "", false
	}

	parts := strings.Split(r.pathInfo, "/")
	if len(parts) < 2 {
		// path without a leading slash
		r.pathInfo = ""
		return parts[0], true
	}

	kept := []string{parts[0]}
	for _, p := range parts[1 : len(parts)-1] {
		if p != "" && p != "." {
			kept = append(kept, p)
		}
	}
	kept = append(kept, parts[len(parts)-1])

	segment = kept[1]
	r.pathInfo = strings.Join(append(kept[:1:1], kept[2:]...), "/")
	if segment == "." {
		return "", false
	}
	return segment, true
}

// PathInfo returns the unconsumed remainder of the path
func (r *Request) PathInfo() string {
	return r.pathInfo
}

// Arg returns the first query value for key
func (r *Request) Arg(key string) (string, bool) {
	vs := r.Query[key]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// Args returns every query value for key
func (r *Request) Args(key string) []string {
	return r.Query[key]
}

// HasArg reports whether key has a non-blank query value
func (r *Request) HasArg(key string) bool {
	return len(r.Query[key]) > 0
}

// IntArg parses the first query value for key as a base-10 integer
func (r *Request) IntArg(key string) (int64, bool) {
	v, ok := r.Arg(key)
	if !ok {
		return 0, false
	}
	return parseInt(v)
}

// Field returns the body scalar for key
func (r *Request) Field(key string) (string, bool) {
	return r.Body.Field(key)
}

// IntField parses the body scalar for key as a base-10 integer
func (r *Request) IntField(key string) (int64, bool) {
	v, ok := r.Field(key)
	if !ok {
		return 0, false
	}
	return parseInt(v)
}

func parseInt(v string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
