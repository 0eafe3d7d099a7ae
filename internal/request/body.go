package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"

	apierrors "remotewebdemo/internal/errors"
)

// Media types understood by DecodeBody
const (
	MediaTypeForm      = "application/x-www-form-urlencoded"
	MediaTypeMultipart = "multipart/form-data"
)

// BodyKind tags the variant held by a Body
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyJSON
	BodyForm
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	case BodyMultipart:
		return "multipart"
	default:
		return "empty"
	}
}

// Body is a decoded request body
type Body struct {
	kind   BodyKind
	json   any
	values url.Values
}

// Kind reports which variant the body holds
func (b Body) Kind() BodyKind {
	return b.kind
}

// JSON returns the decoded JSON value. Numbers are json.Number.
func (b Body) JSON() any {
	return b.json
}

// Values returns the form or multipart fields
func (b Body) Values() url.Values {
	return b.values
}

// Field returns the scalar stored under key. A sequence yields its first
// element, a JSON number its literal and a boolean "true" or "false".
// Objects, null and absent keys yield nothing.
func (b Body) Field(key string) (string, bool) {
	switch b.kind {
	case BodyForm, BodyMultipart:
		vs := b.values[key]
		if len(vs) == 0 {
			return "", false
		}
		return vs[0], true
	case BodyJSON:
		obj, ok := b.json.(map[string]any)
		if !ok {
			return "", false
		}
		v, ok := obj[key]
		if !ok {
			return "", false
		}
		if seq, ok := v.([]any); ok {
			if len(seq) == 0 {
				return "", false
			}
			v = seq[0]
		}
		return jsonScalar(v)
	default:
		return "", false
	}
}

func jsonScalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case bool:
		if s {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

// DecodeBody normalizes raw according to the declared media type and its
// parameters. Unknown media types decode to an empty body.
func DecodeBody(raw []byte, mediaType string, params map[string]string) (Body, error) {
	mediaType = strings.ToLower(mediaType)
	isJSON := strings.HasSuffix(mediaType, "/json") || strings.HasSuffix(mediaType, "+json")

	if len(raw) == 0 || (!isJSON && mediaType != MediaTypeForm && mediaType != MediaTypeMultipart) {
		return Body{}, nil
	}

	charset := params["encoding"]
	if charset == "" {
		charset = params["charset"]
	}

	switch {
	case isJSON:
		text, err := decodeText(raw, charset)
		if err != nil {
			return Body{}, err
		}
		return decodeJSON(text)
	case mediaType == MediaTypeForm:
		text, err := decodeText(raw, charset)
		if err != nil {
			return Body{}, err
		}
		return Body{kind: BodyForm, values: ParseQuery(string(text))}, nil
	default:
		return decodeMultipart(raw, params["boundary"], charset)
	}
}

func decodeJSON(text []byte) (Body, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return Body{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Body{}, apierrors.BadRequestFrom(fmt.Errorf("malformed JSON body: %w", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return Body{}, apierrors.BadRequest("malformed JSON body: trailing data")
	}
	return Body{kind: BodyJSON, json: v}, nil
}

func decodeMultipart(raw []byte, boundary, charset string) (Body, error) {
	if boundary == "" {
		return Body{}, apierrors.BadRequest("multipart body without boundary")
	}

	values := url.Values{}
	reader := multipart.NewReader(bytes.NewReader(raw), boundary)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Body{}, apierrors.BadRequestFrom(fmt.Errorf("malformed multipart body: %w", err))
		}

		name := part.FormName()
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return Body{}, apierrors.BadRequestFrom(fmt.Errorf("malformed multipart body: %w", err))
		}
		if name == "" {
			continue
		}

		text, err := decodeText(data, charset)
		if err != nil {
			return Body{}, err
		}
		values.Add(name, string(text))
	}
	return Body{kind: BodyMultipart, values: values}, nil
}

// decodeText converts raw from charset to UTF-8. An empty charset means UTF-8.
func decodeText(raw []byte, charset string) ([]byte, error) {
	enc, name, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}

	if name == "utf-8" {
		if !utf8.Valid(raw) {
			return nil, apierrors.BadRequest("body is not valid utf-8")
		}
		return raw, nil
	}

	text, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, apierrors.BadRequestFrom(fmt.Errorf("body is not valid %s: %w", name, err))
	}
	return text, nil
}

func lookupEncoding(charset string) (encoding.Encoding, string, error) {
	if charset == "" {
		return nil, "utf-8", nil
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		enc, err = ianaindex.IANA.Encoding(charset)
	}
	if err != nil || enc == nil {
		return nil, "", apierrors.BadRequest(fmt.Sprintf("unknown encoding %q", charset))
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(charset)
	}
	return enc, name, nil
}

// ParseQuery parses a query string, dropping blank values and skipping
// malformed pairs. A key whose values are all blank is absent.
func ParseQuery(raw string) url.Values {
	parsed, _ := url.ParseQuery(raw)
	for key, vs := range parsed {
		kept := vs[:0]
		for _, v := range vs {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) == 0 {
			delete(parsed, key)
			continue
		}
		parsed[key] = kept
	}
	return parsed
}
