package dispatch

import (
	apierrors "remotewebdemo/internal/errors"
	"remotewebdemo/internal/hypermedia"
	"remotewebdemo/internal/stream"
)

// Kind identifies which variant of Result is populated
type Kind int

const (
	KindJSON Kind = iota
	KindPatch
	KindError
	KindStream
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindPatch:
		return "patch"
	case KindError:
		return "error"
	case KindStream:
		return "stream"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Result is the outcome of dispatching one request. Exactly the fields of
// its Kind are set.
type Result struct {
	Kind Kind

	// KindJSON and KindPatch
	Value     any
	MediaType string

	// KindError
	Err *apierrors.APIError

	// KindStream
	Source stream.Source

	// KindFile, a name relative to the web directory; MediaType is set too
	File string
}

// JSON returns a JSON document result
func JSON(value any, mediaType string) Result {
	return Result{Kind: KindJSON, Value: value, MediaType: mediaType}
}

// Patch returns a JSON-Patch result
func Patch(ops []hypermedia.PatchOp) Result {
	return Result{Kind: KindPatch, Value: ops, MediaType: hypermedia.MediaTypeJSONPatch}
}

// Error returns an error result
func Error(err *apierrors.APIError) Result {
	return Result{Kind: KindError, Err: err}
}

// Stream returns an event stream result
func Stream(src stream.Source) Result {
	return Result{Kind: KindStream, Source: src}
}

// File returns a static file result
func File(name, mediaType string) Result {
	return Result{Kind: KindFile, File: name, MediaType: mediaType}
}
