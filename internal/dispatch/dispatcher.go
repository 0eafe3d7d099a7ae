package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	apierrors "remotewebdemo/internal/errors"
	"remotewebdemo/internal/hypermedia"
	"remotewebdemo/internal/request"
	"remotewebdemo/internal/services"
	"remotewebdemo/internal/stream"
)

// Static client files
const (
	IndexFile        = "index.html"
	RemoteObjectFile = "remotewebobject.js"
	URITemplateFile  = "uritemplate.js"

	mediaTypeHTML       = "text/html"
	mediaTypeJavaScript = "application/javascript"
)

// Dispatcher maps a normalized request to a Result
type Dispatcher struct {
	passwords *services.PasswordService
	digests   *services.DigestService
	streams   stream.Factory
	logger    *slog.Logger
}

// New creates a Dispatcher
func New(passwords *services.PasswordService, digests *services.DigestService, streams stream.Factory, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		passwords: passwords,
		digests:   digests,
		streams:   streams,
		logger:    logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch routes req by its first path segment. It consumes req's path.
func (d *Dispatcher) Dispatch(ctx context.Context, req *request.Request) Result {
	segment, _ := req.ShiftPath()

	switch segment {
	case "demo":
		return d.demo(ctx, req)
	case "":
		return File(IndexFile, mediaTypeHTML)
	case RemoteObjectFile, URITemplateFile:
		return File(segment, mediaTypeJavaScript)
	default:
		return Error(apierrors.ErrNotFound)
	}
}

func (d *Dispatcher) demo(ctx context.Context, req *request.Request) Result {
	resource, _ := req.ShiftPath()

	// URI templates produce a trailing slash; anything deeper is unknown
	if rest, ok := req.ShiftPath(); ok && rest != "" {
		return Error(apierrors.ErrNotFound)
	}

	d.logger.DebugContext(ctx, "dispatching demo resource",
		slog.String("resource", resource),
		slog.String("method", req.Method))

	switch resource {
	case "password":
		return d.password(ctx, req)
	case "hash":
		return d.hash(ctx, req)
	case "crc":
		return d.crc(ctx, req)
	case "tick", "clock":
		src, _ := d.streams.New(resource)
		return Stream(src)
	case "":
		return JSON(hypermedia.NewDiscovery(req.ApplicationURI), hypermedia.MediaTypeCRC)
	default:
		return Error(apierrors.ErrNotFound)
	}
}

func (d *Dispatcher) password(ctx context.Context, req *request.Request) Result {
	if !req.HasArg("algorithm") {
		return JSON(d.passwords.Algorithms(), hypermedia.MediaTypeJSON)
	}

	cleartext, _ := req.Arg("cleartext")
	salt, _ := req.Arg("salt")
	var rounds *int
	if n, ok := req.IntArg("rounds"); ok {
		r := int(n)
		rounds = &r
	}

	hash, err := d.passwords.Hash(ctx, services.PasswordRequest{
		Algorithms: req.Args("algorithm"),
		Cleartext:  cleartext,
		Salt:       salt,
		Rounds:     rounds,
	})
	switch {
	case errors.Is(err, services.ErrNoCleartext):
		return Error(apierrors.ErrNoCleartext)
	case errors.Is(err, services.ErrUnknownAlgorithm):
		return Error(apierrors.ErrUnknownAlgorithm)
	case err != nil:
		return Error(apierrors.BadRequestFrom(err))
	}
	return JSON(hash, hypermedia.MediaTypeJSON)
}

func (d *Dispatcher) hash(ctx context.Context, req *request.Request) Result {
	if !req.HasArg("algorithm") {
		return JSON(d.digests.Algorithms(), hypermedia.MediaTypeJSON)
	}

	data, _ := d.value(req, "data")
	if data == "" {
		return Error(apierrors.ErrNoData)
	}

	algorithm, _ := req.Arg("algorithm")
	sum, err := d.digests.Digest(ctx, algorithm, data)
	if err != nil {
		return Error(apierrors.ErrUnknownAlgorithm)
	}
	return JSON(sum, hypermedia.MediaTypeJSON)
}

func (d *Dispatcher) crc(ctx context.Context, req *request.Request) Result {
	data, _ := req.Arg("data")

	var seed uint32
	switch req.Method {
	case http.MethodGet:
		if n, ok := req.IntArg("value"); ok {
			seed = uint32(n)
		}
	case http.MethodPost, http.MethodPut:
		if n, ok := req.IntField("value"); ok {
			seed = uint32(n)
		}
	}

	if data == "" {
		return Error(apierrors.ErrNoData)
	}

	crc := d.digests.CRC32(ctx, data, seed)
	if req.Accept == hypermedia.MediaTypeJSONPatch {
		return Patch(hypermedia.CRCPatch(crc))
	}
	return JSON(hypermedia.NewCRCDocument(req.ApplicationURI, crc), hypermedia.MediaTypeCRC)
}

// value reads key from the query for GET and from the body for POST and PUT
func (d *Dispatcher) value(req *request.Request, key string) (string, bool) {
	switch req.Method {
	case http.MethodGet:
		return req.Arg(key)
	case http.MethodPost, http.MethodPut:
		return req.Field(key)
	default:
		return "", false
	}
}
