package http

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"remotewebdemo/internal/dispatch"
	apierrors "remotewebdemo/internal/errors"
	"remotewebdemo/internal/hypermedia"
	"remotewebdemo/internal/request"
	"remotewebdemo/internal/stream"
)

// DemoHandler serves the whole demo surface: it normalizes the request,
// dispatches it and writes the Result.
type DemoHandler struct {
	dispatcher   *dispatch.Dispatcher
	responder    *stream.Responder
	errorHandler *apierrors.ErrorHandler
	webDir       string
	opts         request.Options
	logger       *slog.Logger
}

// NewDemoHandler creates a new demo handler serving client files from webDir
func NewDemoHandler(
	dispatcher *dispatch.Dispatcher,
	responder *stream.Responder,
	errorHandler *apierrors.ErrorHandler,
	webDir string,
	opts request.Options,
	logger *slog.Logger,
) *DemoHandler {
	return &DemoHandler{
		dispatcher:   dispatcher,
		responder:    responder,
		errorHandler: errorHandler,
		webDir:       webDir,
		opts:         opts,
		logger:       logger.With(slog.String("handler", "demo")),
	}
}

// ServeHTTP implements http.Handler
func (h *DemoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := request.FromHTTP(r, h.opts)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	res := h.dispatcher.Dispatch(r.Context(), req)
	switch res.Kind {
	case dispatch.KindJSON, dispatch.KindPatch:
		h.writeJSON(w, r, res, req.Origin)
	case dispatch.KindError:
		h.errorHandler.HandleError(w, r, res.Err)
	case dispatch.KindStream:
		h.responder.Serve(w, r, res.Source, req.Origin)
	case dispatch.KindFile:
		h.serveFile(w, r, res)
	default:
		h.errorHandler.HandleError(w, r, fmt.Errorf("unhandled result kind %s", res.Kind))
	}
}

func (h *DemoHandler) writeJSON(w http.ResponseWriter, r *http.Request, res dispatch.Result, origin string) {
	body, err := hypermedia.Encode(res.Value)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", res.MediaType)
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.DebugContext(r.Context(), "Failed to write response", slog.String("error", err.Error()))
	}
}

// serveFile sends a client file from the web directory
func (h *DemoHandler) serveFile(w http.ResponseWriter, r *http.Request, res dispatch.Result) {
	path := filepath.Join(h.webDir, res.File)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.logger.WarnContext(r.Context(), "Client file missing", slog.String("path", path))
			h.errorHandler.HandleError(w, r, apierrors.ErrNotFound)
			return
		}
		h.errorHandler.HandleError(w, r, fmt.Errorf("open %s: %w", path, err))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("stat %s: %w", path, err))
		return
	}

	w.Header().Set("Content-Type", res.MediaType)
	http.ServeContent(w, r, res.File, info.ModTime(), f)
}
