package api

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/flowschem/pkg/buildinfo"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/pipeline"
	"github.com/matzehuels/flowschem/pkg/render/sink"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// handleLayout runs the layout stage and returns the geometry with the
// render ID as its ID.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := readDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	if err := opts.ValidateForParse(); err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := pipeline.Parse(opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	layout, hit, err := s.runner.GenerateLayoutWithCacheInfo(r.Context(), doc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(layout, sink.WithLayoutID(RenderID(r.Context())))
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, hit)
	writeBytes(w, contentTypes[pipeline.FormatJSON], data)
}

// handleRender runs the whole pipeline for one format.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, r, err)
		return
	}

	opts, err := readDocument(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Logger = s.logger
	opts.Formats = []string{format}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"
	opts.Detailed = r.URL.Query().Get("detailed") == "true"
	if scale := r.URL.Query().Get("scale"); scale != "" {
		v, err := strconv.ParseFloat(scale, 64)
		if err != nil {
			writeError(w, r, fserr.New(fserr.ErrCodeInvalidInput, "invalid scale %q", scale))
			return
		}
		opts.Scale = v
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.RenderHit)
	writeBytes(w, contentTypes[format], result.Artifacts[format])
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
