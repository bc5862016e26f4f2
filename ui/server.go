// Package ui serves a small web page and HTTP endpoint for formatting
// documents.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/xmlalign/format"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("xmlalign.ui")

// MaxDocumentSize bounds request bodies.
const MaxDocumentSize = 32 << 20

type Server struct {
	templates *template.Template
	mux       *http.ServeMux
	opts      format.Options
}

type page struct {
	Text    string
	Message string
	Failed  bool
}

type formatResponse struct {
	Formatted string `json:"formatted,omitempty"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Changed   bool   `json:"changed"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`
}

func NewServer(opts format.Options) (*Server, error) {
	tmpl, err := template.ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: tmpl,
		mux:       http.NewServeMux(),
		opts:      opts,
	}

	s.mux.HandleFunc("POST /format", s.handleFormat)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, status int, data page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Errorf("render: %v", err)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, page{})
}

// handleFormat accepts either a raw XML body or a form with an "xml"
// field. Raw bodies get the formatted document back; forms get the page.
// Clients asking for application/json get a formatResponse.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxDocumentSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	raw := mediaType == "application/xml" || mediaType == "text/xml"

	var text string
	if raw {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		text = string(body)
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data: "+err.Error(), http.StatusBadRequest)
			return
		}
		text = r.FormValue("xml")
	}

	res, err := format.Format([]byte(text), s.opts)

	switch {
	case wantsJSON(r):
		s.writeJSON(w, res, err)
	case raw:
		s.writeRaw(w, res, err)
	case err != nil:
		s.render(w, http.StatusUnprocessableEntity, page{Text: text, Message: format.FailedMessage(err), Failed: true})
	default:
		s.render(w, http.StatusOK, page{Text: string(res.Formatted), Message: format.CompletedMessage(res.Elapsed)})
	}
}

// wantsJSON reports whether any Accept entry names application/json with a
// non-zero quality.
func wantsJSON(r *http.Request) bool {
	for _, header := range r.Header.Values("Accept") {
		for _, entry := range strings.Split(header, ",") {
			mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(entry))
			if err != nil || mediaType != "application/json" {
				continue
			}
			if q, err := strconv.ParseFloat(params["q"], 64); err == nil && q == 0 {
				continue
			}
			return true
		}
	}
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, res *format.Result, err error) {
	w.Header().Set("Content-Type", "application/json")
	var resp formatResponse
	if err != nil {
		resp.Message = format.FailedMessage(err)
		resp.Error = err.Error()
		w.WriteHeader(http.StatusUnprocessableEntity)
	} else {
		resp.Formatted = string(res.Formatted)
		resp.ElapsedMS = res.Elapsed.Milliseconds()
		resp.Changed = res.Changed
		resp.Message = format.CompletedMessage(res.Elapsed)
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Errorf("encode response: %v", err)
	}
}

func (s *Server) writeRaw(w http.ResponseWriter, res *format.Result, err error) {
	if err != nil {
		http.Error(w, format.FailedMessage(err), http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("X-Elapsed-Ms", strconv.FormatInt(res.Elapsed.Milliseconds(), 10))
	w.Write(res.Formatted)
}
