package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"insighto/adapters/csvfile"
	dash "insighto/domain/dashboard"
	"insighto/domain/table"
)

const maxUploadBytes = 50 << 20 // 50MB

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload with a "dataset" CSV file and
// an optional "template" JSON document, runs the pipeline once and
// returns the full analysis result.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	t, name, tmpl, ok := a.readUpload(w, r)
	if !ok {
		return
	}
	result := a.service.Analyze(r.Context(), t, tmpl, name)
	writeJSON(w, http.StatusOK, result)
}

// handleReport runs the same pipeline but responds with a rendered HTML
// report instead of JSON.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	t, name, tmpl, ok := a.readUpload(w, r)
	if !ok {
		return
	}
	result := a.service.Analyze(r.Context(), t, tmpl, name)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(RenderHTMLReport(result))
}

func (a *App) readUpload(w http.ResponseWriter, r *http.Request) (*table.Table, string, *dash.Template, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return nil, "", nil, false
	}

	file, header, err := r.FormFile("dataset")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing dataset file")
		return nil, "", nil, false
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" && ext != "" {
		writeError(w, http.StatusBadRequest, "only CSV uploads are supported on this endpoint")
		return nil, "", nil, false
	}

	t, err := csvfile.Parse(r.Context(), file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse dataset: "+err.Error())
		return nil, "", nil, false
	}

	tmpl := dash.DefaultTemplate()
	if tmplFile, _, err := r.FormFile("template"); err == nil {
		defer tmplFile.Close()
		data, err := io.ReadAll(tmplFile)
		if err == nil {
			parsed, perr := dash.ParseTemplate(data)
			if perr != nil {
				writeError(w, http.StatusBadRequest, "invalid template: "+perr.Error())
				return nil, "", nil, false
			}
			tmpl = parsed
		}
	}

	return t, header.Filename, tmpl, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
