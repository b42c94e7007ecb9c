package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/plansplit/internal/pdftext"
	"github.com/dgallion1/plansplit/internal/report"
	"github.com/dgallion1/plansplit/internal/session"
	"github.com/dgallion1/plansplit/internal/splitter"
)

const (
	modePatterns = "patterns"
	modeStride   = "stride"

	nameModePattern = "pattern"
	nameModeLabels  = "labels"

	// ReportEntryName is the workbook's file name inside the archive.
	ReportEntryName = "reporte.xlsx"
)

// defaultPatterns seeds the pattern textarea with the start markers found on
// most lesson-plan bundles.
const defaultPatterns = `^\s*plan\s+de\s+clase
^\s*profesor(?:a)?\s*:\s*(.+)$
^\s*docente\s*:\s*(.+)$`

const defaultLabels = "profesor\nprofesora\ndocente"

const defaultFilterLabels = "saldo"

// splitRequest carries one request's configuration, parsed from the form.
type splitRequest struct {
	Mode          string
	Patterns      []string
	HeaderLines   int
	Stride        int
	NameMode      string
	Labels        []string
	Cutoff        string
	ScanPages     int
	LinesPerPage  int
	Prefix        string
	FilterEnabled bool
	FilterLabels  []string
	IncludeReport bool
}

func (s *Server) defaultForm() formState {
	return formState{
		Mode:          modePatterns,
		Patterns:      strings.ReplaceAll(defaultPatterns, "\n", "\r\n"),
		HeaderLines:   s.cfg.DefaultHeaderLines,
		Stride:        s.cfg.DefaultStride,
		NameMode:      nameModePattern,
		Labels:        strings.ReplaceAll(defaultLabels, "\n", "\r\n"),
		Cutoff:        splitter.DefaultCutoff,
		ScanPages:     s.cfg.DefaultScanPages,
		LinesPerPage:  s.cfg.DefaultLinesPerPage,
		FilterLabels:  defaultFilterLabels,
		IncludeReport: true,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, &viewData{Form: s.defaultForm()})
}

// parseRequest reads the multipart form shared by preview and export. It
// returns the parsed configuration, the uploaded PDF bytes and the original
// file name.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (*splitRequest, []byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, nil, "", fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, "", errors.New("sube un PDF para continuar")
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, nil, "", fmt.Errorf("tipo de archivo no soportado: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, nil, "", errors.New("no se pudo leer el archivo")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, nil, "", fmt.Errorf("el archivo supera el tamaño máximo (%d bytes)", s.cfg.MaxUploadBytes)
	}

	req := &splitRequest{
		Mode:          formChoice(r, "mode", modePatterns, modeStride),
		Patterns:      splitLines(r.FormValue("patterns")),
		HeaderLines:   formInt(r, "header_lines", s.cfg.DefaultHeaderLines, 0, 120),
		Stride:        formInt(r, "stride", s.cfg.DefaultStride, 1, 100),
		NameMode:      formChoice(r, "name_mode", nameModePattern, nameModeLabels),
		Labels:        splitLines(r.FormValue("labels")),
		Cutoff:        strings.TrimSpace(r.FormValue("cutoff")),
		ScanPages:     formInt(r, "scan_pages", s.cfg.DefaultScanPages, 1, 10),
		LinesPerPage:  formInt(r, "lines_per_page", s.cfg.DefaultLinesPerPage, 5, 120),
		Prefix:        strings.TrimSpace(r.FormValue("prefix")),
		FilterEnabled: r.FormValue("filter_enabled") != "",
		FilterLabels:  splitLines(r.FormValue("filter_labels")),
		IncludeReport: r.FormValue("include_report") != "",
	}
	if len(req.Patterns) > s.cfg.MaxPatterns {
		return nil, nil, "", fmt.Errorf("demasiados patrones: máximo %d", s.cfg.MaxPatterns)
	}
	return req, data, filename, nil
}

// formRestate echoes the submitted configuration back into the form so a
// preview or an error does not wipe the user's input.
func (s *Server) formRestate(req *splitRequest) formState {
	return formState{
		Mode:          req.Mode,
		Patterns:      strings.Join(req.Patterns, "\r\n"),
		HeaderLines:   req.HeaderLines,
		Stride:        req.Stride,
		NameMode:      req.NameMode,
		Labels:        strings.Join(req.Labels, "\r\n"),
		Cutoff:        req.Cutoff,
		ScanPages:     req.ScanPages,
		LinesPerPage:  req.LinesPerPage,
		Prefix:        req.Prefix,
		FilterEnabled: req.FilterEnabled,
		FilterLabels:  strings.Join(req.FilterLabels, "\r\n"),
		IncludeReport: req.IncludeReport,
	}
}

// buildRanges applies the configured division strategy.
func (s *Server) buildRanges(req *splitRequest, doc *pdftext.Document) ([]splitter.Range, error) {
	if req.Mode == modeStride {
		return splitter.FixedStride(doc.PageCount(), req.Stride), nil
	}
	matchers := splitter.CompilePatterns(req.Patterns)
	starts, err := splitter.DetectStarts(doc, matchers, req.HeaderLines)
	if err != nil {
		return nil, err
	}
	return splitter.RangesFromStarts(doc.PageCount(), starts), nil
}

func (s *Server) fieldExtractor(req *splitRequest) splitter.FieldExtractor {
	window := splitter.ScanWindow{Pages: req.ScanPages, LinesPerPage: req.LinesPerPage}
	if req.NameMode == nameModeLabels {
		return splitter.NewLabelSet(req.Labels, window, s.cfg.NameMaxLen)
	}
	return splitter.LabelPattern{
		Label:  splitter.DefaultNameLabel,
		Cutoff: req.Cutoff,
		Window: window,
		MaxLen: s.cfg.NameMaxLen,
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, data, filename, err := s.parseRequest(w, r)
	if err != nil {
		s.renderPage(w, http.StatusBadRequest, &viewData{Form: s.defaultForm(), Error: err.Error()})
		return
	}
	form := s.formRestate(req)

	doc, err := pdftext.Load(data)
	if err != nil {
		s.log.Error("pdf load failed", "filename", filename, "error", err)
		s.renderPage(w, http.StatusUnprocessableEntity, &viewData{Form: form, Error: "no se pudo leer el PDF: " + err.Error()})
		return
	}

	ranges, err := s.buildRanges(req, doc)
	if err != nil {
		if errors.Is(err, splitter.ErrNoSections) {
			s.renderPage(w, http.StatusOK, &viewData{Form: form, Warning: "No se detectaron inicios de sección. Ajusta los patrones o usa el modo de N páginas."})
			return
		}
		s.renderPage(w, http.StatusBadRequest, &viewData{Form: form, Error: err.Error()})
		return
	}

	preview := &previewView{Filename: filename, TotalPages: doc.PageCount()}
	for i, rg := range ranges {
		preview.Sections = append(preview.Sections, sectionView{
			Order:     i + 1,
			StartPage: rg.Start + 1,
			EndPage:   rg.End,
			Pages:     rg.Pages(),
			Label:     rg.Label,
		})
	}
	s.renderPage(w, http.StatusOK, &viewData{Form: form, Preview: preview})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, data, filename, err := s.parseRequest(w, r)
	if err != nil {
		s.renderPage(w, http.StatusBadRequest, &viewData{Form: s.defaultForm(), Error: err.Error()})
		return
	}
	form := s.formRestate(req)

	doc, err := pdftext.Load(data)
	if err != nil {
		s.log.Error("pdf load failed", "filename", filename, "error", err)
		s.renderPage(w, http.StatusUnprocessableEntity, &viewData{Form: form, Error: "no se pudo leer el PDF: " + err.Error()})
		return
	}

	ranges, err := s.buildRanges(req, doc)
	if err != nil {
		if errors.Is(err, splitter.ErrNoSections) {
			s.renderPage(w, http.StatusOK, &viewData{Form: form, Warning: "No se detectaron inicios de sección. Revisa los patrones."})
			return
		}
		s.renderPage(w, http.StatusBadRequest, &viewData{Form: form, Error: err.Error()})
		return
	}

	exp := &splitter.Exporter{
		Prefix: req.Prefix,
		Names:  s.fieldExtractor(req),
		MaxLen: s.cfg.NameMaxLen,
		Log:    s.log,
	}
	if req.FilterEnabled {
		exp.Filter = splitter.NewNegativeFilter(req.FilterLabels, splitter.ScanWindow{
			Pages:        req.ScanPages,
			LinesPerPage: req.LinesPerPage,
		})
	}

	// Build the workbook once; embed it when asked and keep it for the
	// standalone download either way.
	var reportBytes []byte
	buildReport := func(records []splitter.Record, rejected []splitter.Rejected) ([]byte, error) {
		b, err := report.Build(records, rejected)
		if err == nil {
			reportBytes = b
		}
		return b, err
	}
	if req.IncludeReport {
		exp.ReportName = ReportEntryName
		exp.Report = buildReport
	}

	res, err := exp.Export(doc, ranges)
	if err != nil {
		s.log.Error("export failed", "filename", filename, "error", err)
		s.renderPage(w, http.StatusInternalServerError, &viewData{Form: form, Error: "la exportación falló: " + err.Error()})
		return
	}
	if reportBytes == nil {
		if reportBytes, err = report.Build(res.Records, res.Rejected); err != nil {
			s.log.Error("report build failed", "filename", filename, "error", err)
			s.renderPage(w, http.StatusInternalServerError, &viewData{Form: form, Error: "no se pudo generar el reporte: " + err.Error()})
			return
		}
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	artifacts := &session.Artifacts{
		ArchiveName: stem + "_split.zip",
		Archive:     res.Archive,
		ReportName:  stem + "_reporte.xlsx",
		Report:      reportBytes,
		Accepted:    len(res.Records),
		Rejected:    len(res.Rejected),
		CreatedAt:   time.Now(),
	}
	s.sessions.Put(sessionID(r), artifacts)

	s.renderPage(w, http.StatusOK, &viewData{
		Form: form,
		Export: &exportView{
			Filename:    filename,
			Accepted:    artifacts.Accepted,
			Rejected:    artifacts.Rejected,
			ArchiveName: artifacts.ArchiveName,
			ReportName:  artifacts.ReportName,
		},
	})
}

func (s *Server) handleDownloadArchive(w http.ResponseWriter, r *http.Request) {
	a := s.sessions.Get(sessionID(r))
	if a == nil || len(a.Archive) == 0 {
		http.Error(w, "no hay exportación disponible", http.StatusNotFound)
		return
	}
	serveAttachment(w, a.ArchiveName, "application/zip", a.Archive)
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	a := s.sessions.Get(sessionID(r))
	if a == nil || len(a.Report) == 0 {
		http.Error(w, "no hay exportación disponible", http.StatusNotFound)
		return
	}
	serveAttachment(w, a.ReportName,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", a.Report)
}

func serveAttachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// splitLines breaks a textarea value into trimmed, non-empty lines.
func splitLines(v string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(v, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func formChoice(r *http.Request, name, fallback string, alternatives ...string) string {
	v := r.FormValue(name)
	for _, alt := range alternatives {
		if v == alt {
			return v
		}
	}
	return fallback
}

func formInt(r *http.Request, name string, fallback, min, max int) int {
	v := r.FormValue(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
