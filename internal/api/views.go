package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// formState echoes the configuration back into the form controls.
type formState struct {
	Mode          string
	Patterns      string
	HeaderLines   int
	Stride        int
	NameMode      string
	Labels        string
	Cutoff        string
	ScanPages     int
	LinesPerPage  int
	Prefix        string
	FilterEnabled bool
	FilterLabels  string
	IncludeReport bool
}

type sectionView struct {
	Order     int
	StartPage int
	EndPage   int
	Pages     int
	Label     string
}

type previewView struct {
	Filename   string
	TotalPages int
	Sections   []sectionView
}

type exportView struct {
	Filename    string
	Accepted    int
	Rejected    int
	ArchiveName string
	ReportName  string
}

type viewData struct {
	Form    formState
	Error   string
	Warning string
	Preview *previewView
	Export  *exportView
	Tips    template.HTML
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data *viewData) {
	data.Tips = tipsHTML()

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		s.log.Error("template render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
