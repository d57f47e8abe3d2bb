package chi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/kailas-cloud/segmenter/internal/domain"
	domchart "github.com/kailas-cloud/segmenter/internal/domain/chart"
	"github.com/kailas-cloud/segmenter/internal/domain/customer"
	domseg "github.com/kailas-cloud/segmenter/internal/domain/segment"
	logpkg "github.com/kailas-cloud/segmenter/internal/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

var reasons = []string{
	"Helps marketing teams personalize offers",
	"Identifies churn-risk customers early",
	"Improves customer retention strategies",
}

type pageData struct {
	MinAge     int
	Form       map[string]string
	Educations []string
	Livings    []string
	Segments   []domseg.Segment
	Reasons    []string
	Result     *resultView
	Error      string
	Charts     []chartView
}

type resultView struct {
	ID      string
	Cluster int
	Label   string
}

type chartView struct {
	Title       string
	Placeholder string
	Empty       bool
	URL         string
	Slices      []domchart.Slice
}

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.newPage(customer.Default(), nil))
}

// PredictForm handles POST /predict.
func (s *Server) PredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		page := s.newPage(customer.Default(), nil)
		page.Error = "Invalid form submission."
		s.renderPage(w, r, http.StatusBadRequest, page)
		return
	}

	p, err := profileFromValues(r.PostForm)
	if err != nil {
		page := s.newPage(customer.Default(), nil)
		overlayForm(page.Form, r.PostForm)
		page.Error = err.Error()
		s.renderPage(w, r, http.StatusBadRequest, page)
		return
	}

	pred, err := s.segments.Predict(r.Context(), p)
	if err != nil {
		page := s.newPage(p, nil)
		status := http.StatusInternalServerError
		page.Error = "Prediction failed: internal error."
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
			page.Error = err.Error()
		} else {
			logpkg.FromContextOr(r.Context(), s.logger).Error("form prediction failed", zap.Error(err))
		}
		s.renderPage(w, r, status, page)
		return
	}

	s.renderPage(w, r, http.StatusOK, s.newPage(p, &pred))
}

func (s *Server) newPage(p customer.Profile, pred *domseg.Prediction) pageData {
	values := profileValues(p)
	form := make(map[string]string, len(values))
	for k := range values {
		form[k] = values.Get(k)
	}

	page := pageData{
		MinAge:     customer.MinAge,
		Form:       form,
		Educations: educationNames(),
		Livings:    livingNames(),
		Segments:   s.segments.Segments(),
		Reasons:    reasons,
	}

	fin, eng := s.segments.Charts(p)
	if pred != nil {
		fin, eng = pred.Financial(), pred.Engagement()
		page.Result = &resultView{
			ID:      pred.ID(),
			Cluster: pred.Segment().Cluster(),
			Label:   pred.Segment().Label(),
		}
	}
	page.Charts = []chartView{
		newChartView(fin, "/charts/financial.svg?"+chartQuery(p, fieldIncome, fieldTotalSpending)),
		newChartView(eng, "/charts/engagement.svg?"+
			chartQuery(p, fieldWebPurchases, fieldStorePurchases, fieldWebVisits)),
	}
	return page
}

func newChartView(c domchart.Proportion, url string) chartView {
	return chartView{
		Title:       c.Title(),
		Placeholder: c.Placeholder(),
		Empty:       c.Empty(),
		URL:         url,
		Slices:      c.Slices(),
	}
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		logpkg.FromContextOr(r.Context(), s.logger).Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// overlayForm keeps what the user typed so a rejected form is not reset.
func overlayForm(form map[string]string, submitted map[string][]string) {
	for k := range form {
		if vs := submitted[k]; len(vs) > 0 {
			form[k] = vs[0]
		}
	}
}

func educationNames() []string {
	out := make([]string, 0, len(customer.Educations()))
	for _, e := range customer.Educations() {
		out = append(out, string(e))
	}
	return out
}

func livingNames() []string {
	out := make([]string, 0, len(customer.LivingStatuses()))
	for _, l := range customer.LivingStatuses() {
		out = append(out, string(l))
	}
	return out
}
