package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/theirongolddev/dealcast/internal/chart"
	"github.com/theirongolddev/dealcast/internal/cli"
	"github.com/theirongolddev/dealcast/internal/export"
	"github.com/theirongolddev/dealcast/internal/forecast"
	"github.com/theirongolddev/dealcast/internal/model"
	"github.com/theirongolddev/dealcast/internal/source"
)

type ctxKey struct{}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// UploadResponse describes a stored upload.
type UploadResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Deals   []cli.DealEntry `json:"deals"`
	Periods []string        `json:"periods"`
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, status int, body ErrorResponse) {
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed", "status", status, "error", body.Error)
	} else {
		s.log.DebugContext(r.Context(), "request rejected", "status", status, "error", body.Error)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

func (s *Service) uploadCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			s.fail(w, r, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(ctxKey{}).(*Session)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.snapshotStatus())
}

func (s *Service) handlePeriods(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{
		"periods": cli.PeriodStrings(forecast.PeriodOptions(s.cfg.Now())),
	})
}

func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.recentEvents())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	writeSSE(w, Event{Type: "hello", Timestamp: s.cfg.Now()})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.fail(w, r, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "upload too large"})
			return
		}
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("parsing upload: %v", err)})
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: `missing multipart field "file"`})
		return
	}
	defer file.Close()

	res, err := source.Read(file, hdr.Filename, s.cfg.Sheet)
	if err != nil {
		var se *source.SchemaError
		if errors.As(err, &se) {
			s.fail(w, r, http.StatusUnprocessableEntity, ErrorResponse{Error: se.Error(), Missing: se.Missing})
			return
		}
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	sess := s.sessions.Create(hdr.Filename, res.Deals, s.cfg.Now())
	s.log.InfoContext(r.Context(), "upload stored",
		"upload_id", sess.ID,
		"name", hdr.Filename,
		"deals", len(res.Deals),
		"bad_values", res.BadValues,
		"bad_dates", res.BadDates,
	)

	period, _ := forecast.SelectPeriod(s.cfg.DefaultPeriod, s.cfg.Now())
	rep := s.evaluate(sess, period)
	s.publishEvent(Event{Type: "upload_created", UploadID: sess.ID, Period: rep.Period.String(), Totals: totalsOf(rep)})

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, s.uploadResponse(sess))
}

func (s *Service) uploadResponse(sess *Session) UploadResponse {
	resp := UploadResponse{
		ID:      sess.ID,
		Name:    sess.Name,
		Deals:   make([]cli.DealEntry, 0, len(sess.Deals())),
		Periods: cli.PeriodStrings(forecast.PeriodOptions(s.cfg.Now())),
	}
	for _, d := range sess.Deals() {
		resp.Deals = append(resp.Deals, cli.NewDealEntry(d))
	}
	return resp
}

func (s *Service) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, s.uploadResponse(sessionFrom(r)))
}

func (s *Service) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	if err := s.sessions.Delete(sess.ID); err != nil {
		s.fail(w, r, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	s.publishEvent(Event{Type: "upload_deleted", UploadID: sess.ID})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleSetDispositions(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var body map[string]string
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("decoding body: %v", err)})
		return
	}

	updates := make(model.Choices, len(body))
	for key, action := range body {
		d := model.ParseDisposition(action)
		if !d.Valid() {
			s.fail(w, r, http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("invalid action %q for %s (want win, advance or bin)", action, key),
			})
			return
		}
		updates[key] = d
	}

	period, ok := s.period(w, r)
	if !ok {
		return
	}
	if err := sess.SetChoices(updates); err != nil {
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	rep := s.evaluate(sess, period)
	s.publishEvent(Event{Type: "dispositions_updated", UploadID: sess.ID, Period: rep.Period.String(), Totals: totalsOf(rep)})

	render.JSON(w, r, cli.NewDocument(rep))
}

func (s *Service) handleForecast(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, cli.NewDocument(s.evaluate(sessionFrom(r), period)))
}

func (s *Service) handleChart(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := chart.Render(&buf, s.evaluate(sessionFrom(r), period)); err != nil {
		s.fail(w, r, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Service) handleExport(w http.ResponseWriter, r *http.Request) {
	period, ok := s.period(w, r)
	if !ok {
		return
	}
	sess := sessionFrom(r)

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, s.evaluate(sess, period)); err != nil {
		s.fail(w, r, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	name := strings.TrimSuffix(sess.Name, ".csv")
	name = strings.TrimSuffix(name, ".xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%s.xlsx"`, name, period))
	_, _ = w.Write(buf.Bytes())
}

// period resolves the ?period= query parameter, writing a 400 on failure.
func (s *Service) period(w http.ResponseWriter, r *http.Request) (model.Period, bool) {
	token := r.URL.Query().Get("period")
	if token == "" {
		token = s.cfg.DefaultPeriod
	}
	p, err := forecast.SelectPeriod(token, s.cfg.Now())
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return model.Period{}, false
	}
	return p, true
}

func (s *Service) evaluate(sess *Session, period model.Period) model.Report {
	return forecast.Evaluate(sess.Deals(), sess.Choices(), period, forecast.Options{
		Now:                s.cfg.Now,
		DefaultDisposition: s.cfg.DefaultDisposition,
	})
}

func totalsOf(rep model.Report) *cli.TotalsEntry {
	t := cli.NewDocument(rep).Totals
	return &t
}
