package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/engine"
	"expediente/internal/fusion/handler/mocks"
	"expediente/internal/fusion/orchestrator"
	"expediente/internal/fusion/review"
	"expediente/internal/fusion/sanitize"
	"expediente/internal/fusion/service"
	"expediente/pkg/domain"
	dErrors "expediente/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/service-mocks.go -package=mocks Service
type FusionHandlerSuite struct {
	suite.Suite
	ctx     context.Context
	service *mocks.MockService
	router  http.Handler
}

func TestFusionHandlerSuite(t *testing.T) {
	suite.Run(t, new(FusionHandlerSuite))
}

func (s *FusionHandlerSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	New(s.service, logger).Register(r)
	s.router = r
}

func (s *FusionHandlerSuite) post(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/fusion/expedientes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *FusionHandlerSuite) fusedResult(sources models.SourceSet) *service.Result {
	out, err := orchestrator.FuseRecord(s.ctx, sources, engine.DefaultReliability())
	s.Require().NoError(err)
	return &service.Result{
		FusionID:     domain.NewFusionID(),
		Outcome:      out,
		Sources:      sources.Present(),
		NeedsReview:  len(out.Conflicts) > 0,
		ReviewReason: review.Decide(len(out.Conflicts), out.OverallConfidence, 0.7),
		FusedAt:      time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC),
	}
}

func (s *FusionHandlerSuite) TestHandleFuse_Success() {
	var got service.Request
	s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.Request) (*service.Result, error) {
			got = req
			return s.fusedResult(req.Sources), nil
		})

	rec := s.post(`{"sources": {
		"xml": {"case_number": "123/2025", "tax_id": "APON33333444", "reception_date": "2025-01-15"},
		"ocr": {"case_number": "123/2025", "tax_id": "AP0N33333444", "reception_date": "20250115"}
	}}`)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NotNil(got.Sources.Markup)
	s.Require().NotNil(got.Sources.OCR)
	s.Nil(got.Sources.Word)
	s.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), got.Sources.OCR.ReceptionDate)

	var resp FuseResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("123/2025", resp.Record.CaseNumber)
	s.Equal("APON33333444", resp.Record.TaxID)
	s.Equal("2025-01-15", resp.Record.ReceptionDate)
	s.Equal([]string{"TaxID"}, resp.Conflicts)
	s.True(resp.NeedsReview)
	s.Contains([]string{string(review.ReasonConflicts), string(review.ReasonBoth)}, resp.ReviewReason)
	s.Equal([]string{"xml", "ocr"}, resp.Sources)
	s.Len(resp.Fields, len(orchestrator.Fields()))
	s.Equal("CaseNumber", resp.Fields[0].Field)

	byKey := map[string]FieldResponse{}
	for _, f := range resp.Fields {
		byKey[f.Field] = f
	}
	tax := byKey["TaxID"]
	s.True(tax.Conflicted)
	s.Equal("xml", tax.WinningSource)
	s.Require().Len(tax.Candidates, 2)
	s.Equal("xml", tax.Candidates[0].Source)
	s.Equal("AP0N33333444", tax.Candidates[1].Value)
	s.False(tax.Candidates[1].MatchesPattern)

	court := byKey["Court"]
	s.Nil(court.Value, "unresolved fields serialize as null")
	s.Empty(court.Candidates)
}

func (s *FusionHandlerSuite) TestHandleFuse_NullValueIsJSONNull() {
	s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.Request) (*service.Result, error) {
			return s.fusedResult(req.Sources), nil
		})

	rec := s.post(`{"sources": {"docx": {"court": "Juzgado Primero"}}}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var raw struct {
		Fields []map[string]any `json:"fields"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &raw))
	for _, f := range raw.Fields {
		if f["field"] == "Subject" {
			v, present := f["value"]
			s.True(present)
			s.Nil(v)
		}
	}
}

func (s *FusionHandlerSuite) TestHandleFuse_RejectsBadRequests() {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"empty body", ``, string(dErrors.CodeBadRequest)},
		{"malformed json", `{"sources":`, string(dErrors.CodeBadRequest)},
		{"no sources", `{"sources": {}}`, string(dErrors.CodeValidation)},
		{"too many parties", `{"sources": {"ocr": {"parties": [` + strings.Repeat(`{"name":"A"},`, maxParties) + `{"name":"B"}]}}}`, string(dErrors.CodeValidation)},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.post(tt.body)

			s.Equal(http.StatusBadRequest, rec.Code)
			var body map[string]string
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
			s.Equal(tt.wantCode, body["error"])
		})
	}
}

func (s *FusionHandlerSuite) TestHandleFuse_AnnotatedDateIsAbsent() {
	s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.Request) (*service.Result, error) {
			s.True(req.Sources.Markup.DueDate.IsZero())
			return s.fusedResult(req.Sources), nil
		})

	rec := s.post(`{"sources": {"xml": {"case_number": "1/2025", "due_date": "No disponible"}}}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *FusionHandlerSuite) TestHandleFuse_GarbledOCRDateKeepsOtherFields() {
	var got service.Request
	s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req service.Request) (*service.Result, error) {
			got = req
			return s.fusedResult(req.Sources), nil
		})

	rec := s.post(`{"sources": {
		"xml": {"case_number": "123/2025", "tax_id": "PEGJ800101AB1", "due_date": "15/01/2025"},
		"ocr": {"case_number": "123/2025", "tax_id": "PEGJ800101AB1", "reception_date": "2O250115"}
	}}`)

	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Require().NotNil(got.Sources.OCR)
	s.True(got.Sources.OCR.ReceptionDate.IsZero())
	s.True(got.Sources.Markup.DueDate.IsZero())

	var resp FuseResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal([]string{"xml", "ocr"}, resp.Sources)
	byKey := map[string]FieldResponse{}
	for _, f := range resp.Fields {
		byKey[f.Field] = f
	}
	tax := byKey["TaxID"]
	s.Require().Len(tax.Candidates, 2)
	s.Equal("ocr", tax.Candidates[1].Source)
	s.Equal("PEGJ800101AB1", tax.Candidates[1].Value)
	s.Nil(byKey["ReceptionDate"].Value)
}

func (s *FusionHandlerSuite) TestHandleFuse_ConfiguredAnnotations() {
	tests := []struct {
		name        string
		opts        []Option
		wantWarning bool
	}{
		{"default annotations", nil, true},
		{"profile annotation", []Option{WithSanitizer(sanitize.New("pendiente de captura"))}, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			var logs bytes.Buffer
			r := chi.NewRouter()
			New(s.service, slog.New(slog.NewTextHandler(&logs, nil)), tt.opts...).Register(r)
			s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, req service.Request) (*service.Result, error) {
					s.True(req.Sources.Markup.DueDate.IsZero())
					return s.fusedResult(req.Sources), nil
				})

			req := httptest.NewRequest(http.MethodPost, "/fusion/expedientes",
				strings.NewReader(`{"sources": {"xml": {"case_number": "1/2025", "due_date": "Pendiente de captura"}}}`))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			s.Equal(http.StatusOK, rec.Code)
			s.Equal(tt.wantWarning, strings.Contains(logs.String(), "xml.due_date"))
		})
	}
}

func (s *FusionHandlerSuite) TestHandleFuse_ServiceErrors() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDesc   bool
	}{
		{"timeout", dErrors.Wrap(context.DeadlineExceeded, dErrors.CodeTimeout, "fusion cancelled"), http.StatusGatewayTimeout, true},
		{"internal", dErrors.New(dErrors.CodeInternal, "orchestrator failed"), http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.service.EXPECT().Fuse(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := s.post(`{"sources": {"xml": {"case_number": "1/2025"}}}`)

			s.Equal(tt.wantStatus, rec.Code)
			var body map[string]string
			s.Require().NoError(json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&body))
			_, hasDesc := body["error_description"]
			s.Equal(tt.wantDesc, hasDesc)
		})
	}
}
