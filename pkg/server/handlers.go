package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/rfdraw/pkg/buildinfo"
	"github.com/matzehuels/rfdraw/pkg/errors"
	"github.com/matzehuels/rfdraw/pkg/renderer"
	"github.com/matzehuels/rfdraw/pkg/sheet"
)

// maxBodyBytes bounds request bodies; requests only carry paths.
const maxBodyBytes = 64 << 10

// ExportRequest is the body of POST /v1/export and POST /v1/compile.
type ExportRequest struct {
	Input     string `json:"input" validate:"required,max=1024"`
	OutputDir string `json:"output_dir,omitempty" validate:"omitempty,max=1024"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ProbeResponse is one renderer search candidate.
type ProbeResponse struct {
	Path   string `json:"path"`
	Intent string `json:"intent"`
	Exists bool   `json:"exists"`
}

// LocateResponse is the body of GET /v1/locate.
type LocateResponse struct {
	Platform   string          `json:"platform"`
	Packaging  string          `json:"packaging"`
	Candidates []ProbeResponse `json:"candidates"`
	Resolved   string          `json:"resolved,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Export(r.Context(), req.Input, req.OutputDir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := s.runner.Compile(r.Context(), req.Input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(g.Bytes())
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	resp := LocateResponse{
		Platform:  string(s.locator.Env.Family),
		Packaging: string(s.locator.Env.Packaging),
	}
	for _, p := range s.locator.Describe() {
		resp.Candidates = append(resp.Candidates, ProbeResponse{Path: p.Path, Intent: p.Intent, Exists: p.Exists})
		if p.Exists && resp.Resolved == "" {
			resp.Resolved = p.Path
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (*ExportRequest, error) {
	var req ExportRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return nil, errors.New(errors.ErrCodeInvalidInput, "field %s failed %q validation", f.Field(), f.Tag())
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}

	if err := errors.ValidateInputPath(req.Input, sheet.Extensions...); err != nil {
		return nil, err
	}
	if err := errors.ValidateOutputDir(req.OutputDir); err != nil {
		return nil, err
	}
	return &req, nil
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeDataSource:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeExecutableNotFound:
		return http.StatusServiceUnavailable
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)

	resp := ErrorResponse{Code: string(code), Message: errors.UserMessage(err)}

	var (
		notFound *renderer.ExecutableNotFoundError
		failed   *renderer.RenderFailedError
	)
	switch {
	case stderrors.As(err, &failed):
		resp.Message = fmt.Sprintf("graphviz exited with code %d", failed.ExitCode)
		resp.Detail = failed.Error()
	case stderrors.As(err, &notFound):
		resp.Message = "graphviz executable not found"
		resp.Detail = notFound.Error()
	}

	level := s.logger.Warn
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("request failed", "id", RequestIDFromContext(r.Context()), "code", code, "err", err)

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
