package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/okian/radar/internal/adapters/http/site"
	service "github.com/okian/radar/internal/app"
)

// HandleIndex handles GET / and serves the submission form.
func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.pages.Index(w); err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
	}
}

// HandlePostResult handles POST /result with multipart fields name and photo.
func (s *Server) HandlePostResult(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)

	sub, cleanup, err := readSubmission(r)
	defer cleanup()
	if err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
		return
	}

	res, err := s.deps.Submit(r.Context(), sub)
	if err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
		return
	}

	page := site.NewResultPage(res.Name, res.Photo, res.Chart, res.Stats)
	if err := s.pages.Result(w, page); err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
	}
}

// HandleLeaderboardPage handles GET /leaderboard?category=C.
func (s *Server) HandleLeaderboardPage(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = s.deps.DefaultCategory().String()
	}

	entries, err := s.deps.Top(r.Context(), category, 0)
	if err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
		return
	}

	if err := s.pages.Leaderboard(w, site.NewLeaderboardPage(category, entries)); err != nil {
		status, _, msg := s.fail(r, err)
		writeText(w, status, msg)
	}
}

// readSubmission extracts the form fields. A missing name or photo is not an
// error here; the service decides. The returned cleanup removes any spooled
// temp files and is always safe to call.
func readSubmission(r *http.Request) (service.Submission, func(), error) {
	cleanup := func() {}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return service.Submission{}, cleanup, fmt.Errorf("%w: %w", ErrTooLarge, err)
		}
		return service.Submission{}, cleanup, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	form := r.MultipartForm
	cleanup = func() { _ = form.RemoveAll() }

	sub := service.Submission{}
	if names, ok := form.Value["name"]; ok && len(names) > 0 {
		sub.Name = names[0]
	} else {
		sub.NameMissing = true
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return sub, cleanup, nil
	case err != nil:
		return sub, cleanup, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	cleanup = closeAndRemove(file, form)

	sub.PhotoFilename = header.Filename
	sub.Photo = file
	return sub, cleanup, nil
}

func closeAndRemove(f multipart.File, form *multipart.Form) func() {
	return func() {
		_ = f.Close()
		_ = form.RemoveAll()
	}
}
