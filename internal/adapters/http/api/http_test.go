package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/radar/internal/adapters/http/api"
	"github.com/okian/radar/internal/adapters/repository"
	service "github.com/okian/radar/internal/app"
	"github.com/okian/radar/internal/domain/stats"
	"github.com/okian/radar/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	result    service.Result
	submitErr error
	submitted []service.Submission
	photos    []string

	top          []types.RankedEntry
	topErr       error
	lastCategory string
	lastLimit    int
}

func (m *mockDependencies) Submit(_ context.Context, sub service.Submission) (service.Result, error) {
	m.submitted = append(m.submitted, sub)
	if sub.Photo != nil {
		data, _ := io.ReadAll(sub.Photo)
		m.photos = append(m.photos, string(data))
	}
	if m.submitErr != nil {
		return service.Result{}, m.submitErr
	}
	return m.result, nil
}

func (m *mockDependencies) Top(_ context.Context, category string, limit int) ([]types.RankedEntry, error) {
	m.lastCategory = category
	m.lastLimit = limit
	if m.topErr != nil {
		return nil, m.topErr
	}
	return m.top, nil
}

func (m *mockDependencies) DefaultCategory() stats.Category { return stats.Karbit }

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

// multipartBody builds a form with the given fields; photo is skipped when
// filename is empty.
func multipartBody(fields map[string]string, filename string, photo []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if filename != "" {
		fw, _ := mw.CreateFormFile("photo", filename)
		_, _ = fw.Write(photo)
	}
	_ = mw.Close()
	return &buf, mw.FormDataContentType()
}

func postResult(h http.Handler, fields map[string]string, filename string, photo []byte) *httptest.ResponseRecorder {
	body, ct := multipartBody(fields, filename, photo)
	req := httptest.NewRequest(http.MethodPost, "/result", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	Convey("Given an API server over mock dependencies", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		deps := &mockDependencies{
			result: service.Result{
				Name:  "Alice",
				Photo: "me.jpg",
				Chart: "64489c85dc2fe0787b85cd87214b3810.png",
				Stats: stats.Generate("Alice"),
			},
		}
		statsProvider := &mockStatsProvider{stats: map[string]interface{}{"started": true}}
		server, err := api.NewServer(deps, statsProvider,
			api.WithUploadDir(filepath.Join(dir, "uploads")),
			api.WithChartDir(filepath.Join(dir, "charts")),
		)
		So(err, ShouldBeNil)
		h := server.Router(ctx)

		Convey("When requesting the index page", func() {
			w := get(h, "/")

			Convey("Then the form is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `action="/result"`)
			})
		})

		Convey("When posting a submission", func() {
			w := postResult(h, map[string]string{"name": "Alice"}, "me.jpg", []byte("jpeg"))

			Convey("Then the form values reach the service", func() {
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].Name, ShouldEqual, "Alice")
				So(deps.submitted[0].NameMissing, ShouldBeFalse)
				So(deps.submitted[0].PhotoFilename, ShouldEqual, "me.jpg")
				So(deps.photos, ShouldResemble, []string{"jpeg"})
			})

			Convey("And the result page is rendered", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := w.Body.String()
				So(body, ShouldContainSubstring, "/static/charts/64489c85dc2fe0787b85cd87214b3810.png")
				So(body, ShouldContainSubstring, "/static/uploads/me.jpg")
			})
		})

		Convey("When posting without a photo part", func() {
			postResult(h, map[string]string{"name": "Alice"}, "", nil)

			Convey("Then the service sees no photo", func() {
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].Photo, ShouldBeNil)
			})
		})

		Convey("When posting an empty name field", func() {
			postResult(h, map[string]string{"name": ""}, "me.jpg", []byte("jpeg"))

			Convey("Then the name counts as present", func() {
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].Name, ShouldEqual, "")
				So(deps.submitted[0].NameMissing, ShouldBeFalse)
			})
		})

		Convey("When posting without a name field", func() {
			postResult(h, nil, "me.jpg", []byte("jpeg"))

			Convey("Then the service is told the name is missing", func() {
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].NameMissing, ShouldBeTrue)
			})
		})

		Convey("When the service reports a missing field", func() {
			deps.submitErr = service.ErrMissingName
			w := postResult(h, nil, "me.jpg", []byte("jpeg"))

			Convey("Then it answers 400 with a plain message", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/plain")
				So(w.Body.String(), ShouldContainSubstring, "name is required")
			})
		})

		Convey("When the service fails on the filesystem", func() {
			deps.submitErr = errors.New("save photo: permission denied")
			w := postResult(h, map[string]string{"name": "Alice"}, "me.jpg", []byte("jpeg"))

			Convey("Then it answers 500 without leaking the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Body.String(), ShouldNotContainSubstring, "permission denied")
			})
		})

		Convey("When the body is not multipart", func() {
			req := httptest.NewRequest(http.MethodPost, "/result", strings.NewReader("name=Alice"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When requesting the leaderboard page without a category", func() {
			deps.top = types.Rank([]types.Entry{{Name: "Budi", Photo: "b.jpg", Category: "KARBIT", Value: 95}})
			w := get(h, "/leaderboard")

			Convey("Then the default category is queried with the default limit", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastCategory, ShouldEqual, "KARBIT")
				So(deps.lastLimit, ShouldEqual, 0)
				So(w.Body.String(), ShouldContainSubstring, "Budi")
			})
		})

		Convey("When requesting the leaderboard page for a spaced category", func() {
			get(h, "/leaderboard?category=SARAN%20TEKS")

			Convey("Then the category is passed through exactly", func() {
				So(deps.lastCategory, ShouldEqual, "SARAN TEKS")
			})
		})

		Convey("When the store fails", func() {
			deps.topErr = errors.New("disk error")
			w := get(h, "/api/leaderboard")

			Convey("Then it answers 500 JSON", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
			})
		})

		Convey("When requesting the JSON leaderboard", func() {
			deps.top = types.Rank([]types.Entry{{Name: "Budi", Photo: "b.jpg", Category: "GAY", Value: 83}})
			w := get(h, "/api/leaderboard?category=GAY&limit=5")

			Convey("Then the entries are returned with ranks", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastLimit, ShouldEqual, 5)
				var resp struct {
					Category string `json:"category"`
					Entries  []struct {
						Rank     int    `json:"rank"`
						Name     string `json:"name"`
						Photo    string `json:"photo"`
						Category string `json:"category"`
						Value    int    `json:"value"`
					} `json:"entries"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp.Category, ShouldEqual, "GAY")
				So(resp.Entries, ShouldHaveLength, 1)
				So(resp.Entries[0].Rank, ShouldEqual, 1)
				So(resp.Entries[0].Value, ShouldEqual, 83)
			})
		})

		Convey("When the JSON leaderboard is empty", func() {
			w := get(h, "/api/leaderboard?category=nope")

			Convey("Then entries is an empty array", func() {
				So(w.Body.String(), ShouldContainSubstring, `"entries":[]`)
			})
		})

		Convey("When the limit is invalid", func() {
			for _, q := range []string{"limit=abc", "limit=0", "limit=-3"} {
				w := get(h, "/api/leaderboard?"+q)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When probing health and stats", func() {
			health := get(h, "/healthz")
			st := get(h, "/stats")

			Convey("Then both answer JSON", func() {
				So(health.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(health.Body.String()), ShouldEqual, `{"status":"ok"}`)
				So(st.Code, ShouldEqual, http.StatusOK)
				So(st.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})

		Convey("When scraping metrics", func() {
			get(h, "/healthz")
			w := get(h, "/metrics")

			Convey("Then the custom registry is exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "radar_statcard_http_requests_total")
			})
		})

		Convey("When requesting the stylesheet", func() {
			w := get(h, "/assets/style.css")

			Convey("Then it is served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
			})
		})

		Convey("When requesting an unknown route", func() {
			w := get(h, "/unknown")

			Convey("Then it is not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestServer_StaticFiles(t *testing.T) {
	Convey("Given files in the upload and chart directories", t, func() {
		dir := t.TempDir()
		uploads := filepath.Join(dir, "uploads")
		charts := filepath.Join(dir, "charts")
		So(os.MkdirAll(uploads, 0o755), ShouldBeNil)
		So(os.MkdirAll(filepath.Join(charts, "nested"), 0o755), ShouldBeNil)
		So(os.WriteFile(filepath.Join(uploads, "me.txt"), []byte("hello"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(uploads, "x.html"), []byte("<script>alert(1)</script>"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(uploads, "me.png"), []byte("png"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(uploads, ".upload-1.tmp"), []byte("partial"), 0o644), ShouldBeNil)
		So(os.WriteFile(filepath.Join(charts, "c.png"), []byte("png"), 0o644), ShouldBeNil)

		server, err := api.NewServer(&mockDependencies{}, nil,
			api.WithUploadDir(uploads),
			api.WithChartDir(charts),
		)
		So(err, ShouldBeNil)
		h := server.Router(context.Background())

		Convey("Then stored files are served", func() {
			w := get(h, "/static/uploads/me.txt")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "hello")
			So(get(h, "/static/charts/c.png").Code, ShouldEqual, http.StatusOK)
		})

		Convey("And uploads are never rendered as pages", func() {
			w := get(h, "/static/uploads/x.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("X-Content-Type-Options"), ShouldEqual, "nosniff")
			So(w.Header().Get("Content-Disposition"), ShouldEqual, `attachment; filename=x.html`)
		})

		Convey("And uploaded images stay inline", func() {
			w := get(h, "/static/uploads/me.png")
			So(w.Header().Get("X-Content-Type-Options"), ShouldEqual, "nosniff")
			So(w.Header().Get("Content-Disposition"), ShouldEqual, `inline; filename=me.png`)
		})

		Convey("And missing files, directories and dot files are not found", func() {
			So(get(h, "/static/uploads/none.png").Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/static/uploads/.upload-1.tmp").Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/static/charts/nested").Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/static/uploads/").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the stats endpoint works without a provider", func() {
			So(get(h, "/stats").Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestServer_EndToEnd(t *testing.T) {
	Convey("Given a server over a started service", t, func() {
		ctx := context.Background()
		root := t.TempDir()
		uploadDir := filepath.Join(root, "uploads")
		chartDir := filepath.Join(root, "charts")
		svc := service.New(
			service.WithUploadDir(uploadDir),
			service.WithChartDir(chartDir),
			service.WithStoreBackend(repository.BackendJSON, filepath.Join(root, "leaderboard.json")),
			service.WithMaxUploadBytes(64),
		)
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		server, err := api.NewServer(svc, svc,
			api.WithUploadDir(uploadDir),
			api.WithChartDir(chartDir),
			api.WithMaxUploadBytes(64),
		)
		So(err, ShouldBeNil)
		h := server.Router(ctx)

		Convey("When Alice submits", func() {
			w := postResult(h, map[string]string{"name": "Alice"}, "me.jpg", []byte("jpeg"))
			So(w.Code, ShouldEqual, http.StatusOK)
			body := w.Body.String()

			Convey("Then the result page shows her stats", func() {
				So(body, ShouldContainSubstring, "<td>KARBIT</td><td>4</td>")
				So(body, ShouldContainSubstring, "<td>CERDAS</td><td>5</td>")
			})

			Convey("And the chart and photo are downloadable", func() {
				chartResp := get(h, "/static/charts/64489c85dc2fe0787b85cd87214b3810.png")
				So(chartResp.Code, ShouldEqual, http.StatusOK)
				So(chartResp.Header().Get("Content-Type"), ShouldEqual, "image/png")
				photoResp := get(h, "/static/uploads/me.jpg")
				So(photoResp.Code, ShouldEqual, http.StatusOK)
				So(photoResp.Body.String(), ShouldEqual, "jpeg")
			})

			Convey("And she appears on the leaderboards", func() {
				page := get(h, "/leaderboard?category=SARAN_TEKS")
				So(page.Code, ShouldEqual, http.StatusOK)
				So(page.Body.String(), ShouldContainSubstring, "Alice")

				w := get(h, "/api/leaderboard?category=SARAN%20TEKS")
				So(w.Body.String(), ShouldContainSubstring, `"value":28`)
			})
		})

		Convey("When the name is missing", func() {
			w := postResult(h, nil, "me.jpg", []byte("jpeg"))

			Convey("Then it answers 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the name is empty", func() {
			w := postResult(h, map[string]string{"name": ""}, "me.jpg", []byte("jpeg"))

			Convey("Then it is accepted with the empty-string stats", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "<td>KARBIT</td><td>100</td>")
			})
		})

		Convey("When the name is only whitespace", func() {
			w := postResult(h, map[string]string{"name": "   "}, "me.jpg", []byte("jpeg"))

			Convey("Then it is accepted and stored untrimmed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				top, err := svc.Top(ctx, "KARBIT", 0)
				So(err, ShouldBeNil)
				So(top, ShouldHaveLength, 1)
				So(top[0].Name, ShouldEqual, "   ")
				So(top[0].Value, ShouldEqual, stats.Generate("   ").Values()[0])
			})
		})

		Convey("When the photo is missing", func() {
			w := postResult(h, map[string]string{"name": "Alice"}, "", nil)

			Convey("Then it answers 400 and nothing is recorded", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				top, err := svc.Top(ctx, "KARBIT", 0)
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
			})
		})

		Convey("When the photo exceeds the limit", func() {
			w := postResult(h, map[string]string{"name": "Alice"}, "big.jpg", bytes.Repeat([]byte("x"), 100))

			Convey("Then it answers 413", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})
	})
}
