package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-api/portfolio/backend/go-services/internal/analytics"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/apperr"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/contact"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/models"
	"github.com/portfolio-api/portfolio/backend/go-services/internal/portfolio"
	"github.com/portfolio-api/portfolio/backend/go-services/pkg/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router    *gin.Engine
	portfolio *portfolio.Service
	contacts  *contact.MemoryRepository
	visits    *analytics.MemoryRepository
}

func newTestEnv(t *testing.T, seeded bool) *testEnv {
	t.Helper()
	env := &testEnv{
		portfolio: portfolio.NewService(portfolio.NewMemoryRepository()),
		contacts:  contact.NewMemoryRepository(),
		visits:    analytics.NewMemoryRepository(),
	}
	if seeded {
		doc, err := portfolio.LoadSeed("")
		require.NoError(t, err)
		_, err = env.portfolio.Seed(context.Background(), doc)
		require.NoError(t, err)
	}
	env.router = gin.New()
	RegisterRoutes(env.router, Deps{
		Portfolio: env.portfolio,
		Contact:   contact.NewService(env.contacts),
		Analytics: analytics.NewService(env.visits),
	})
	return env
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message *string         `json:"message"`
	Error   *string         `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

// brokenPortfolio fails every call with err.
type brokenPortfolio struct{ err error }

func (b brokenPortfolio) GetPortfolio(context.Context) (*models.Portfolio, error)  { return nil, b.err }
func (b brokenPortfolio) UpdatePortfolio(context.Context, *models.Portfolio) error { return b.err }
func (b brokenPortfolio) GetPersonalInfo(context.Context) (*models.PersonalInfo, error) {
	return nil, b.err
}
func (b brokenPortfolio) GetSkills(context.Context) (models.SkillSet, error) { return nil, b.err }
func (b brokenPortfolio) GetExperience(context.Context) ([]models.WorkExperience, error) {
	return nil, b.err
}
func (b brokenPortfolio) GetProjects(context.Context) ([]models.Project, error) { return nil, b.err }
func (b brokenPortfolio) GetAbout(context.Context) (*models.AboutInfo, error)   { return nil, b.err }
func (b brokenPortfolio) GetCredentials(context.Context) (*models.Credentials, error) {
	return nil, b.err
}

type brokenContact struct{ err error }

func (b brokenContact) CreateMessage(context.Context, models.ContactMessageCreate) (*models.ContactMessage, error) {
	return nil, b.err
}
func (b brokenContact) ListMessages(context.Context, int, int) ([]models.ContactMessage, error) {
	return []models.ContactMessage{}, b.err
}
func (b brokenContact) MarkRead(context.Context, string) (bool, error) { return false, b.err }

func TestPortfolioSectionsNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	cases := map[string]string{
		"/api/portfolio/personal":    "Personal information not found",
		"/api/portfolio/skills":      "Skills data not found",
		"/api/portfolio/experience":  "Experience data not found",
		"/api/portfolio/projects":    "Projects data not found",
		"/api/portfolio/about":       "About data not found",
		"/api/portfolio/credentials": "Credentials data not found",
	}
	for path, msg := range cases {
		w := do(env.router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, w.Code, path)
		e := decodeEnvelope(t, w)
		require.False(t, e.Success)
		require.Equal(t, msg, *e.Error)
	}
}

func TestPortfolioSectionsServeSeed(t *testing.T) {
	env := newTestEnv(t, true)

	w := do(env.router, http.MethodGet, "/api/portfolio/personal", nil)
	require.Equal(t, http.StatusOK, w.Code)
	e := decodeEnvelope(t, w)
	require.True(t, e.Success)
	var personal models.PersonalInfo
	require.NoError(t, json.Unmarshal(e.Data, &personal))
	require.Equal(t, "Alex Morgan", personal.Name)

	w = do(env.router, http.MethodGet, "/api/portfolio/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	e = decodeEnvelope(t, w)
	var skills models.SkillSet
	require.NoError(t, json.Unmarshal(e.Data, &skills))
	require.NotEmpty(t, skills)
	require.Equal(t, "🎯 Endpoint Management", skills[0].Category)

	for _, path := range []string{"/api/portfolio", "/api/portfolio/experience", "/api/portfolio/projects", "/api/portfolio/about", "/api/portfolio/credentials"} {
		require.Equal(t, http.StatusOK, do(env.router, http.MethodGet, path, nil).Code, path)
	}
}

func TestPortfolioStorageFailureIs503(t *testing.T) {
	r := gin.New()
	RegisterRoutes(r, Deps{Portfolio: brokenPortfolio{err: apperr.Storage("fetch portfolio", errors.New("no reachable servers"))}})

	w := do(r, http.MethodGet, "/api/portfolio/skills", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	e := decodeEnvelope(t, w)
	require.False(t, e.Success)
	require.Equal(t, msgStorageUnavailable, *e.Error)
}

func TestUpdatePortfolio(t *testing.T) {
	env := newTestEnv(t, true)

	w := do(env.router, http.MethodGet, "/api/portfolio", nil)
	var doc models.Portfolio
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &doc))
	doc.Personal.Title = "Principal Engineer"

	w = do(env.router, http.MethodPut, "/api/portfolio", doc)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Portfolio updated successfully", *decodeEnvelope(t, w).Message)

	w = do(env.router, http.MethodGet, "/api/portfolio/personal", nil)
	var personal models.PersonalInfo
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &personal))
	require.Equal(t, "Principal Engineer", personal.Title)
}

func TestUpdatePortfolioValidation(t *testing.T) {
	env := newTestEnv(t, true)

	w := do(env.router, http.MethodPut, "/api/portfolio", `{"personal":{"name":"","title":"x","contact":{"email":"nope"}}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeEnvelope(t, w)
	require.Contains(t, *e.Error, "personal.name: required")

	w = do(env.router, http.MethodPut, "/api/portfolio", `{"id":"other","personal":{"name":"A","title":"B","contact":{"email":"a@b.io"}}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(env.router, http.MethodPut, "/api/portfolio", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, msgInvalidBody, *decodeEnvelope(t, w).Error)
}

func TestSubmitContactMessage(t *testing.T) {
	env := newTestEnv(t, false)

	w := do(env.router, http.MethodPost, "/api/contact/message", map[string]any{
		"name": "Jane", "email": "jane@x.io", "message": "Hello",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.ContactResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Message sent successfully", resp.Message)
	require.Regexp(t, `^MSG_\d{8}_[0-9A-F]{6}$`, resp.ReferenceID)

	w = do(env.router, http.MethodGet, "/api/contact/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs []models.ContactMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &msgs))
	require.Len(t, msgs, 1)
	require.Equal(t, models.StatusNew, msgs[0].Status)
	require.Equal(t, models.InquiryGeneral, msgs[0].InquiryType)
}

func TestSubmitContactMessageValidation(t *testing.T) {
	env := newTestEnv(t, false)

	w := do(env.router, http.MethodPost, "/api/contact/message", map[string]any{
		"name": "Jane", "email": "not-an-email", "message": "Hello",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, *decodeEnvelope(t, w).Error, "email")

	w = do(env.router, http.MethodPost, "/api/contact/message", map[string]any{
		"name": "Jane", "email": "jane@x.io", "message": "   ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 0, env.contacts.Len())
}

func TestSubmitContactMessageFailureIs500(t *testing.T) {
	r := gin.New()
	RegisterRoutes(r, Deps{Contact: brokenContact{err: apperr.Storage("create contact message", errors.New("down"))}})

	w := do(r, http.MethodPost, "/api/contact/message", map[string]any{
		"name": "Jane", "email": "jane@x.io", "message": "Hello",
	})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Failed to send message", *decodeEnvelope(t, w).Error)
}

func TestListMessagesPaging(t *testing.T) {
	env := newTestEnv(t, false)
	for i := 0; i < 3; i++ {
		w := do(env.router, http.MethodPost, "/api/contact/message", map[string]any{
			"name": "Jane", "email": "jane@x.io", "message": "Hello",
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := do(env.router, http.MethodGet, "/api/contact/messages?limit=2&skip=0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msgs []models.ContactMessage
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &msgs))
	require.Len(t, msgs, 2)

	w = do(env.router, http.MethodGet, "/api/contact/messages?skip=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, string(decodeEnvelope(t, w).Data))

	for _, q := range []string{"limit=-1", "limit=0", "skip=-3", "limit=abc"} {
		w = do(env.router, http.MethodGet, "/api/contact/messages?"+q, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestListMessagesStorageFailure(t *testing.T) {
	r := gin.New()
	RegisterRoutes(r, Deps{Contact: brokenContact{err: apperr.Storage("list contact messages", errors.New("down"))}})

	w := do(r, http.MethodGet, "/api/contact/messages", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMarkMessageRead(t *testing.T) {
	env := newTestEnv(t, false)
	w := do(env.router, http.MethodPost, "/api/contact/message", map[string]any{
		"name": "Jane", "email": "jane@x.io", "message": "Hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	msgs, err := env.contacts.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	w = do(env.router, http.MethodPatch, "/api/contact/messages/"+msgs[0].ID+"/read", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(env.router, http.MethodPatch, "/api/contact/messages/"+msgs[0].ID+"/read", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Message not found or already read", *decodeEnvelope(t, w).Error)

	w = do(env.router, http.MethodPatch, "/api/contact/messages/unknown/read", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Message not found or already read", *decodeEnvelope(t, w).Error)
}

func TestVisitThenStats(t *testing.T) {
	env := newTestEnv(t, false)

	w := do(env.router, http.MethodPost, "/api/analytics/visit", map[string]any{"page": "/home"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e := decodeEnvelope(t, w)
	require.True(t, e.Success)
	require.Equal(t, "Visit tracked successfully", *e.Message)

	w = do(env.router, http.MethodGet, "/api/analytics/stats?days=30", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"total_visits":1,"page_visits":[{"page":"/home","count":1}],"period_days":30}`,
		string(decodeEnvelope(t, w).Data))

	visits := env.visits.Visits()
	require.Len(t, visits, 1)
	require.NotNil(t, visits[0].IPAddress)
}

func TestStatsDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t, false)

	w := do(env.router, http.MethodGet, "/api/analytics/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"total_visits":0,"page_visits":[],"period_days":30}`, string(decodeEnvelope(t, w).Data))

	for _, q := range []string{"days=0", "days=-1", "days=week"} {
		w = do(env.router, http.MethodGet, "/api/analytics/stats?"+q, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, q)
	}

	w = do(env.router, http.MethodPost, "/api/analytics/visit", map[string]any{"page": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteLimitGuardsOnlyWriteEndpoints(t *testing.T) {
	env := newTestEnv(t, false)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Portfolio:  env.portfolio,
		Contact:    contact.NewService(env.contacts),
		Analytics:  analytics.NewService(env.visits),
		WriteLimit: middleware.RateLimitMiddleware(0.01, 1),
	})

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/api/analytics/visit", map[string]any{"page": "/"}).Code)
	require.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/analytics/visit", map[string]any{"page": "/"}).Code)
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/analytics/stats", nil).Code)
	}
}
