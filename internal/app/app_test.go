package app

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"maidmatch_backend/internal/auth"
	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/models"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type APISuite struct {
	suite.Suite
	db     *gorm.DB
	router http.Handler

	requester *models.User
	provider1 *models.User
	provider2 *models.User
	admin     *models.User
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	logger.Init("test")
}

func (s *APISuite) SetupTest() {
	t := s.T()
	cfg := testutil.TestConfig()
	s.db = testutil.NewTestDB(t)
	s.router = SetupRouter(cfg, s.db, services.NoopGateway{})

	s.requester = testutil.CreateRequester(t, s.db)
	s.provider1 = testutil.CreateProvider(t, s.db)
	s.provider2 = testutil.CreateProvider(t, s.db)
	s.admin = testutil.CreateAdmin(t, s.db)
}

func (s *APISuite) token(u *models.User) string {
	tok, err := auth.GenerateToken("test-secret", u.ID, u.Role, time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *APISuite) do(method, path string, as *models.User, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			s.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(as))
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Error struct {
		Code    string      `json:"code"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func (s *APISuite) assertError(w *httptest.ResponseRecorder, status int, code string) {
	s.Equal(status, w.Code, w.Body.String())
	s.Equal(code, decode[errorBody](s.T(), w).Error.Code)
}

var jobBody = map[string]interface{}{
	"title":           "Nanny, three days a week",
	"description":     "Two kids, 4 and 7",
	"location":        "Astana",
	"compensation":    map[string]interface{}{"amount": 250000, "period": "monthly"},
	"employment_type": "permanent",
	"requirements":    []string{"first aid"},
}

func (s *APISuite) createJob() string {
	w := s.do(http.MethodPost, "/jobs", s.requester, jobBody)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]interface{}](s.T(), w)["id"].(string)
}

func (s *APISuite) TestFullLifecycle() {
	jobID := s.createJob()

	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/jobs/"+jobID+"/applications", s.provider1, map[string]string{"note": "experienced"}).Code)
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/jobs/"+jobID+"/applications", s.provider2, nil).Code)

	w := s.do(http.MethodGet, "/jobs/"+jobID+"/applications", s.requester, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	apps := decode[[]map[string]interface{}](s.T(), w)
	s.Len(apps, 2)

	w = s.do(http.MethodPost, "/jobs/"+jobID+"/hire", s.requester, map[string]string{"provider_id": s.provider1.ID})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	job := decode[map[string]interface{}](s.T(), w)
	s.Equal("in_progress", job["status"])
	s.Equal(s.provider1.ID, job["provider_id"])

	w = s.do(http.MethodGet, "/applications/my?status=rejected", s.provider2, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, decode[map[string]interface{}](s.T(), w)["total"])

	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/hire", s.requester, map[string]string{"provider_id": s.provider2.ID}),
		http.StatusConflict, "INVALID_STATE")

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/jobs/"+jobID+"/complete", s.requester, nil).Code)

	w = s.do(http.MethodPost, "/jobs/"+jobID+"/reviews", s.requester, map[string]interface{}{"rating": 5, "comment": "Wonderful"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	reviewID := decode[map[string]interface{}](s.T(), w)["id"].(string)

	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/reviews", s.requester, map[string]interface{}{"rating": 4}),
		http.StatusConflict, "DUPLICATE_REVIEW")
	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/reviews", s.provider1, map[string]interface{}{"rating": 7}),
		http.StatusBadRequest, "VALIDATION_FAILED")

	w = s.do(http.MethodGet, "/users/"+s.provider1.ID+"/rating", s.requester, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(5, decode[map[string]interface{}](s.T(), w)["average_rating"])

	w = s.do(http.MethodGet, "/identities/"+s.provider1.ID, s.requester, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, decode[map[string]interface{}](s.T(), w)["review_count"])

	s.Equal(http.StatusOK, s.do(http.MethodGet, "/reviews/"+reviewID, s.provider1, nil).Code)
	s.assertError(s.do(http.MethodDelete, "/reviews/"+reviewID, s.provider1, nil), http.StatusForbidden, "FORBIDDEN")
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/reviews/"+reviewID, s.requester, nil).Code)
}

func (s *APISuite) TestAuthentication() {
	s.assertError(s.do(http.MethodGet, "/jobs", nil, nil), http.StatusUnauthorized, "UNAUTHORIZED")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.assertError(w, http.StatusUnauthorized, "INVALID_TOKEN")
}

func (s *APISuite) TestRoleGuards() {
	s.assertError(s.do(http.MethodPost, "/jobs", s.provider1, jobBody), http.StatusForbidden, "FORBIDDEN")

	jobID := s.createJob()
	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/applications", s.requester, nil), http.StatusForbidden, "FORBIDDEN")
	s.assertError(s.do(http.MethodPut, "/admin/identities/x", s.requester, map[string]string{"role": "provider"}), http.StatusForbidden, "FORBIDDEN")

	w := s.do(http.MethodPut, "/admin/identities/idp-7", s.admin, map[string]string{"name": "New", "role": "provider"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("pending", decode[map[string]interface{}](s.T(), w)["verification_status"])
}

func (s *APISuite) TestPatchJob() {
	jobID := s.createJob()

	w := s.do(http.MethodPatch, "/jobs/"+jobID, s.requester, map[string]interface{}{"requester_id": "me", "title": "x"})
	s.assertError(w, http.StatusBadRequest, "INVALID_FIELD")
	s.Equal(map[string]interface{}{"fields": []interface{}{"requester_id"}}, decode[errorBody](s.T(), w).Error.Details)

	s.assertError(s.do(http.MethodPatch, "/jobs/"+jobID, s.provider1, map[string]string{"title": "Mine now"}), http.StatusForbidden, "FORBIDDEN")
	s.assertError(s.do(http.MethodPatch, "/jobs/"+jobID, s.requester, map[string]string{"status": "in_progress"}), http.StatusConflict, "INVALID_TRANSITION")
	s.assertError(s.do(http.MethodPatch, "/jobs/"+jobID, s.requester, `[1,2]`), http.StatusBadRequest, "VALIDATION_FAILED")
	s.assertError(s.do(http.MethodPatch, "/jobs/missing", s.requester, map[string]string{"title": "Anything"}), http.StatusNotFound, "NOT_FOUND")

	w = s.do(http.MethodPatch, "/jobs/"+jobID, s.requester, map[string]string{"title": "Nanny, full time"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("Nanny, full time", decode[map[string]interface{}](s.T(), w)["title"])
}

func (s *APISuite) TestCancelKeepsApplicationsPending() {
	jobID := s.createJob()
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/jobs/"+jobID+"/applications", s.provider1, nil).Code)

	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/cancel", s.provider1, nil), http.StatusForbidden, "FORBIDDEN")
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/jobs/"+jobID+"/cancel", s.requester, nil).Code)

	w := s.do(http.MethodGet, "/applications/my", s.provider1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	body := decode[struct {
		Applications []struct {
			Status string `json:"status"`
		} `json:"applications"`
	}](s.T(), w)
	s.Require().Len(body.Applications, 1)
	s.Equal("pending", body.Applications[0].Status)

	s.assertError(s.do(http.MethodPost, "/jobs/"+jobID+"/complete", s.requester, nil), http.StatusConflict, "INVALID_TRANSITION")
}

func (s *APISuite) TestListAndStreamJobs() {
	for i := 0; i < 3; i++ {
		s.createJob()
	}

	w := s.do(http.MethodGet, "/jobs?page_size=2&status=open&location=astana", s.provider1, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	page := decode[map[string]interface{}](s.T(), w)
	s.EqualValues(3, page["total"])
	s.Len(page["jobs"], 2)

	s.assertError(s.do(http.MethodGet, "/jobs?status=paused", s.provider1, nil), http.StatusBadRequest, "VALIDATION_FAILED")

	w = s.do(http.MethodGet, "/jobs/stream", s.provider1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.True(strings.HasPrefix(w.Header().Get("Content-Type"), "application/x-ndjson"))
	lines := 0
	sc := bufio.NewScanner(w.Body)
	for sc.Scan() {
		var job map[string]interface{}
		s.Require().NoError(json.Unmarshal(sc.Bytes(), &job))
		s.Equal("open", job["status"])
		lines++
	}
	s.Equal(3, lines)
}

func (s *APISuite) TestNotificationsEndpoints() {
	s.Require().NoError(s.db.Create(&models.Notification{
		UserID: s.provider1.ID,
		Event:  models.EventApplicationAccepted,
		Title:  "You have been hired",
	}).Error)

	w := s.do(http.MethodGet, "/notifications/unread-count", s.provider1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.EqualValues(1, decode[map[string]interface{}](s.T(), w)["unread_count"])

	w = s.do(http.MethodGet, "/notifications", s.provider1, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	list := decode[struct {
		Notifications []struct {
			ID string `json:"id"`
		} `json:"notifications"`
	}](s.T(), w)
	s.Require().Len(list.Notifications, 1)

	s.assertError(s.do(http.MethodPost, "/notifications/"+list.Notifications[0].ID+"/read", s.provider2, nil), http.StatusNotFound, "NOT_FOUND")
	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/notifications/"+list.Notifications[0].ID+"/read", s.provider1, nil).Code)

	w = s.do(http.MethodGet, "/notifications/unread-count", s.provider1, nil)
	s.EqualValues(0, decode[map[string]interface{}](s.T(), w)["unread_count"])
}

func TestRequestIDHeader(t *testing.T) {
	logger.Init("test")
	router := SetupRouter(testutil.TestConfig(), testutil.NewTestDB(t), services.NoopGateway{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/jobs", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSwaggerDocServed(t *testing.T) {
	logger.Init("test")
	router := SetupRouter(testutil.TestConfig(), testutil.NewTestDB(t), services.NoopGateway{})

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/jobs/{id}/hire")
}
