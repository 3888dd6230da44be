package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/model"

	"github.com/qiniu/x/xlog"
)

type fakeSessionStore struct {
	byApplicant map[string]*model.InterviewSessionDo
	created     []*model.InterviewSessionDo
}

func (f *fakeSessionStore) GetSessionByApplicant(xl *xlog.Logger, applicantID string) (*model.InterviewSessionDo, error) {
	if session, ok := f.byApplicant[applicantID]; ok {
		return session, nil
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorSessionNotFound}
}

func (f *fakeSessionStore) GetSessionForInterviewer(xl *xlog.Logger, sessionID, interviewerID string) (*model.InterviewSessionDo, error) {
	for _, session := range f.byApplicant {
		if session.ID == sessionID && session.InterviewerID == interviewerID {
			return session, nil
		}
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorSessionNotFound}
}

func (f *fakeSessionStore) CreateSession(xl *xlog.Logger, session *model.InterviewSessionDo) (*model.InterviewSessionDo, error) {
	session.ID = "generated"
	session.Status = model.SessionStatusScheduled
	f.created = append(f.created, session)
	f.byApplicant[session.ApplicantID] = session
	return session, nil
}

func (f *fakeSessionStore) ListSessionsByInterviewer(xl *xlog.Logger, interviewerID string) ([]model.InterviewSessionDo, error) {
	sessions := []model.InterviewSessionDo{}
	for _, session := range f.byApplicant {
		if session.InterviewerID == interviewerID {
			sessions = append(sessions, *session)
		}
	}
	return sessions, nil
}

type fakeApplicantReader struct {
	applicants map[string]*model.ApplicantDo
}

func (f *fakeApplicantReader) GetApplicantByID(xl *xlog.Logger, applicantID string) (*model.ApplicantDo, error) {
	if applicant, ok := f.applicants[applicantID]; ok {
		return applicant, nil
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorApplicantNotFound}
}

func (f *fakeApplicantReader) ListCandidates(xl *xlog.Logger, interviewerID string) ([]model.ApplicantDo, error) {
	candidates := []model.ApplicantDo{}
	for _, applicant := range f.applicants {
		if applicant.Status != model.ApplicantStatusInterview || !applicant.AttendanceConfirmed {
			continue
		}
		if interviewerID != "" && applicant.AssignedInterviewer != interviewerID {
			continue
		}
		candidates = append(candidates, *applicant)
	}
	return candidates, nil
}

type fakeQuestionCatalog struct {
	questions []model.InterviewQuestionDo
}

func (f *fakeQuestionCatalog) ListActiveQuestions(xl *xlog.Logger) ([]model.InterviewQuestionDo, error) {
	return f.questions, nil
}

type fakeResponseReader struct {
	responses map[string][]model.InterviewResponseDo
}

func (f *fakeResponseReader) ListBySession(xl *xlog.Logger, sessionID string) ([]model.InterviewResponseDo, error) {
	return f.responses[sessionID], nil
}

func newSessionHandler(sessions *fakeSessionStore, applicants *fakeApplicantReader) *SessionApiHandler {
	return &SessionApiHandler{
		Session:   sessions,
		Applicant: applicants,
		Question: &fakeQuestionCatalog{questions: []model.InterviewQuestionDo{
			{ID: "q1", QuestionNumber: 1, QuestionText: "Motivasi?", IsActive: true},
			{ID: "q2", QuestionNumber: 2, QuestionText: "Pengalaman?", IsActive: true},
		}},
		Response: &fakeResponseReader{responses: map[string][]model.InterviewResponseDo{
			"s1": {{QuestionID: "q1", Score: 4, Response: "cukup baik"}},
		}},
	}
}

func assignedApplicant(id string) *model.ApplicantDo {
	return &model.ApplicantDo{
		ID:                  id,
		Nim:                 "2024" + id,
		Status:              model.ApplicantStatusInterview,
		AttendanceConfirmed: true,
		AssignedInterviewer: testInterviewerID,
	}
}

func TestCreateSessionIdempotent(t *testing.T) {
	sessions := &fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{
		"a1": {ID: "s1", ApplicantID: "a1", InterviewerID: testInterviewerID, Status: model.SessionStatusScheduled},
	}}
	h := newSessionHandler(sessions, &fakeApplicantReader{applicants: map[string]*model.ApplicantDo{
		"a1": assignedApplicant("a1"),
	}})
	router := newTestRouter(model.RoleInterviewer)
	router.POST("/interview/sessions", h.CreateSession)

	w := doJSON(router, "POST", "/interview/sessions", map[string]interface{}{"applicantId": "a1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data model.InterviewSessionDo `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.ID != "s1" {
		t.Fatalf("session %q, expected existing s1", body.Data.ID)
	}
	if len(sessions.created) != 0 {
		t.Fatalf("idempotent create inserted %d sessions", len(sessions.created))
	}
}

func TestCreateSessionInsertsWhenMissing(t *testing.T) {
	sessions := &fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{}}
	h := newSessionHandler(sessions, &fakeApplicantReader{applicants: map[string]*model.ApplicantDo{
		"a1": assignedApplicant("a1"),
	}})
	router := newTestRouter(model.RoleInterviewer)
	router.POST("/interview/sessions", h.CreateSession)

	w := doJSON(router, "POST", "/interview/sessions", map[string]interface{}{"applicantId": "a1", "location": "Ruang 101"})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	if len(sessions.created) != 1 {
		t.Fatalf("created %d sessions, expected 1", len(sessions.created))
	}
	created := sessions.created[0]
	if created.InterviewerID != testInterviewerID || created.Status != model.SessionStatusScheduled {
		t.Fatalf("created session %+v", created)
	}
}

func TestCreateSessionNotAssignedApplicant(t *testing.T) {
	applicant := assignedApplicant("a1")
	applicant.AssignedInterviewer = "someone-else"
	h := newSessionHandler(&fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{}},
		&fakeApplicantReader{applicants: map[string]*model.ApplicantDo{"a1": applicant}})
	router := newTestRouter(model.RoleInterviewer)
	router.POST("/interview/sessions", h.CreateSession)

	w := doJSON(router, "POST", "/interview/sessions", map[string]interface{}{"applicantId": "a1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, expected 404", w.Code)
	}
}

func TestCreateSessionWrongApplicantStatus(t *testing.T) {
	applicant := assignedApplicant("a1")
	applicant.Status = model.ApplicantStatusShortlist
	h := newSessionHandler(&fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{}},
		&fakeApplicantReader{applicants: map[string]*model.ApplicantDo{"a1": applicant}})
	router := newTestRouter(model.RoleInterviewer)
	router.POST("/interview/sessions", h.CreateSession)

	w := doJSON(router, "POST", "/interview/sessions", map[string]interface{}{"applicantId": "a1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expected 400", w.Code)
	}
}

func TestGetSessionMergesResponses(t *testing.T) {
	sessions := &fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{
		"a1": {ID: "s1", ApplicantID: "a1", InterviewerID: testInterviewerID},
	}}
	h := newSessionHandler(sessions, &fakeApplicantReader{applicants: map[string]*model.ApplicantDo{}})
	router := newTestRouter(model.RoleInterviewer)
	router.GET("/interview/sessions/:sessionId", h.GetSession)

	w := doJSON(router, "GET", "/interview/sessions/s1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data model.SessionDetailResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(body.Data.Questions) != 2 {
		t.Fatalf("merged %d questions, expected 2", len(body.Data.Questions))
	}
	if body.Data.Questions[0].Score != 4 || body.Data.Questions[0].Response != "cukup baik" {
		t.Fatalf("answered question not merged: %+v", body.Data.Questions[0])
	}
	if body.Data.Questions[1].Score != 0 || body.Data.Questions[1].Response != "" {
		t.Fatalf("unanswered question should stay empty: %+v", body.Data.Questions[1])
	}
}

func TestGetSessionOwnership(t *testing.T) {
	sessions := &fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{
		"a1": {ID: "s1", ApplicantID: "a1", InterviewerID: "someone-else"},
	}}
	h := newSessionHandler(sessions, &fakeApplicantReader{applicants: map[string]*model.ApplicantDo{}})
	router := newTestRouter(model.RoleInterviewer)
	router.GET("/interview/sessions/:sessionId", h.GetSession)

	w := doJSON(router, "GET", "/interview/sessions/s1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, expected 404", w.Code)
	}
}

func TestListCandidatesFiltersByInterviewer(t *testing.T) {
	unconfirmed := assignedApplicant("a2")
	unconfirmed.AttendanceConfirmed = false
	other := assignedApplicant("a3")
	other.AssignedInterviewer = "someone-else"
	h := newSessionHandler(&fakeSessionStore{byApplicant: map[string]*model.InterviewSessionDo{}},
		&fakeApplicantReader{applicants: map[string]*model.ApplicantDo{
			"a1": assignedApplicant("a1"),
			"a2": unconfirmed,
			"a3": other,
		}})
	router := newTestRouter(model.RoleInterviewer)
	router.GET("/interview/candidates", h.ListCandidates)

	w := doJSON(router, "GET", "/interview/candidates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data model.CandidateListResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Total != 1 || body.Data.List[0].ID != "a1" {
		t.Fatalf("candidates %+v, expected only a1", body.Data.List)
	}
}
