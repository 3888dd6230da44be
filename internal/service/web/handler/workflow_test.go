package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/solutions/rekrut-cube/internal/protodef/errors"
	"github.com/solutions/rekrut-cube/internal/protodef/form"
	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/cloud"

	"github.com/qiniu/x/xlog"
)

type fakeWorkflowApplicant struct {
	applicants map[string]*model.ApplicantDo // by id
	byNim      map[string]*model.ApplicantDo
}

func (f *fakeWorkflowApplicant) AssignInterviewer(xl *xlog.Logger, applicantID, interviewerID string) (*model.ApplicantDo, error) {
	applicant, ok := f.applicants[applicantID]
	if !ok {
		return nil, &errors.ServerError{Code: errors.ServerErrorApplicantNotFound}
	}
	if applicant.AssignedInterviewer != "" {
		return nil, &errors.ServerError{Code: errors.ServerErrorAlreadyAssigned}
	}
	if applicant.Status != model.ApplicantStatusInterview || !applicant.AttendanceConfirmed {
		return nil, &errors.ServerError{Code: errors.ServerErrorInvalidState, Summary: applicant.Status}
	}
	applicant.AssignedInterviewer = interviewerID
	applicant.InterviewStatus = model.InterviewStatusAssigned
	return applicant, nil
}

func (f *fakeWorkflowApplicant) MarkAttendance(xl *xlog.Logger, nim string) (*model.ApplicantDo, error) {
	applicant, ok := f.byNim[nim]
	if !ok {
		return nil, &errors.ServerError{Code: errors.ServerErrorApplicantNotFound}
	}
	applicant.Status = model.ApplicantStatusInterview
	applicant.AttendanceConfirmed = true
	return applicant, nil
}

type fakeInterviewerResolver struct {
	interviewers map[string]*model.InterviewerDo // by id or username
}

func (f *fakeInterviewerResolver) ResolveInterviewer(xl *xlog.Logger, idOrUsername string) (*model.InterviewerDo, error) {
	if interviewer, ok := f.interviewers[idOrUsername]; ok {
		return interviewer, nil
	}
	return nil, &errors.ServerError{Code: errors.ServerErrorInterviewerNotFound}
}

func newWorkflowHandler(applicants *fakeWorkflowApplicant) (*WorkflowApiHandler, *cloud.NoopNotificationService) {
	notify := &cloud.NoopNotificationService{}
	h := &WorkflowApiHandler{
		Applicant: applicants,
		Interviewer: &fakeInterviewerResolver{interviewers: map[string]*model.InterviewerDo{
			"ivw-1": {ID: "ivw-1", Username: "budi", FullName: "Budi", Role: model.RoleInterviewer},
			"budi":  {ID: "ivw-1", Username: "budi", FullName: "Budi", Role: model.RoleInterviewer},
		}},
		Notify: notify,
	}
	return h, notify
}

func TestWorkflowAssignInterviewer(t *testing.T) {
	applicant := &model.ApplicantDo{
		ID: "a1", Status: model.ApplicantStatusInterview, AttendanceConfirmed: true,
	}
	h, notify := newWorkflowHandler(&fakeWorkflowApplicant{
		applicants: map[string]*model.ApplicantDo{"a1": applicant},
	})
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/interview-workflow", h.HandleWorkflow)

	w := doJSON(router, "POST", "/admin/interview-workflow", map[string]interface{}{
		"action":        form.WorkflowActionAssignInterviewer,
		"applicantId":   "a1",
		"interviewerId": "budi",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data model.AssignmentResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	// username解析为规范id
	if body.Data.Applicant.AssignedInterviewer != "ivw-1" {
		t.Fatalf("assigned interviewer %q, expected ivw-1", body.Data.Applicant.AssignedInterviewer)
	}
	if body.Data.Applicant.InterviewStatus != model.InterviewStatusAssigned {
		t.Fatalf("interview status %q", body.Data.Applicant.InterviewStatus)
	}
	if len(notify.Sent) != 1 {
		t.Fatalf("notification count %d, expected 1", len(notify.Sent))
	}
}

func TestWorkflowAssignAlreadyAssigned(t *testing.T) {
	applicant := &model.ApplicantDo{
		ID: "a1", Status: model.ApplicantStatusInterview, AttendanceConfirmed: true,
		AssignedInterviewer: "ivw-9",
	}
	h, _ := newWorkflowHandler(&fakeWorkflowApplicant{
		applicants: map[string]*model.ApplicantDo{"a1": applicant},
	})
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/interview-workflow", h.HandleWorkflow)

	w := doJSON(router, "POST", "/admin/interview-workflow", map[string]interface{}{
		"action":        form.WorkflowActionAssignInterviewer,
		"applicantId":   "a1",
		"interviewerId": "budi",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expected 400", w.Code)
	}
}

func TestWorkflowAssignApplicantNotFound(t *testing.T) {
	h, _ := newWorkflowHandler(&fakeWorkflowApplicant{applicants: map[string]*model.ApplicantDo{}})
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/interview-workflow", h.HandleWorkflow)

	w := doJSON(router, "POST", "/admin/interview-workflow", map[string]interface{}{
		"action":        form.WorkflowActionAssignInterviewer,
		"applicantId":   "missing",
		"interviewerId": "budi",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d, expected 404", w.Code)
	}
}

func TestWorkflowMarkAttendance(t *testing.T) {
	applicant := &model.ApplicantDo{ID: "a1", Nim: "20240001", Status: model.ApplicantStatusShortlist}
	h, _ := newWorkflowHandler(&fakeWorkflowApplicant{
		byNim: map[string]*model.ApplicantDo{"20240001": applicant},
	})
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/interview-workflow", h.HandleWorkflow)

	w := doJSON(router, "POST", "/admin/interview-workflow", map[string]interface{}{
		"action": form.WorkflowActionMarkAttendance,
		"nim":    "20240001",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var body struct {
		Data model.AttendanceResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body.Data.Status != model.ApplicantStatusInterview {
		t.Fatalf("status %q, expected INTERVIEW", body.Data.Status)
	}
	if !body.Data.Applicant.AttendanceConfirmed {
		t.Fatalf("attendance not confirmed")
	}
}

func TestWorkflowUnknownAction(t *testing.T) {
	h, _ := newWorkflowHandler(&fakeWorkflowApplicant{})
	router := newTestRouter(model.RoleAdmin)
	router.POST("/admin/interview-workflow", h.HandleWorkflow)

	w := doJSON(router, "POST", "/admin/interview-workflow", map[string]interface{}{
		"action": "promote_to_ceo",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d, expected 400", w.Code)
	}
}
