package db

import (
	"time"

	"github.com/solutions/rekrut-cube/internal/common/utils"
	errors2 "github.com/solutions/rekrut-cube/internal/protodef/errors"
	model "github.com/solutions/rekrut-cube/internal/protodef/model"
	dao "github.com/solutions/rekrut-cube/internal/service/db/dao"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// ApplicantService 报名者存取。
type ApplicantService struct {
	mongoClient   *mgo.Session
	applicantColl *mgo.Collection
	xl            *xlog.Logger
}

func NewApplicantService(conf utils.MongoConfig, xl *xlog.Logger) (*ApplicantService, error) {
	if xl == nil {
		xl = xlog.New("rekrut-cube-applicant")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	applicantColl := mongoClient.DB(conf.Database).C(dao.ApplicantCollection)
	return &ApplicantService{
		mongoClient:   mongoClient,
		applicantColl: applicantColl,
		xl:            xl,
	}, nil
}

func (s *ApplicantService) getApplicantByFields(xl *xlog.Logger, fields bson.M) (*model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	applicant := model.ApplicantDo{}
	err := s.applicantColl.Find(fields).One(&applicant)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such applicant for fields %v", fields)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorApplicantNotFound}
		}
		xl.Errorf("failed to get applicant, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return &applicant, nil
}

func (s *ApplicantService) GetApplicantByID(xl *xlog.Logger, applicantID string) (*model.ApplicantDo, error) {
	return s.getApplicantByFields(xl, bson.M{"_id": applicantID})
}

func (s *ApplicantService) GetApplicantByNim(xl *xlog.Logger, nim string) (*model.ApplicantDo, error) {
	return s.getApplicantByFields(xl, bson.M{"nim": nim})
}

func (s *ApplicantService) CreateApplicant(xl *xlog.Logger, applicant *model.ApplicantDo) error {
	if xl == nil {
		xl = s.xl
	}
	if applicant.ID == "" {
		applicant.ID = utils.GenerateID()
	}
	if applicant.Status == "" {
		applicant.Status = model.ApplicantStatusUnderReview
	}
	applicant.CreateTime = time.Now()
	applicant.UpdateTime = applicant.CreateTime
	err := s.applicantColl.Insert(applicant)
	if err != nil {
		xl.Errorf("failed to insert applicant %s, error %v", applicant.ID, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}

// MarkAttendance 出席确认：status流转到INTERVIEW并置attendanceConfirmed。
// 分配面试官的前置条件。
func (s *ApplicantService) MarkAttendance(xl *xlog.Logger, nim string) (*model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	applicant, err := s.GetApplicantByNim(xl, nim)
	if err != nil {
		return nil, err
	}
	applicant.Status = model.ApplicantStatusInterview
	applicant.AttendanceConfirmed = true
	applicant.UpdateTime = time.Now()
	updateErr := s.applicantColl.Update(bson.M{"_id": applicant.ID}, bson.M{"$set": bson.M{
		"status":              applicant.Status,
		"attendanceConfirmed": applicant.AttendanceConfirmed,
		"updateTime":          applicant.UpdateTime,
	}})
	if updateErr != nil {
		xl.Errorf("failed to mark attendance for applicant %s, error %v", applicant.ID, updateErr)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: updateErr.Error()}
	}
	xl.Infof("applicant %s (nim %s) attendance confirmed", applicant.ID, nim)
	return applicant, nil
}

// AssignInterviewer 单次update写入assignedInterviewer与interviewStatus，
// 不拆成两步，避免半程失败留下部分写入。
func (s *ApplicantService) AssignInterviewer(xl *xlog.Logger, applicantID, interviewerID string) (*model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	applicant, err := s.GetApplicantByID(xl, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant.AssignedInterviewer != "" {
		xl.Infof("applicant %s already assigned to %s", applicantID, applicant.AssignedInterviewer)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorAlreadyAssigned, Summary: applicant.AssignedInterviewer}
	}
	if applicant.Status != model.ApplicantStatusInterview || !applicant.AttendanceConfirmed {
		return nil, &errors2.ServerError{Code: errors2.ServerErrorInvalidState, Summary: applicant.Status}
	}
	applicant.AssignedInterviewer = interviewerID
	applicant.InterviewStatus = model.InterviewStatusAssigned
	applicant.UpdateTime = time.Now()
	updateErr := s.applicantColl.Update(bson.M{"_id": applicantID}, bson.M{"$set": bson.M{
		"assignedInterviewer": interviewerID,
		"interviewStatus":     model.InterviewStatusAssigned,
		"updateTime":          applicant.UpdateTime,
	}})
	if updateErr != nil {
		xl.Errorf("failed to assign interviewer %s to applicant %s, error %v", interviewerID, applicantID, updateErr)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: updateErr.Error()}
	}
	xl.Infof("applicant %s assigned to interviewer %s", applicantID, interviewerID)
	return applicant, nil
}

func (s *ApplicantService) UpdateStatus(xl *xlog.Logger, applicantID, status string) error {
	if xl == nil {
		xl = s.xl
	}
	err := s.applicantColl.Update(bson.M{"_id": applicantID}, bson.M{"$set": bson.M{
		"status":     status,
		"updateTime": time.Now(),
	}})
	if err != nil {
		if err == mgo.ErrNotFound {
			return &errors2.ServerError{Code: errors2.ServerErrorApplicantNotFound}
		}
		xl.Errorf("failed to update status of applicant %s, error %v", applicantID, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}

// ListCandidates 候选人列表：已确认出席且进入INTERVIEW状态的报名者。
// interviewerID非空时只返回分配给该面试官的。
func (s *ApplicantService) ListCandidates(xl *xlog.Logger, interviewerID string) ([]model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	condition := bson.M{
		"status":              model.ApplicantStatusInterview,
		"attendanceConfirmed": true,
	}
	if interviewerID != "" {
		condition["assignedInterviewer"] = interviewerID
	}
	applicants := []model.ApplicantDo{}
	err := s.applicantColl.Find(condition).Sort("fullName").All(&applicants)
	if err != nil {
		xl.Errorf("failed to list candidates, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return applicants, nil
}

// ListForExport 批量导出的取数，limit<=0表示不限。
func (s *ApplicantService) ListForExport(xl *xlog.Logger, limit int) ([]model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	query := s.applicantColl.Find(bson.M{}).Sort("createTime")
	if limit > 0 {
		query = query.Limit(limit)
	}
	applicants := []model.ApplicantDo{}
	err := query.All(&applicants)
	if err != nil {
		xl.Errorf("failed to list applicants for export, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return applicants, nil
}

func (s *ApplicantService) CountApplicants(xl *xlog.Logger) (int, error) {
	if xl == nil {
		xl = s.xl
	}
	total, err := s.applicantColl.Count()
	if err != nil {
		xl.Errorf("failed to count applicants, error %v", err)
		return 0, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return total, nil
}
