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

// SessionService 面试场次存取。
type SessionService struct {
	mongoClient *mgo.Session
	sessionColl *mgo.Collection
	xl          *xlog.Logger
}

func NewSessionService(conf utils.MongoConfig, xl *xlog.Logger) (*SessionService, error) {
	if xl == nil {
		xl = xlog.New("rekrut-cube-session")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	sessionColl := mongoClient.DB(conf.Database).C(dao.SessionCollection)
	return &SessionService{
		mongoClient: mongoClient,
		sessionColl: sessionColl,
		xl:          xl,
	}, nil
}

func (s *SessionService) getSessionByFields(xl *xlog.Logger, fields bson.M) (*model.InterviewSessionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	session := model.InterviewSessionDo{}
	err := s.sessionColl.Find(fields).One(&session)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such session for fields %v", fields)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorSessionNotFound}
		}
		xl.Errorf("failed to get session, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return &session, nil
}

// GetSessionByApplicant 按报名者查活动场次，幂等创建的前置查询。
// CANCELLED场次不算活动场次。
func (s *SessionService) GetSessionByApplicant(xl *xlog.Logger, applicantID string) (*model.InterviewSessionDo, error) {
	return s.getSessionByFields(xl, bson.M{
		"applicantId": applicantID,
		"status":      bson.M{"$ne": model.SessionStatusCancelled},
	})
}

// GetSessionForInterviewer 同一条查询按_id和interviewerId过滤，
// 绝不先取后查，避免把别人的场次内容带回猜id的客户端。
func (s *SessionService) GetSessionForInterviewer(xl *xlog.Logger, sessionID, interviewerID string) (*model.InterviewSessionDo, error) {
	return s.getSessionByFields(xl, bson.M{"_id": sessionID, "interviewerId": interviewerID})
}

func (s *SessionService) CreateSession(xl *xlog.Logger, session *model.InterviewSessionDo) (*model.InterviewSessionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	if session.ID == "" {
		session.ID = utils.GenerateID()
	}
	if session.Status == "" {
		session.Status = model.SessionStatusScheduled
	}
	if session.InterviewDate.IsZero() {
		session.InterviewDate = time.Now()
	}
	session.CreateTime = time.Now()
	session.UpdateTime = session.CreateTime
	err := s.sessionColl.Insert(session)
	if err != nil {
		xl.Errorf("failed to insert session for applicant %s, error %v", session.ApplicantID, err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	xl.Infof("interviewer %s created session %s for applicant %s", session.InterviewerID, session.ID, session.ApplicantID)
	return session, nil
}

// CompleteSession 打分落库后的收尾：状态置COMPLETED并写入聚合结果。
// notes/recommendation/interviewerName为空串时保留原值。
func (s *SessionService) CompleteSession(xl *xlog.Logger, sessionID string, totalScore int, notes, recommendation, interviewerName string) error {
	if xl == nil {
		xl = s.xl
	}
	set := bson.M{
		"status":     model.SessionStatusCompleted,
		"totalScore": totalScore,
		"updateTime": time.Now(),
	}
	if notes != "" {
		set["notes"] = notes
	}
	if recommendation != "" {
		set["recommendation"] = recommendation
	}
	if interviewerName != "" {
		set["interviewerName"] = interviewerName
	}
	err := s.sessionColl.Update(bson.M{"_id": sessionID}, bson.M{"$set": set})
	if err != nil {
		if err == mgo.ErrNotFound {
			return &errors2.ServerError{Code: errors2.ServerErrorSessionNotFound}
		}
		xl.Errorf("failed to complete session %s, error %v", sessionID, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}

func (s *SessionService) UpdateStatus(xl *xlog.Logger, sessionID, status string) error {
	if xl == nil {
		xl = s.xl
	}
	err := s.sessionColl.Update(bson.M{"_id": sessionID}, bson.M{"$set": bson.M{
		"status":     status,
		"updateTime": time.Now(),
	}})
	if err != nil {
		if err == mgo.ErrNotFound {
			return &errors2.ServerError{Code: errors2.ServerErrorSessionNotFound}
		}
		xl.Errorf("failed to update status of session %s, error %v", sessionID, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}

// ListSessionsByInterviewer 面试官自己的场次，新的在前。
func (s *SessionService) ListSessionsByInterviewer(xl *xlog.Logger, interviewerID string) ([]model.InterviewSessionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	sessions := []model.InterviewSessionDo{}
	err := s.sessionColl.Find(bson.M{"interviewerId": interviewerID}).Sort("-createTime").All(&sessions)
	if err != nil {
		xl.Errorf("failed to list sessions of interviewer %s, error %v", interviewerID, err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return sessions, nil
}

// ListStaleScheduled 定时任务用：interviewDate早于deadline且仍为SCHEDULED的场次。
func (s *SessionService) ListStaleScheduled(xl *xlog.Logger, deadline time.Time, limit int) ([]model.InterviewSessionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	if limit <= 0 {
		limit = 10
	}
	sessions := []model.InterviewSessionDo{}
	err := s.sessionColl.Find(bson.M{
		"status":        model.SessionStatusScheduled,
		"interviewDate": bson.M{"$lt": deadline},
	}).Sort("interviewDate").Limit(limit).All(&sessions)
	if err != nil {
		xl.Errorf("failed to list stale sessions, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return sessions, nil
}
