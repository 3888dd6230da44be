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

// InterviewerService 面试官目录存取。目录是分配与登录的唯一权威来源，
// 不在前端维护白名单。
type InterviewerService struct {
	mongoClient     *mgo.Session
	interviewerColl *mgo.Collection
	xl              *xlog.Logger
}

func NewInterviewerService(conf utils.MongoConfig, xl *xlog.Logger) (*InterviewerService, error) {
	if xl == nil {
		xl = xlog.New("rekrut-cube-interviewer")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	interviewerColl := mongoClient.DB(conf.Database).C(dao.InterviewerCollection)
	return &InterviewerService{
		mongoClient:     mongoClient,
		interviewerColl: interviewerColl,
		xl:              xl,
	}, nil
}

func (s *InterviewerService) getByFields(xl *xlog.Logger, fields bson.M) (*model.InterviewerDo, error) {
	if xl == nil {
		xl = s.xl
	}
	interviewer := model.InterviewerDo{}
	err := s.interviewerColl.Find(fields).One(&interviewer)
	if err != nil {
		if err == mgo.ErrNotFound {
			xl.Infof("no such interviewer for fields %v", fields)
			return nil, &errors2.ServerError{Code: errors2.ServerErrorInterviewerNotFound}
		}
		xl.Errorf("failed to get interviewer, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return &interviewer, nil
}

func (s *InterviewerService) GetInterviewerByID(xl *xlog.Logger, interviewerID string) (*model.InterviewerDo, error) {
	return s.getByFields(xl, bson.M{"_id": interviewerID})
}

func (s *InterviewerService) GetInterviewerByUsername(xl *xlog.Logger, username string) (*model.InterviewerDo, error) {
	return s.getByFields(xl, bson.M{"username": username})
}

// ResolveInterviewer 先按_id再按username解析。管理端两种写法都在用。
func (s *InterviewerService) ResolveInterviewer(xl *xlog.Logger, idOrUsername string) (*model.InterviewerDo, error) {
	interviewer, err := s.GetInterviewerByID(xl, idOrUsername)
	if err == nil {
		return interviewer, nil
	}
	if errors2.IsCode(err, errors2.ServerErrorInterviewerNotFound) {
		return s.GetInterviewerByUsername(xl, idOrUsername)
	}
	return nil, err
}

func (s *InterviewerService) CreateInterviewer(xl *xlog.Logger, interviewer *model.InterviewerDo) error {
	if xl == nil {
		xl = s.xl
	}
	if interviewer.ID == "" {
		interviewer.ID = utils.GenerateID()
	}
	if interviewer.Role == "" {
		interviewer.Role = model.RoleInterviewer
	}
	interviewer.CreateTime = time.Now()
	err := s.interviewerColl.Insert(interviewer)
	if err != nil {
		xl.Errorf("failed to insert interviewer %s, error %v", interviewer.Username, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}

func (s *InterviewerService) ListInterviewers(xl *xlog.Logger) ([]model.InterviewerDo, error) {
	if xl == nil {
		xl = s.xl
	}
	interviewers := []model.InterviewerDo{}
	err := s.interviewerColl.Find(bson.M{}).Sort("username").All(&interviewers)
	if err != nil {
		xl.Errorf("failed to list interviewers, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return interviewers, nil
}
