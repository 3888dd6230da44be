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

// ResponseService 打分记录存取。记录从属于场次，没有独立生命周期。
type ResponseService struct {
	mongoClient  *mgo.Session
	responseColl *mgo.Collection
	xl           *xlog.Logger
}

func NewResponseService(conf utils.MongoConfig, xl *xlog.Logger) (*ResponseService, error) {
	if xl == nil {
		xl = xlog.New("rekrut-cube-response")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	responseColl := mongoClient.DB(conf.Database).C(dao.ResponseCollection)
	return &ResponseService{
		mongoClient:  mongoClient,
		responseColl: responseColl,
		xl:           xl,
	}, nil
}

func (s *ResponseService) ListBySession(xl *xlog.Logger, sessionID string) ([]model.InterviewResponseDo, error) {
	if xl == nil {
		xl = s.xl
	}
	responses := []model.InterviewResponseDo{}
	err := s.responseColl.Find(bson.M{"sessionId": sessionID}).All(&responses)
	if err != nil {
		xl.Errorf("failed to list responses of session %s, error %v", sessionID, err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return responses, nil
}

// ReplaceSessionResponses 全量替换：先删后插，不做upsert。
// 两步之间没有事务，删除成功而插入失败会留下空作答窗口，调用方重新提交即可恢复。
func (s *ResponseService) ReplaceSessionResponses(xl *xlog.Logger, sessionID string, responses []model.InterviewResponseDo) error {
	if xl == nil {
		xl = s.xl
	}
	_, err := s.responseColl.RemoveAll(bson.M{"sessionId": sessionID})
	if err != nil && err != mgo.ErrNotFound {
		xl.Errorf("failed to delete responses of session %s, error %v", sessionID, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	now := time.Now()
	for i := range responses {
		responses[i].SessionID = sessionID
		if responses[i].ID == "" {
			responses[i].ID = utils.GenerateID()
		}
		responses[i].CreateTime = now
		insertErr := s.responseColl.Insert(responses[i])
		if insertErr != nil {
			xl.Errorf("failed to insert response for session %s question %s, error %v", sessionID, responses[i].QuestionID, insertErr)
			return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: insertErr.Error()}
		}
	}
	xl.Infof("session %s responses replaced, %d rows", sessionID, len(responses))
	return nil
}
