package db

import (
	"github.com/solutions/rekrut-cube/internal/common/utils"
	errors2 "github.com/solutions/rekrut-cube/internal/protodef/errors"
	model "github.com/solutions/rekrut-cube/internal/protodef/model"
	dao "github.com/solutions/rekrut-cube/internal/service/db/dao"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// QuestionService 题目目录存取，打分侧只读。
type QuestionService struct {
	mongoClient  *mgo.Session
	questionColl *mgo.Collection
	xl           *xlog.Logger
}

func NewQuestionService(conf utils.MongoConfig, xl *xlog.Logger) (*QuestionService, error) {
	if xl == nil {
		xl = xlog.New("rekrut-cube-question")
	}
	mongoClient, err := mgo.Dial(conf.URI)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	questionColl := mongoClient.DB(conf.Database).C(dao.QuestionCollection)
	return &QuestionService{
		mongoClient:  mongoClient,
		questionColl: questionColl,
		xl:           xl,
	}, nil
}

func (s *QuestionService) ListActiveQuestions(xl *xlog.Logger) ([]model.InterviewQuestionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	questions := []model.InterviewQuestionDo{}
	err := s.questionColl.Find(bson.M{"isActive": true}).Sort("questionNumber").All(&questions)
	if err != nil {
		xl.Errorf("failed to list active questions, error %v", err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return questions, nil
}

func (s *QuestionService) GetQuestionByID(xl *xlog.Logger, questionID string) (*model.InterviewQuestionDo, error) {
	if xl == nil {
		xl = s.xl
	}
	question := model.InterviewQuestionDo{}
	err := s.questionColl.Find(bson.M{"_id": questionID}).One(&question)
	if err != nil {
		if err == mgo.ErrNotFound {
			return nil, &errors2.ServerError{Code: errors2.ServerErrorQuestionNotFound}
		}
		xl.Errorf("failed to get question %s, error %v", questionID, err)
		return nil, &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return &question, nil
}

func (s *QuestionService) CreateQuestion(xl *xlog.Logger, question *model.InterviewQuestionDo) error {
	if xl == nil {
		xl = s.xl
	}
	if question.ID == "" {
		question.ID = utils.GenerateID()
	}
	err := s.questionColl.Insert(question)
	if err != nil {
		xl.Errorf("failed to insert question %d, error %v", question.QuestionNumber, err)
		return &errors2.ServerError{Code: errors2.ServerErrorMongoOpFail, Summary: err.Error()}
	}
	return nil
}
