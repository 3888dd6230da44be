package task

import (
	"time"

	"github.com/qiniu/x/log"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/rekrut-cube/internal/protodef/model"
	"github.com/solutions/rekrut-cube/internal/service/db/dao"
)

const DefaultStaleAfterHour = 24

// SessionTask 定时清理过期未开始的面试场次。
type SessionTask struct {
	mongoClient *mgo.Session
	sessionColl *mgo.Collection
	staleAfter  time.Duration
}

func NewSessionTask(mongoURI string, database string, staleAfterHour int) (*SessionTask, error) {
	mongoClient, err := mgo.Dial(mongoURI + "/" + database)
	if err != nil {
		log.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	if staleAfterHour <= 0 {
		staleAfterHour = DefaultStaleAfterHour
	}
	sessionColl := mongoClient.DB(database).C(dao.SessionCollection)
	return &SessionTask{
		mongoClient: mongoClient,
		sessionColl: sessionColl,
		staleAfter:  time.Duration(staleAfterHour) * time.Hour,
	}, nil
}

func (t *SessionTask) listStaleSessions(dataSize int) ([]model.InterviewSessionDo, error) {
	if dataSize <= 0 {
		dataSize = 10
	}
	deadline := time.Now().Add(-t.staleAfter)
	sessions := []model.InterviewSessionDo{}
	err := t.sessionColl.Find(bson.M{
		"status":        model.SessionStatusScheduled,
		"interviewDate": bson.M{"$lt": deadline},
	}).Sort("interviewDate").Limit(dataSize).All(&sessions)
	if err != nil {
		log.Errorf("failed to list stale sessions, error %v", err)
		return nil, err
	}
	return sessions, nil
}

// TaskForCancelStaleSessions 把约定时间已过去且一直没开始的场次置为CANCELLED。
func (t *SessionTask) TaskForCancelStaleSessions() {
	log.Infof("taskForCancelStaleSessions run at %s", time.Now().String())

	sessions, err := t.listStaleSessions(10)
	if err != nil {
		log.Errorf("TaskForCancelStaleSessions find sessions, error: %v", err)
		return
	}
	if len(sessions) <= 0 {
		log.Infof("taskForCancelStaleSessions find no sessions")
	}
	for _, session := range sessions {
		log.Infof("TaskForCancelStaleSessions cancel session %s, interviewDate: %s", session.ID, session.InterviewDate)
		err := t.sessionColl.Update(bson.M{"_id": session.ID}, bson.M{"$set": bson.M{
			"status":     model.SessionStatusCancelled,
			"updateTime": time.Now(),
		}})
		if err != nil {
			log.Errorf("TaskForCancelStaleSessions cancel err, %v", err)
		}
	}
}
