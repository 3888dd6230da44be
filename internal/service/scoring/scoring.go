package scoring

import (
	"fmt"

	"github.com/solutions/rekrut-cube/internal/protodef/form"
	model "github.com/solutions/rekrut-cube/internal/protodef/model"
)

// SanitizeSubmit 首次提交的清洗：丢弃缺questionId的条目，分数夹取到[0,5]。
// 0分在提交路径是合法值（未作答占位）。
func SanitizeSubmit(entries []form.ScoreEntryForm) []model.InterviewResponseDo {
	responses := make([]model.InterviewResponseDo, 0, len(entries))
	for _, entry := range entries {
		if entry.QuestionID == "" {
			continue
		}
		score := entry.Score
		if score < model.ScoreMin {
			score = model.ScoreMin
		}
		if score > model.ScoreMax {
			score = model.ScoreMax
		}
		responses = append(responses, model.InterviewResponseDo{
			QuestionID: entry.QuestionID,
			Score:      score,
			Response:   entry.Response,
			Notes:      entry.Notes,
		})
	}
	return responses
}

// SanitizeEdit 修改路径的清洗：缺questionId或分数在[1,5]之外的条目整条丢弃。
// 与提交路径的夹取行为不一致，沿用既有语义（0分是否合法待产品裁决），勿擅自统一。
func SanitizeEdit(entries []form.ScoreEntryForm) []model.InterviewResponseDo {
	responses := make([]model.InterviewResponseDo, 0, len(entries))
	for _, entry := range entries {
		if entry.QuestionID == "" {
			continue
		}
		if entry.Score < 1 || entry.Score > model.ScoreMax {
			continue
		}
		responses = append(responses, model.InterviewResponseDo{
			QuestionID: entry.QuestionID,
			Score:      entry.Score,
			Response:   entry.Response,
			Notes:      entry.Notes,
		})
	}
	return responses
}

// Aggregate 合计与平均分。空集平均分为0，调用方应在清洗后先拒绝空集。
func Aggregate(responses []model.InterviewResponseDo) (totalScore int, averageScore float64) {
	for _, response := range responses {
		totalScore += response.Score
	}
	if len(responses) == 0 {
		return 0, 0
	}
	return totalScore, float64(totalScore) / float64(len(responses))
}

// DeriveRecommendation 推荐档位，阈值自高向低依次比较，全域覆盖且不重叠。
func DeriveRecommendation(averageScore float64) string {
	switch {
	case averageScore >= 4.5:
		return model.RecommendationStrong
	case averageScore >= 4.0:
		return model.RecommendationRecommended
	case averageScore >= 3.0:
		return model.RecommendationConsidered
	case averageScore > 0:
		return model.RecommendationNot
	default:
		return model.RecommendationNotEvaluable
	}
}

// FormatAverage 两位小数字符串，回显用。
func FormatAverage(averageScore float64) string {
	return fmt.Sprintf("%.2f", averageScore)
}

// MaxScore 满分：题数×单题上限。
func MaxScore(responseCount int) int {
	return responseCount * model.ScoreMax
}
