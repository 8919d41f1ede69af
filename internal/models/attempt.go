package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmittedAnswer is one entry of a submission. SelectedOption may be empty
// and QuestionNumber may name no question; scoring ignores such entries.
type SubmittedAnswer struct {
	QuestionNumber int    `json:"questionNumber"`
	SelectedOption Option `json:"selectedOption"`
}

type Submission struct {
	Answers   []SubmittedAnswer `json:"answers"`
	TimeTaken int               `json:"timeTaken" validate:"min=0"`
}

// AttemptAnswer is a scored answer as stored on an attempt.
type AttemptAnswer struct {
	QuestionNumber int    `bson:"questionNumber" json:"questionNumber"`
	SelectedOption Option `bson:"selectedOption" json:"selectedOption"`
	IsCorrect      bool   `bson:"isCorrect" json:"isCorrect"`
}

// Attempt is one completed submission of a mock test. Attempts are never updated.
type Attempt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TestID      primitive.ObjectID `bson:"testId" json:"testId"`
	UserID      string             `bson:"userId,omitempty" json:"userId,omitempty"`
	Answers     []AttemptAnswer    `bson:"answers" json:"answers"`
	Score       float64            `bson:"score" json:"score"`
	TimeTaken   int                `bson:"timeTaken" json:"timeTaken"`
	CompletedAt time.Time          `bson:"completedAt" json:"completedAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// AttemptStats summarises every recorded attempt of one test.
type AttemptStats struct {
	Attempts     int     `bson:"attempts" json:"attempts"`
	HighestScore float64 `bson:"highestScore" json:"highestScore"`
	AverageScore float64 `bson:"averageScore" json:"averageScore"`
	AverageTime  float64 `bson:"averageTime" json:"averageTimeTaken"`
}
