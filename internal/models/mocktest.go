package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultDuration = 180
	DefaultPositive = 4
	DefaultNegative = -1
)

// Marking is the points added per correct and per incorrect answer.
// Unattempted questions always score zero.
type Marking struct {
	Positive float64 `bson:"positive" json:"positive"`
	Negative float64 `bson:"negative" json:"negative"`
}

func DefaultMarking() Marking {
	return Marking{Positive: DefaultPositive, Negative: DefaultNegative}
}

// MockTestQuestion is a question embedded in a mock test. SerialNumber is
// 1-based and dense across the test.
type MockTestQuestion struct {
	SerialNumber        int    `bson:"serialNumber" json:"serialNumber"`
	Question            string `bson:"question" json:"question"`
	Choices             `bson:",inline"`
	CorrectOption       Option `bson:"correctOption" json:"correctOption"`
	Explanation         string `bson:"explanation" json:"explanation"`
	QuestionImageURL    string `bson:"questionImageUrl,omitempty" json:"questionImageUrl,omitempty"`
	ExplanationImageURL string `bson:"explanationImageUrl,omitempty" json:"explanationImageUrl,omitempty"`
}

type MockTest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	TestName       string             `bson:"testName" json:"testName"`
	Duration       int                `bson:"duration" json:"duration"`
	TotalQuestions int                `bson:"totalQuestions" json:"totalQuestions"`
	Marking        Marking            `bson:"marking" json:"marking"`
	Questions      []MockTestQuestion `bson:"questions,omitempty" json:"questions,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// QuestionBySerial returns the question with the given serial number.
func (t *MockTest) QuestionBySerial(serial int) (MockTestQuestion, bool) {
	for _, q := range t.Questions {
		if q.SerialNumber == serial {
			return q, true
		}
	}
	return MockTestQuestion{}, false
}

// MockTestRequest is the admin payload for creating a test from delimited text.
type MockTestRequest struct {
	TestName       string   `json:"testName" validate:"required"`
	CSVData        string   `json:"csvData" validate:"required"`
	Duration       int      `json:"duration" validate:"min=0"`
	TotalQuestions int      `json:"totalQuestions" validate:"min=0"`
	Marking        *Marking `json:"marking"`
}

// MockTestAdminSummary is the admin listing row for a test.
type MockTestAdminSummary struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	TestName       string             `bson:"testName" json:"testName"`
	TotalQuestions int                `bson:"questionCount" json:"totalQuestions"`
	Duration       int                `bson:"duration" json:"duration"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
