package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option is one of the four answer labels. The empty Option means no selection.
type Option string

const (
	OptionNone Option = ""
	OptionA    Option = "A"
	OptionB    Option = "B"
	OptionC    Option = "C"
	OptionD    Option = "D"
)

// Options lists the answer labels in display order.
var Options = [4]Option{OptionA, OptionB, OptionC, OptionD}

// ParseOption normalises s and reports whether it names one of A-D.
// An empty or blank s yields OptionNone and ok == false.
func ParseOption(s string) (Option, bool) {
	o := Option(strings.ToUpper(strings.TrimSpace(s)))
	return o, o.Valid()
}

func (o Option) Valid() bool {
	switch o {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// Choices holds the four option texts. It is embedded inline so documents and
// JSON keep the flat optionA..optionD shape.
type Choices struct {
	OptionA string `bson:"optionA" json:"optionA"`
	OptionB string `bson:"optionB" json:"optionB"`
	OptionC string `bson:"optionC" json:"optionC"`
	OptionD string `bson:"optionD" json:"optionD"`
}

// OptionText returns the text for label, or "" for an unknown label.
func (c Choices) OptionText(label Option) string {
	switch label {
	case OptionA:
		return c.OptionA
	case OptionB:
		return c.OptionB
	case OptionC:
		return c.OptionC
	case OptionD:
		return c.OptionD
	}
	return ""
}

// Populated reports whether label names an option with text.
func (c Choices) Populated(label Option) bool {
	return strings.TrimSpace(c.OptionText(label)) != ""
}

var Subjects = []string{"Physics", "Chemistry", "Biology"}

func ValidSubject(s string) bool {
	for _, v := range Subjects {
		if v == s {
			return true
		}
	}
	return false
}

// Question is a question-bank item. QuestionID is a zero padded sequence and
// SerialNumber is scoped to its chapter, e.g. "Mechanics-3".
type Question struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	QuestionID          string             `bson:"questionId" json:"questionId"`
	SerialNumber        string             `bson:"serialNumber" json:"serialNumber"`
	Subject             string             `bson:"subject" json:"subject" validate:"required,oneof=Physics Chemistry Biology"`
	Chapter             string             `bson:"chapter" json:"chapter" validate:"required"`
	Question            string             `bson:"question" json:"question" validate:"required"`
	Choices             `bson:",inline"`
	CorrectOption       Option    `bson:"correctOption" json:"correctOption" validate:"required,oneof=A B C D"`
	Explanation         string    `bson:"explanation" json:"explanation"`
	QuestionImageURL    string    `bson:"questionImageUrl,omitempty" json:"questionImageUrl,omitempty"`
	ExplanationImageURL string    `bson:"explanationImageUrl,omitempty" json:"explanationImageUrl,omitempty"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// QuestionUpdate carries the fields an admin edit may change. Nil fields are
// left untouched. Values are trimmed, so an edit is checked by applying it to
// the stored question and validating the result.
type QuestionUpdate struct {
	Subject             *string `json:"subject"`
	Chapter             *string `json:"chapter"`
	Question            *string `json:"question"`
	OptionA             *string `json:"optionA"`
	OptionB             *string `json:"optionB"`
	OptionC             *string `json:"optionC"`
	OptionD             *string `json:"optionD"`
	CorrectOption       *string `json:"correctOption"`
	Explanation         *string `json:"explanation"`
	QuestionImageURL    *string `json:"questionImageUrl"`
	ExplanationImageURL *string `json:"explanationImageUrl"`
}

// Fields returns the bson field/value pairs set on u.
func (u QuestionUpdate) Fields() map[string]interface{} {
	set := map[string]interface{}{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = strings.TrimSpace(*v)
		}
	}
	put("subject", u.Subject)
	put("chapter", u.Chapter)
	put("question", u.Question)
	put("optionA", u.OptionA)
	put("optionB", u.OptionB)
	put("optionC", u.OptionC)
	put("optionD", u.OptionD)
	put("explanation", u.Explanation)
	put("questionImageUrl", u.QuestionImageURL)
	put("explanationImageUrl", u.ExplanationImageURL)
	if u.CorrectOption != nil {
		set["correctOption"] = strings.ToUpper(strings.TrimSpace(*u.CorrectOption))
	}
	return set
}

// Apply copies the set fields of u onto q the same way Fields stores them.
func (q *Question) Apply(u QuestionUpdate) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&q.Subject, u.Subject)
	set(&q.Chapter, u.Chapter)
	set(&q.Question, u.Question)
	set(&q.OptionA, u.OptionA)
	set(&q.OptionB, u.OptionB)
	set(&q.OptionC, u.OptionC)
	set(&q.OptionD, u.OptionD)
	set(&q.Explanation, u.Explanation)
	set(&q.QuestionImageURL, u.QuestionImageURL)
	set(&q.ExplanationImageURL, u.ExplanationImageURL)
	if u.CorrectOption != nil {
		q.CorrectOption = Option(strings.ToUpper(strings.TrimSpace(*u.CorrectOption)))
	}
}

// QuestionFilter narrows question-bank listings. Empty fields match everything.
type QuestionFilter struct {
	Subject string
	Chapter string
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	p := Pagination{Total: total, Page: page, Limit: limit}
	if limit > 0 {
		p.Pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return p
}
