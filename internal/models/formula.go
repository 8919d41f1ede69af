package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Formula points at a formula sheet for one (subject, chapter) pair.
type Formula struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Subject   string             `bson:"subject" json:"subject" validate:"required,oneof=Physics Chemistry Biology"`
	Chapter   string             `bson:"chapter" json:"chapter" validate:"required"`
	PdfURL    string             `bson:"pdfUrl" json:"pdfUrl" validate:"required"`
	ShortNote string             `bson:"shortNote,omitempty" json:"shortNote,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type FormulaUpdate struct {
	Subject   *string `json:"subject" validate:"omitempty,oneof=Physics Chemistry Biology"`
	Chapter   *string `json:"chapter" validate:"omitempty,min=1"`
	PdfURL    *string `json:"pdfUrl" validate:"omitempty,min=1"`
	ShortNote *string `json:"shortNote"`
}

func (u FormulaUpdate) Fields() map[string]interface{} {
	set := map[string]interface{}{}
	if u.Subject != nil {
		set["subject"] = *u.Subject
	}
	if u.Chapter != nil {
		set["chapter"] = *u.Chapter
	}
	if u.PdfURL != nil {
		set["pdfUrl"] = *u.PdfURL
	}
	if u.ShortNote != nil {
		set["shortNote"] = *u.ShortNote
	}
	return set
}
