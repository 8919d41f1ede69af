package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

// ContextAdmin is the request context key holding the authenticated admin's claims.
const ContextAdmin contextKey = "admin"

type Admin struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"`
	Created_at time.Time          `bson:"created_at" json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}
