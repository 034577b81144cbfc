package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Landlord struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Email       string               `bson:"email" json:"email"`
	PhoneNumber string               `bson:"phoneNumber" json:"phoneNumber"`
	Password    string               `bson:"password" json:"password,omitempty"`
	Properties  []primitive.ObjectID `bson:"properties" json:"properties"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PopulatedLandlord is a landlord with its property references resolved to
// full property documents.
type PopulatedLandlord struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Properties  []Property         `bson:"properties" json:"properties"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LandlordSummary is the short projection embedded in property listings.
type LandlordSummary struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}
