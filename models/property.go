package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Property struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Address     string               `bson:"address" json:"address"`
	Description string               `bson:"description" json:"description"`
	Pictures    []string             `bson:"pictures" json:"pictures"`
	LandlordID  primitive.ObjectID   `bson:"landlordId,omitempty" json:"landlordId,omitempty"`
	Rooms       []primitive.ObjectID `bson:"rooms" json:"rooms"`
	Tenants     []primitive.ObjectID `bson:"tenants,omitempty" json:"tenants,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// PropertyDetail is a property with references resolved. Landlord is only
// filled by the listing that looks it up; Rooms always carries the full
// room documents.
type PropertyDetail struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Address     string               `bson:"address" json:"address"`
	Description string               `bson:"description" json:"description"`
	Pictures    []string             `bson:"pictures" json:"pictures"`
	LandlordID  primitive.ObjectID   `bson:"landlordId,omitempty" json:"landlordId,omitempty"`
	Landlord    *LandlordSummary     `bson:"landlord,omitempty" json:"landlord,omitempty"`
	Rooms       []Room               `bson:"rooms" json:"rooms"`
	Tenants     []primitive.ObjectID `bson:"tenants,omitempty" json:"tenants,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
}

// PropertySummary is the short projection embedded in tenant listings.
type PropertySummary struct {
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
}
