package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tenant struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name           string              `bson:"name" json:"name"`
	Email          string              `bson:"email" json:"email"`
	PhoneNumber    string              `bson:"phoneNumber" json:"phoneNumber"`
	Password       string              `bson:"password" json:"password,omitempty"`
	RoomRented     *primitive.ObjectID `bson:"roomRented" json:"roomRented"`
	PropertyRented *primitive.ObjectID `bson:"propertyRented" json:"propertyRented"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// TenantDetail is a tenant with the rented room and property resolved to
// short projections.
type TenantDetail struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PhoneNumber    string             `bson:"phoneNumber" json:"phoneNumber"`
	RoomRented     *RoomSummary       `bson:"roomRented" json:"roomRented"`
	PropertyRented *PropertySummary   `bson:"propertyRented" json:"propertyRented"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
