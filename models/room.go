package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoomStatusAvailable = "available"
	RoomStatusRented    = "rented"
)

// RoomTypes are the accepted values for Room.Type.
var RoomTypes = []string{"single", "bedSitter", "oneBedroom", "twoBedroom", "threeBedroom"}

func ValidRoomType(t string) bool {
	for _, rt := range RoomTypes {
		if t == rt {
			return true
		}
	}
	return false
}

func ValidRoomStatus(s string) bool {
	return s == RoomStatusAvailable || s == RoomStatusRented
}

type Room struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string              `bson:"name" json:"name"`
	Type         string              `bson:"type" json:"type"`
	RentingPrice float64             `bson:"rentingPrice" json:"rentingPrice"`
	Pictures     []string            `bson:"pictures" json:"pictures"`
	Property     primitive.ObjectID  `bson:"property" json:"property"`
	Landlord     primitive.ObjectID  `bson:"landlord" json:"landlord"`
	Tenant       *primitive.ObjectID `bson:"tenant" json:"tenant"`
	Status       string              `bson:"status" json:"status"`
}

// RoomDetail is a room with its property, landlord and tenant references
// resolved to full documents.
type RoomDetail struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Type         string             `json:"type"`
	RentingPrice float64            `json:"rentingPrice"`
	Pictures     []string           `json:"pictures"`
	Status       string             `json:"status"`
	Property     *Property          `json:"property"`
	Landlord     *Landlord          `json:"landlord"`
	Tenant       *Tenant            `json:"tenant"`
}

// RoomSummary is the short projection embedded in tenant listings.
type RoomSummary struct {
	Name         string  `bson:"name" json:"name"`
	RentingPrice float64 `bson:"rentingPrice" json:"rentingPrice"`
	Status       string  `bson:"status" json:"status"`
}
