package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nyumbani/rental-manager/backend/config"
	"github.com/nyumbani/rental-manager/backend/models"
)

// CreateProperty creates a property under an existing landlord and pushes
// the new id onto the landlord's properties list.
func CreateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"name"`
			Address     string `json:"address"`
			Description string `json:"description"`
			LandlordID  string `json:"landlordId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding property data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Address == "" || body.Description == "" || body.LandlordID == "" {
			respondError(w, http.StatusBadRequest, "All fields are required to create a property")
			return
		}

		landlordID, err := primitive.ObjectIDFromHex(body.LandlordID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		property := models.Property{
			Name:        body.Name,
			Address:     body.Address,
			Description: body.Description,
			Pictures:    []string{},
			LandlordID:  landlord.ID,
			Rooms:       []primitive.ObjectID{},
			CreatedAt:   time.Now(),
		}

		res, err := config.PropertyCollection.InsertOne(r.Context(), property)
		if err != nil {
			log.Printf("Error creating property: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error: Could not create property and add to landlord.")
			return
		}
		property.ID = res.InsertedID.(primitive.ObjectID)

		_, err = config.LandlordCollection.UpdateOne(r.Context(),
			bson.M{"_id": landlord.ID},
			bson.M{"$push": bson.M{"properties": property.ID}},
		)
		if err != nil {
			log.Printf("Error adding property %s to landlord %s: %v", property.ID.Hex(), landlord.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error: Could not create property and add to landlord.")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		respondJSON(w, http.StatusCreated, property)
	}
}

func GetAllProperties(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := listCacheKey(propertyCachePrefix, r.URL.Query())
		if cached, ok := cacheGet(r.Context(), redisClient, cacheKey); ok {
			log.Printf("Cache hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$lookup", Value: bson.M{
				"from":         "landlords",
				"localField":   "landlordId",
				"foreignField": "_id",
				"as":           "landlord",
			}}},
			{{Key: "$unwind", Value: bson.M{"path": "$landlord", "preserveNullAndEmptyArrays": true}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "rooms",
				"localField":   "rooms",
				"foreignField": "_id",
				"as":           "rooms",
			}}},
			{{Key: "$project", Value: bson.M{
				"name":           1,
				"address":        1,
				"description":    1,
				"pictures":       1,
				"rooms":          1,
				"tenants":        1,
				"createdAt":      1,
				"landlordId":     1,
				"landlord.name":  1,
				"landlord.email": 1,
			}}},
		}

		cursor, err := config.PropertyCollection.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.PropertyDetail
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if len(properties) == 0 {
			respondError(w, http.StatusNotFound, "No properties found")
			return
		}

		resultBytes, err := json.Marshal(properties)
		if err != nil {
			log.Printf("Failed to serialize properties: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		cacheSet(r.Context(), redisClient, cacheKey, resultBytes)

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

func GetPropertyByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["propertyId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		pipeline := mongo.Pipeline{
			{{Key: "$match", Value: bson.M{"_id": propertyID}}},
			{{Key: "$lookup", Value: bson.M{
				"from":         "rooms",
				"localField":   "rooms",
				"foreignField": "_id",
				"as":           "rooms",
			}}},
		}

		cursor, err := config.PropertyCollection.Aggregate(r.Context(), pipeline)
		if err != nil {
			log.Printf("Error fetching property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var properties []models.PropertyDetail
		if err := cursor.All(r.Context(), &properties); err != nil {
			log.Printf("Error decoding property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if len(properties) == 0 {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		respondJSON(w, http.StatusOK, properties[0])
	}
}

func UpdateProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["propertyId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var body struct {
			Name        string `json:"name"`
			Address     string `json:"address"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding property update: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Address == "" || body.Description == "" {
			respondError(w, http.StatusBadRequest, "All fields are required")
			return
		}

		update := bson.M{"$set": bson.M{
			"name":        body.Name,
			"address":     body.Address,
			"description": body.Description,
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var property models.Property
		err = config.PropertyCollection.FindOneAndUpdate(r.Context(), bson.M{"_id": propertyID}, update, opts).Decode(&property)
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Printf("Error updating property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		respondJSON(w, http.StatusOK, property)
	}
}

// DeleteProperty removes the property and pulls its id from every landlord
// properties list that still contains it.
func DeleteProperty(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["propertyId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var property models.Property
		err = config.PropertyCollection.FindOneAndDelete(r.Context(), bson.M{"_id": propertyID}).Decode(&property)
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}
		if err != nil {
			log.Printf("Error deleting property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.LandlordCollection.UpdateMany(r.Context(),
			bson.M{"properties": propertyID},
			bson.M{"$pull": bson.M{"properties": propertyID}},
		)
		if err != nil {
			log.Printf("Error removing property %s from landlords: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Property deleted successfully",
		})
	}
}

func GetRoomsOfProperty() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["propertyId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Property ID is required")
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		if len(property.Rooms) == 0 {
			respondError(w, http.StatusNotFound, "No rooms found for this property")
			return
		}

		cursor, err := config.RoomCollection.Find(r.Context(), bson.M{"_id": bson.M{"$in": property.Rooms}})
		if err != nil {
			log.Printf("Error fetching rooms of property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var rooms []models.Room
		if err := cursor.All(r.Context(), &rooms); err != nil {
			log.Printf("Error decoding rooms of property %s: %v", propertyID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"rooms": rooms,
		})
	}
}
