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
	"github.com/nyumbani/rental-manager/backend/utils"
)

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeObjectID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func CreateLandlord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"name"`
			Email       string `json:"email"`
			PhoneNumber string `json:"phoneNumber"`
			Password    string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding landlord data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Email == "" || body.PhoneNumber == "" || body.Password == "" {
			respondError(w, http.StatusBadRequest, "All fields are required to create a landlord")
			return
		}

		exists := config.LandlordCollection.FindOne(r.Context(), bson.M{"email": body.Email})
		if exists.Err() == nil {
			log.Printf("Landlord email already exists: %s", body.Email)
			respondError(w, http.StatusBadRequest, "Landlord with this email already exists")
			return
		}

		hashedPwd, err := utils.HashPassword(body.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		now := time.Now()
		landlord := models.Landlord{
			Name:        body.Name,
			Email:       body.Email,
			PhoneNumber: body.PhoneNumber,
			Password:    hashedPwd,
			Properties:  []primitive.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := config.LandlordCollection.InsertOne(r.Context(), landlord)
		if err != nil {
			log.Printf("Error inserting landlord: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		landlord.ID = res.InsertedID.(primitive.ObjectID)
		landlord.Password = ""

		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"landlord": landlord,
		})
	}
}

// AddPropertyToLandlord appends a property to the landlord's list and marks
// the property as owned by that landlord. The ids come from the body; the
// path parameter is accepted but not consulted.
func AddPropertyToLandlord(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LandlordID string `json:"landlordId"`
			PropertyID string `json:"propertyId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding add-property payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.LandlordID == "" || body.PropertyID == "" {
			respondError(w, http.StatusBadRequest, "Landlord ID and Property ID are required")
			return
		}

		landlordID, err := primitive.ObjectIDFromHex(body.LandlordID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		if containsObjectID(landlord.Properties, property.ID) {
			respondError(w, http.StatusBadRequest, "Property already added to this landlord")
			return
		}

		if !property.LandlordID.IsZero() && property.LandlordID != landlord.ID {
			respondError(w, http.StatusBadRequest, "Property is already assigned to another landlord")
			return
		}

		_, err = config.LandlordCollection.UpdateOne(r.Context(),
			bson.M{"_id": landlord.ID},
			bson.M{"$push": bson.M{"properties": property.ID}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("Error adding property %s to landlord %s: %v", property.ID.Hex(), landlord.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID},
			bson.M{"$set": bson.M{"landlordId": landlord.ID}},
		)
		if err != nil {
			log.Printf("Error setting landlordId on property %s: %v", property.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		landlord.Properties = append(landlord.Properties, property.ID)
		landlord.Password = ""

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Property added to landlord successfully",
			"landlord": landlord,
		})
	}
}

func landlordPopulatePipeline(match bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "properties",
			"localField":   "properties",
			"foreignField": "_id",
			"as":           "properties",
		}}},
		bson.D{{Key: "$project", Value: bson.M{"password": 0}}},
	)
	return pipeline
}

func GetAllLandlords() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.LandlordCollection.Aggregate(r.Context(), landlordPopulatePipeline(nil))
		if err != nil {
			log.Printf("Error retrieving landlords: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var landlords []models.PopulatedLandlord
		if err := cursor.All(r.Context(), &landlords); err != nil {
			log.Printf("Error decoding landlords: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "Landlords retrieved successfully",
			"landlords": landlords,
		})
	}
}

func GetLandlordByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		landlordID, err := primitive.ObjectIDFromHex(mux.Vars(r)["landlordId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		cursor, err := config.LandlordCollection.Aggregate(r.Context(), landlordPopulatePipeline(bson.M{"_id": landlordID}))
		if err != nil {
			log.Printf("Error retrieving landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var landlords []models.PopulatedLandlord
		if err := cursor.All(r.Context(), &landlords); err != nil {
			log.Printf("Error decoding landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if len(landlords) == 0 {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Landlord retrieved successfully",
			"landlord": landlords[0],
		})
	}
}

func UpdateLandlord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		landlordID, err := primitive.ObjectIDFromHex(mux.Vars(r)["landlordId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var body struct {
			Name        string `json:"name"`
			Email       string `json:"email"`
			PhoneNumber string `json:"phoneNumber"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding landlord update: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Email == "" || body.PhoneNumber == "" {
			respondError(w, http.StatusBadRequest, "All fields are required to update a landlord")
			return
		}

		update := bson.M{"$set": bson.M{
			"name":        body.Name,
			"email":       body.Email,
			"phoneNumber": body.PhoneNumber,
			"updatedAt":   time.Now(),
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var landlord models.Landlord
		err = config.LandlordCollection.FindOneAndUpdate(r.Context(), bson.M{"_id": landlordID}, update, opts).Decode(&landlord)
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}
		if err != nil {
			log.Printf("Error updating landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		landlord.Password = ""
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Landlord updated successfully",
			"landlord": landlord,
		})
	}
}

// RemovePropertyFromLandlord detaches a property from its landlord: the id
// is pulled from the landlord's list and the property's landlordId is
// cleared. Ids come from the body, matching the attach flow.
func RemovePropertyFromLandlord(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LandlordID string `json:"landlordId"`
			PropertyID string `json:"propertyId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding remove-property payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.LandlordID == "" || body.PropertyID == "" {
			respondError(w, http.StatusBadRequest, "Landlord ID and Property ID are required")
			return
		}

		landlordID, err := primitive.ObjectIDFromHex(body.LandlordID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(body.PropertyID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		if !containsObjectID(landlord.Properties, property.ID) ||
			property.LandlordID.IsZero() ||
			property.LandlordID != landlord.ID {
			respondError(w, http.StatusNotFound, "Property not found in this landlord's properties")
			return
		}

		_, err = config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID},
			bson.M{"$unset": bson.M{"landlordId": ""}},
		)
		if err != nil {
			log.Printf("Error clearing landlordId on property %s: %v", property.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.LandlordCollection.UpdateOne(r.Context(),
			bson.M{"_id": landlord.ID},
			bson.M{"$pull": bson.M{"properties": property.ID}, "$set": bson.M{"updatedAt": time.Now()}},
		)
		if err != nil {
			log.Printf("Error removing property %s from landlord %s: %v", property.ID.Hex(), landlord.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		landlord.Properties = removeObjectID(landlord.Properties, property.ID)
		landlord.Password = ""

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Property removed from landlord successfully",
			"landlord": landlord,
		})
	}
}

// DeleteLandlord removes the landlord and cascades: landlordId is cleared on
// every property that referenced it, and tenants carrying a matching
// landlordId are deleted. The cascade steps are independent writes; there is
// no rollback if a later step fails.
func DeleteLandlord(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		landlordID, err := primitive.ObjectIDFromHex(mux.Vars(r)["landlordId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var landlord models.Landlord
		err = config.LandlordCollection.FindOneAndDelete(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord)
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}
		if err != nil {
			log.Printf("Error deleting landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.PropertyCollection.UpdateMany(r.Context(),
			bson.M{"landlordId": landlordID},
			bson.M{"$unset": bson.M{"landlordId": ""}},
		)
		if err != nil {
			log.Printf("Error clearing landlordId on properties of landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		// Tenants do not carry a landlordId, so this matches nothing; kept
		// to mirror the cascade contract.
		_, err = config.TenantCollection.DeleteMany(r.Context(), bson.M{"landlordId": landlordID})
		if err != nil {
			log.Printf("Error deleting tenants of landlord %s: %v", landlordID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, propertyCachePrefix)

		landlord.Password = ""
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":  "Landlord deleted successfully",
			"landlord": landlord,
		})
	}
}

func GetPropertiesOfLandlord() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["landlordId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Landlord ID is required")
			return
		}

		landlordID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		properties := []models.Property{}
		if len(landlord.Properties) > 0 {
			cursor, err := config.PropertyCollection.Find(r.Context(), bson.M{"_id": bson.M{"$in": landlord.Properties}})
			if err != nil {
				log.Printf("Error fetching properties of landlord %s: %v", landlordID.Hex(), err)
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			defer cursor.Close(r.Context())

			if err := cursor.All(r.Context(), &properties); err != nil {
				log.Printf("Error decoding properties of landlord %s: %v", landlordID.Hex(), err)
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"properties": properties,
		})
	}
}

func LandlordLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			log.Printf("Error decoding login credentials: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if creds.Email == "" || creds.Password == "" {
			respondError(w, http.StatusBadRequest, "Email and password are required")
			return
		}

		var landlord models.Landlord
		err := config.LandlordCollection.FindOne(r.Context(), bson.M{"email": creds.Email}).Decode(&landlord)
		if err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		if !utils.CheckPasswordHash(creds.Password, landlord.Password) {
			log.Printf("Invalid credentials for landlord: %s", creds.Email)
			respondError(w, http.StatusUnauthorized, "Invalid password")
			return
		}

		token, err := utils.GenerateJWT(landlord.ID.Hex(), landlord.Email)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"token": token,
			"landlord": map[string]string{
				"id":          landlord.ID.Hex(),
				"name":        landlord.Name,
				"email":       landlord.Email,
				"phoneNumber": landlord.PhoneNumber,
			},
		})
	}
}

// GetLandlordProfile returns the account of the bearer-token holder.
func GetLandlordProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			log.Println("User ID missing in context")
			respondError(w, http.StatusUnauthorized, "User ID missing in context")
			return
		}

		landlordID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		landlord.Password = ""
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"landlord": landlord,
		})
	}
}
