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

	"github.com/nyumbani/rental-manager/backend/config"
	"github.com/nyumbani/rental-manager/backend/models"
	"github.com/nyumbani/rental-manager/backend/utils"
)

func CreateTenantWithNoRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name        string `json:"name"`
			Email       string `json:"email"`
			PhoneNumber string `json:"phoneNumber"`
			Password    string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding tenant data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Email == "" || body.PhoneNumber == "" || body.Password == "" {
			respondError(w, http.StatusBadRequest, "All fields are required to create a tenant")
			return
		}

		exists := config.TenantCollection.FindOne(r.Context(), bson.M{"email": body.Email})
		if exists.Err() == nil {
			log.Printf("Tenant email already exists: %s", body.Email)
			respondError(w, http.StatusBadRequest, "Tenant already exists")
			return
		}

		hashedPwd, err := utils.HashPassword(body.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		now := time.Now()
		tenant := models.Tenant{
			Name:           body.Name,
			Email:          body.Email,
			PhoneNumber:    body.PhoneNumber,
			Password:       hashedPwd,
			RoomRented:     nil,
			PropertyRented: nil,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := config.TenantCollection.InsertOne(r.Context(), tenant)
		if err != nil {
			log.Printf("Error creating tenant: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		tenant.ID = res.InsertedID.(primitive.ObjectID)
		tenant.Password = ""

		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Tenant created successfully",
			"tenant":  tenant,
		})
	}
}

// CreateTenantWithRoom creates a tenant already bound to a room. The room
// must belong to the given property and be available; the room flips to
// rented but the property's lists are left untouched, matching the rent
// flow.
func CreateTenantWithRoom(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name           string `json:"name"`
			Email          string `json:"email"`
			PhoneNumber    string `json:"phoneNumber"`
			Password       string `json:"password"`
			RoomRented     string `json:"roomRented"`
			PropertyRented string `json:"propertyRented"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding tenant data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Email == "" || body.PhoneNumber == "" || body.Password == "" ||
			body.RoomRented == "" || body.PropertyRented == "" {
			respondError(w, http.StatusBadRequest, "All fields are required to create a tenant")
			return
		}

		roomID, err := primitive.ObjectIDFromHex(body.RoomRented)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}
		propertyID, err := primitive.ObjectIDFromHex(body.PropertyRented)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}

		exists := config.TenantCollection.FindOne(r.Context(), bson.M{"email": body.Email})
		if exists.Err() == nil {
			respondError(w, http.StatusBadRequest, "Tenant already exists")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		if room.Property != property.ID {
			respondError(w, http.StatusBadRequest, "Room does not belong to the specified property")
			return
		}

		if room.Status != models.RoomStatusAvailable {
			respondError(w, http.StatusBadRequest, "Room is not available for rent")
			return
		}

		hashedPwd, err := utils.HashPassword(body.Password)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		now := time.Now()
		tenant := models.Tenant{
			Name:           body.Name,
			Email:          body.Email,
			PhoneNumber:    body.PhoneNumber,
			Password:       hashedPwd,
			RoomRented:     &room.ID,
			PropertyRented: &property.ID,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		res, err := config.TenantCollection.InsertOne(r.Context(), tenant)
		if err != nil {
			log.Printf("Error creating tenant: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		tenant.ID = res.InsertedID.(primitive.ObjectID)

		_, err = config.RoomCollection.UpdateOne(r.Context(),
			bson.M{"_id": room.ID},
			bson.M{"$set": bson.M{"status": models.RoomStatusRented, "tenant": tenant.ID}},
		)
		if err != nil {
			log.Printf("Error marking room %s rented for tenant %s: %v", room.ID.Hex(), tenant.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		tenant.Password = ""
		respondJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Tenant created successfully",
			"tenant":  tenant,
		})
	}
}

func tenantPopulatePipeline(match bson.M) mongo.Pipeline {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "rooms",
			"localField":   "roomRented",
			"foreignField": "_id",
			"as":           "roomRented",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$roomRented", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "properties",
			"localField":   "propertyRented",
			"foreignField": "_id",
			"as":           "propertyRented",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$propertyRented", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$project", Value: bson.M{
			"name":                    1,
			"email":                   1,
			"phoneNumber":             1,
			"createdAt":               1,
			"updatedAt":               1,
			"roomRented.name":         1,
			"roomRented.rentingPrice": 1,
			"roomRented.status":       1,
			"propertyRented.name":     1,
			"propertyRented.address":  1,
		}}},
	)
	return pipeline
}

func GetAllTenants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cursor, err := config.TenantCollection.Aggregate(r.Context(), tenantPopulatePipeline(nil))
		if err != nil {
			log.Printf("Error fetching tenants: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		tenants := []models.TenantDetail{}
		if err := cursor.All(r.Context(), &tenants); err != nil {
			log.Printf("Error decoding tenants: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, tenants)
	}
}

func GetTenantByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["tenantId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid tenant ID")
			return
		}

		cursor, err := config.TenantCollection.Aggregate(r.Context(), tenantPopulatePipeline(bson.M{"_id": tenantID}))
		if err != nil {
			log.Printf("Error fetching tenant %s: %v", tenantID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		var tenants []models.TenantDetail
		if err := cursor.All(r.Context(), &tenants); err != nil {
			log.Printf("Error decoding tenant %s: %v", tenantID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if len(tenants) == 0 {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		respondJSON(w, http.StatusOK, tenants[0])
	}
}

// UpdateTenant is a partial update: any field left empty in the payload
// keeps its stored value.
func UpdateTenant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["tenantId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid tenant ID")
			return
		}

		var body struct {
			Name           string `json:"name"`
			Email          string `json:"email"`
			PhoneNumber    string `json:"phoneNumber"`
			Password       string `json:"password"`
			RoomRented     string `json:"roomRented"`
			PropertyRented string `json:"propertyRented"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding tenant update: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		var tenant models.Tenant
		if err := config.TenantCollection.FindOne(r.Context(), bson.M{"_id": tenantID}).Decode(&tenant); err != nil {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if body.Name != "" {
			tenant.Name = body.Name
			set["name"] = body.Name
		}
		if body.Email != "" {
			tenant.Email = body.Email
			set["email"] = body.Email
		}
		if body.PhoneNumber != "" {
			tenant.PhoneNumber = body.PhoneNumber
			set["phoneNumber"] = body.PhoneNumber
		}
		if body.Password != "" {
			hashedPwd, err := utils.HashPassword(body.Password)
			if err != nil {
				log.Printf("Error hashing password: %v", err)
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			set["password"] = hashedPwd
		}
		if body.RoomRented != "" {
			roomID, err := primitive.ObjectIDFromHex(body.RoomRented)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid room ID")
				return
			}
			tenant.RoomRented = &roomID
			set["roomRented"] = roomID
		}
		if body.PropertyRented != "" {
			propertyID, err := primitive.ObjectIDFromHex(body.PropertyRented)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid property ID")
				return
			}
			tenant.PropertyRented = &propertyID
			set["propertyRented"] = propertyID
		}

		_, err = config.TenantCollection.UpdateOne(r.Context(), bson.M{"_id": tenantID}, bson.M{"$set": set})
		if err != nil {
			log.Printf("Error updating tenant %s: %v", tenantID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		tenant.Password = ""
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Tenant updated successfully",
			"tenant":  tenant,
		})
	}
}

// DeleteTenant removes the tenant; a rented room is released back to
// available.
func DeleteTenant(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := primitive.ObjectIDFromHex(mux.Vars(r)["tenantId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid tenant ID")
			return
		}

		var tenant models.Tenant
		err = config.TenantCollection.FindOneAndDelete(r.Context(), bson.M{"_id": tenantID}).Decode(&tenant)
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}
		if err != nil {
			log.Printf("Error deleting tenant %s: %v", tenantID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if tenant.RoomRented != nil {
			_, err = config.RoomCollection.UpdateOne(r.Context(),
				bson.M{"_id": *tenant.RoomRented},
				bson.M{"$set": bson.M{"status": models.RoomStatusAvailable, "tenant": nil}},
			)
			if err != nil {
				log.Printf("Error releasing room %s of deleted tenant %s: %v", tenant.RoomRented.Hex(), tenantID.Hex(), err)
				respondError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Tenant deleted successfully",
		})
	}
}

func TenantLogin() http.HandlerFunc {
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

		var tenant models.Tenant
		err := config.TenantCollection.FindOne(r.Context(), bson.M{"email": creds.Email}).Decode(&tenant)
		if err != nil {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		if !utils.CheckPasswordHash(creds.Password, tenant.Password) {
			log.Printf("Invalid credentials for tenant: %s", creds.Email)
			respondError(w, http.StatusUnauthorized, "Invalid password")
			return
		}

		token, err := utils.GenerateJWT(tenant.ID.Hex(), tenant.Email)
		if err != nil {
			log.Printf("Error generating JWT token: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"token": token,
			"tenant": map[string]string{
				"id":          tenant.ID.Hex(),
				"name":        tenant.Name,
				"email":       tenant.Email,
				"phoneNumber": tenant.PhoneNumber,
			},
		})
	}
}

// GetTenantProfile returns the account of the bearer-token holder.
func GetTenantProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(UserIDKey).(string)
		if !ok {
			log.Println("User ID missing in context")
			respondError(w, http.StatusUnauthorized, "User ID missing in context")
			return
		}

		tenantID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid tenant ID")
			return
		}

		var tenant models.Tenant
		if err := config.TenantCollection.FindOne(r.Context(), bson.M{"_id": tenantID}).Decode(&tenant); err != nil {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		tenant.Password = ""
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"tenant": tenant,
		})
	}
}
