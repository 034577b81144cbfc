package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nyumbani/rental-manager/backend/config"
	"github.com/nyumbani/rental-manager/backend/models"
)

func CreateRoom(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name         string  `json:"name"`
			Type         string  `json:"type"`
			RentingPrice float64 `json:"rentingPrice"`
			Property     string  `json:"property"`
			Landlord     string  `json:"landlord"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding room data: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.Name == "" || body.Type == "" || body.RentingPrice <= 0 || body.Property == "" || body.Landlord == "" {
			respondError(w, http.StatusBadRequest, "All fields are required: information missing to create a room")
			return
		}

		if !models.ValidRoomType(body.Type) {
			respondError(w, http.StatusBadRequest, "Invalid room type")
			return
		}

		propertyID, err := primitive.ObjectIDFromHex(body.Property)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid property ID")
			return
		}
		landlordID, err := primitive.ObjectIDFromHex(body.Landlord)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid landlord ID")
			return
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
			respondError(w, http.StatusNotFound, "Property not found")
			return
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": landlordID}).Decode(&landlord); err != nil {
			respondError(w, http.StatusNotFound, "Landlord not found")
			return
		}

		room := models.Room{
			Name:         body.Name,
			Type:         body.Type,
			RentingPrice: body.RentingPrice,
			Pictures:     []string{},
			Property:     property.ID,
			Landlord:     landlord.ID,
			Tenant:       nil,
			Status:       models.RoomStatusAvailable,
		}

		res, err := config.RoomCollection.InsertOne(r.Context(), room)
		if err != nil {
			log.Printf("Error creating room: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		room.ID = res.InsertedID.(primitive.ObjectID)

		_, err = config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": property.ID},
			bson.M{"$push": bson.M{"rooms": room.ID}},
		)
		if err != nil {
			log.Printf("Error adding room %s to property %s: %v", room.ID.Hex(), property.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		respondJSON(w, http.StatusCreated, room)
	}
}

// UpdateRoomAvailability flips a room between available and rented. The
// tenant is located by reverse lookup on roomRented; without one the
// operation has nothing to link or unlink and fails.
func UpdateRoomAvailability(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["roomId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var body struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding availability update: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if !models.ValidRoomStatus(body.Status) {
			respondError(w, http.StatusBadRequest, "Status must be 'available' or 'rented'")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		var tenant models.Tenant
		if err := config.TenantCollection.FindOne(r.Context(), bson.M{"roomRented": room.ID}).Decode(&tenant); err != nil {
			respondError(w, http.StatusNotFound, "No tenant associated with this room")
			return
		}

		var roomUpdate, tenantUpdate bson.M
		if body.Status == models.RoomStatusAvailable {
			roomUpdate = bson.M{"$set": bson.M{"status": models.RoomStatusAvailable, "tenant": nil}}
			tenantUpdate = bson.M{"$set": bson.M{"roomRented": nil}}
			room.Status = models.RoomStatusAvailable
			room.Tenant = nil
		} else {
			roomUpdate = bson.M{"$set": bson.M{"status": models.RoomStatusRented, "tenant": tenant.ID}}
			tenantUpdate = bson.M{"$set": bson.M{"roomRented": room.ID}}
			room.Status = models.RoomStatusRented
			room.Tenant = &tenant.ID
		}

		if _, err := config.RoomCollection.UpdateOne(r.Context(), bson.M{"_id": room.ID}, roomUpdate); err != nil {
			log.Printf("Error updating availability of room %s: %v", room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if _, err := config.TenantCollection.UpdateOne(r.Context(), bson.M{"_id": tenant.ID}, tenantUpdate); err != nil {
			log.Printf("Error updating tenant %s for room %s: %v", tenant.ID.Hex(), room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Room availability updated successfully",
			"room":    room,
		})
	}
}

func UpdateRoomRentingPrice(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["roomId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var body struct {
			RentingPrice float64 `json:"rentingPrice"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding renting price update: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if body.RentingPrice <= 0 {
			respondError(w, http.StatusBadRequest, "Renting price must be a positive number")
			return
		}

		res, err := config.RoomCollection.UpdateOne(r.Context(),
			bson.M{"_id": roomID},
			bson.M{"$set": bson.M{"rentingPrice": body.RentingPrice}},
		)
		if err != nil {
			log.Printf("Error updating renting price of room %s: %v", roomID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message":      "Renting price updated successfully",
			"rentingPrice": body.RentingPrice,
		})
	}
}

// GetAllRooms lists rooms, optionally filtered to one property via the
// propertyId query parameter.
func GetAllRooms(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cacheKey := listCacheKey(roomCachePrefix, r.URL.Query())
		if cached, ok := cacheGet(r.Context(), redisClient, cacheKey); ok {
			log.Printf("Cache hit for key: %s", cacheKey)
			w.Header().Set("Content-Type", "application/json")
			w.Write(cached)
			return
		}

		filter := bson.M{}
		if propertyParam := r.URL.Query().Get("propertyId"); propertyParam != "" {
			propertyID, err := primitive.ObjectIDFromHex(propertyParam)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid property ID")
				return
			}

			var property models.Property
			if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": propertyID}).Decode(&property); err != nil {
				respondError(w, http.StatusNotFound, "Property not found")
				return
			}
			filter["property"] = propertyID
		}

		cursor, err := config.RoomCollection.Find(r.Context(), filter)
		if err != nil {
			log.Printf("Error fetching rooms: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		defer cursor.Close(r.Context())

		rooms := []models.Room{}
		if err := cursor.All(r.Context(), &rooms); err != nil {
			log.Printf("Error decoding rooms: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		resultBytes, err := json.Marshal(rooms)
		if err != nil {
			log.Printf("Failed to serialize rooms: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		cacheSet(r.Context(), redisClient, cacheKey, resultBytes)

		w.Header().Set("Content-Type", "application/json")
		w.Write(resultBytes)
	}
}

// GetRoomByID returns a room with its property, landlord and tenant
// references resolved to full documents.
func GetRoomByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["roomId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		detail := models.RoomDetail{
			ID:           room.ID,
			Name:         room.Name,
			Type:         room.Type,
			RentingPrice: room.RentingPrice,
			Pictures:     room.Pictures,
			Status:       room.Status,
		}

		var property models.Property
		if err := config.PropertyCollection.FindOne(r.Context(), bson.M{"_id": room.Property}).Decode(&property); err == nil {
			detail.Property = &property
		} else {
			log.Printf("Property %s of room %s not found: %v", room.Property.Hex(), room.ID.Hex(), err)
		}

		var landlord models.Landlord
		if err := config.LandlordCollection.FindOne(r.Context(), bson.M{"_id": room.Landlord}).Decode(&landlord); err == nil {
			landlord.Password = ""
			detail.Landlord = &landlord
		} else {
			log.Printf("Landlord %s of room %s not found: %v", room.Landlord.Hex(), room.ID.Hex(), err)
		}

		if room.Tenant != nil {
			var tenant models.Tenant
			if err := config.TenantCollection.FindOne(r.Context(), bson.M{"_id": *room.Tenant}).Decode(&tenant); err == nil {
				tenant.Password = ""
				detail.Tenant = &tenant
			} else {
				log.Printf("Tenant %s of room %s not found: %v", room.Tenant.Hex(), room.ID.Hex(), err)
			}
		}

		respondJSON(w, http.StatusOK, detail)
	}
}

func DeleteRoom(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["roomId"]
		if idParam == "" {
			respondError(w, http.StatusBadRequest, "Room ID is required")
			return
		}

		roomID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		if room.Status == models.RoomStatusRented {
			respondError(w, http.StatusBadRequest, "Cannot delete a rented room")
			return
		}

		if _, err := config.RoomCollection.DeleteOne(r.Context(), bson.M{"_id": room.ID}); err != nil {
			log.Printf("Error deleting room %s: %v", room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.PropertyCollection.UpdateOne(r.Context(),
			bson.M{"_id": room.Property},
			bson.M{"$pull": bson.M{"rooms": room.ID}},
		)
		if err != nil {
			log.Printf("Error removing room %s from property %s: %v", room.ID.Hex(), room.Property.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Room deleted successfully",
		})
	}
}

// RentRoom rents an available room to the tenant identified by phone number
// and sets the cross-references on both documents.
func RentRoom(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := mux.Vars(r)["roomId"]

		var body struct {
			TenantPhone string `json:"tenantPhone"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			log.Printf("Error decoding rent payload: %v", err)
			respondError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}

		if idParam == "" || body.TenantPhone == "" {
			respondError(w, http.StatusBadRequest, "Room ID and tenant phone number are required")
			return
		}

		roomID, err := primitive.ObjectIDFromHex(idParam)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		if room.Status == models.RoomStatusRented {
			respondError(w, http.StatusBadRequest, "Room is already rented")
			return
		}

		var tenant models.Tenant
		if err := config.TenantCollection.FindOne(r.Context(), bson.M{"phoneNumber": body.TenantPhone}).Decode(&tenant); err != nil {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		if tenant.RoomRented != nil {
			respondError(w, http.StatusBadRequest, "Tenant has already rented a room")
			return
		}

		_, err = config.RoomCollection.UpdateOne(r.Context(),
			bson.M{"_id": room.ID},
			bson.M{"$set": bson.M{"status": models.RoomStatusRented, "tenant": tenant.ID}},
		)
		if err != nil {
			log.Printf("Error renting room %s: %v", room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.TenantCollection.UpdateOne(r.Context(),
			bson.M{"_id": tenant.ID},
			bson.M{"$set": bson.M{"roomRented": room.ID, "propertyRented": room.Property}},
		)
		if err != nil {
			log.Printf("Error linking tenant %s to room %s: %v", tenant.ID.Hex(), room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		room.Status = models.RoomStatusRented
		room.Tenant = &tenant.ID

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Room rented successfully",
			"room":    room,
		})
	}
}

// MakeRoomAvailable vacates a rented room, clearing the cross-references on
// both the room and its tenant.
func MakeRoomAvailable(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["roomId"])
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid room ID")
			return
		}

		var room models.Room
		if err := config.RoomCollection.FindOne(r.Context(), bson.M{"_id": roomID}).Decode(&room); err != nil {
			respondError(w, http.StatusNotFound, "Room not found")
			return
		}

		if room.Status == models.RoomStatusAvailable {
			respondError(w, http.StatusBadRequest, "Room is already available")
			return
		}

		if room.Tenant == nil {
			respondError(w, http.StatusBadRequest, "Room has no tenant associated")
			return
		}

		var tenant models.Tenant
		if err := config.TenantCollection.FindOne(r.Context(), bson.M{"_id": *room.Tenant}).Decode(&tenant); err != nil {
			respondError(w, http.StatusNotFound, "Tenant not found")
			return
		}

		_, err = config.TenantCollection.UpdateOne(r.Context(),
			bson.M{"_id": tenant.ID},
			bson.M{"$set": bson.M{"roomRented": nil, "propertyRented": nil}},
		)
		if err != nil {
			log.Printf("Error unlinking tenant %s from room %s: %v", tenant.ID.Hex(), room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		_, err = config.RoomCollection.UpdateOne(r.Context(),
			bson.M{"_id": room.ID},
			bson.M{"$set": bson.M{"status": models.RoomStatusAvailable, "tenant": nil}},
		)
		if err != nil {
			log.Printf("Error making room %s available: %v", room.ID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		go invalidateListCaches(redisClient, roomCachePrefix, propertyCachePrefix)

		room.Status = models.RoomStatusAvailable
		room.Tenant = nil

		respondJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Room made available successfully",
			"room":    room,
		})
	}
}
