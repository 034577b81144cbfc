package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/nyumbani/rental-manager/backend/config"
	"github.com/nyumbani/rental-manager/backend/models"
)

func availableRoomDoc(roomID, propertyID, landlordID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: roomID},
		{Key: "name", Value: "A1"},
		{Key: "type", Value: "single"},
		{Key: "rentingPrice", Value: 500.0},
		{Key: "pictures", Value: bson.A{}},
		{Key: "property", Value: propertyID},
		{Key: "landlord", Value: landlordID},
		{Key: "tenant", Value: nil},
		{Key: "status", Value: "available"},
	}
}

func rentedRoomDoc(roomID, propertyID, landlordID, tenantID primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: roomID},
		{Key: "name", Value: "A1"},
		{Key: "type", Value: "single"},
		{Key: "rentingPrice", Value: 500.0},
		{Key: "pictures", Value: bson.A{}},
		{Key: "property", Value: propertyID},
		{Key: "landlord", Value: landlordID},
		{Key: "tenant", Value: tenantID},
		{Key: "status", Value: "rented"},
	}
}

func TestCreateRoomValidation(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		body := bytes.NewBufferString(`{"name":"A1","type":"single","rentingPrice":500}`)
		req := httptest.NewRequest(http.MethodPost, "/room/create", body)
		rr := httptest.NewRecorder()

		CreateRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid type", func(t *testing.T) {
		propertyID := primitive.NewObjectID().Hex()
		landlordID := primitive.NewObjectID().Hex()
		payload := map[string]interface{}{
			"name": "A1", "type": "penthouse", "rentingPrice": 500,
			"property": propertyID, "landlord": landlordID,
		}
		raw, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/room/create", bytes.NewReader(raw))
		rr := httptest.NewRecorder()

		CreateRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRentRoom(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	roomID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	landlordID := primitive.NewObjectID()
	tenantID := primitive.NewObjectID()

	mt.Run("success", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		tenantDoc := bson.D{
			{Key: "_id", Value: tenantID},
			{Key: "name", Value: "Tom"},
			{Key: "email", Value: "tom@example.com"},
			{Key: "phoneNumber", Value: "555"},
			{Key: "roomRented", Value: nil},
			{Key: "propertyRented", Value: nil},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, availableRoomDoc(roomID, propertyID, landlordID)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, tenantDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		body := bytes.NewBufferString(`{"tenantPhone":"555"}`)
		req := httptest.NewRequest(http.MethodPost, "/room/rent/"+roomID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		RentRoom(nil)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Room models.Room `json:"room"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.RoomStatusRented, resp.Room.Status)
		require.NotNil(t, resp.Room.Tenant)
		assert.Equal(t, tenantID, *resp.Room.Tenant)
	})

	mt.Run("already rented", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, rentedRoomDoc(roomID, propertyID, landlordID, tenantID)),
		)

		body := bytes.NewBufferString(`{"tenantPhone":"555"}`)
		req := httptest.NewRequest(http.MethodPost, "/room/rent/"+roomID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		RentRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	mt.Run("tenant already renting", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		busyTenant := bson.D{
			{Key: "_id", Value: tenantID},
			{Key: "name", Value: "Tom"},
			{Key: "phoneNumber", Value: "555"},
			{Key: "roomRented", Value: primitive.NewObjectID()},
			{Key: "propertyRented", Value: propertyID},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, availableRoomDoc(roomID, propertyID, landlordID)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, busyTenant),
		)

		body := bytes.NewBufferString(`{"tenantPhone":"555"}`)
		req := httptest.NewRequest(http.MethodPost, "/room/rent/"+roomID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		RentRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	mt.Run("missing phone", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll

		body := bytes.NewBufferString(`{}`)
		req := httptest.NewRequest(http.MethodPost, "/room/rent/"+roomID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		RentRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestMakeRoomAvailable(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	roomID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	landlordID := primitive.NewObjectID()
	tenantID := primitive.NewObjectID()

	mt.Run("success", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		tenantDoc := bson.D{
			{Key: "_id", Value: tenantID},
			{Key: "name", Value: "Tom"},
			{Key: "roomRented", Value: roomID},
			{Key: "propertyRented", Value: propertyID},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, rentedRoomDoc(roomID, propertyID, landlordID, tenantID)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, tenantDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodPut, "/room/make-available/"+roomID.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		MakeRoomAvailable(nil)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Room models.Room `json:"room"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.RoomStatusAvailable, resp.Room.Status)
		assert.Nil(t, resp.Room.Tenant)
	})

	mt.Run("already available", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, availableRoomDoc(roomID, propertyID, landlordID)),
		)

		req := httptest.NewRequest(http.MethodPut, "/room/make-available/"+roomID.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		MakeRoomAvailable(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteRoomRentedConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rented room cannot be deleted", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		roomID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				rentedRoomDoc(roomID, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())),
		)

		req := httptest.NewRequest(http.MethodDelete, "/room/delete/"+roomID.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		DeleteRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdateRoomRentingPriceValidation(t *testing.T) {
	roomID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"rentingPrice":-10}`)
	req := httptest.NewRequest(http.MethodPut, "/room/update-renting-price/"+roomID.Hex(), body)
	req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
	rr := httptest.NewRecorder()

	UpdateRoomRentingPrice(nil)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateRoomAvailabilityInvalidStatus(t *testing.T) {
	roomID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"status":"occupied"}`)
	req := httptest.NewRequest(http.MethodPut, "/room/update-availability/"+roomID.Hex(), body)
	req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
	rr := httptest.NewRecorder()

	UpdateRoomAvailability(nil)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetAllRooms(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unfiltered listing", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		propertyID := primitive.NewObjectID()
		landlordID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			availableRoomDoc(primitive.NewObjectID(), propertyID, landlordID),
			availableRoomDoc(primitive.NewObjectID(), propertyID, landlordID),
		))

		req := httptest.NewRequest(http.MethodGet, "/room", nil)
		rr := httptest.NewRecorder()

		GetAllRooms(nil)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var rooms []models.Room
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rooms))
		assert.Len(t, rooms, 2)
	})
}

func TestUpdateRoomAvailabilityNoTenant(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no tenant points at the room", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		roomID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				availableRoomDoc(roomID, primitive.NewObjectID(), primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		body := bytes.NewBufferString(`{"status":"rented"}`)
		req := httptest.NewRequest(http.MethodPut, "/room/update-availability/"+roomID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		UpdateRoomAvailability(nil)(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestDeleteRoomAvailable(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("available room removed from its property", func(mt *mtest.T) {
		config.RoomCollection = mt.Coll
		config.PropertyCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		roomID := primitive.NewObjectID()
		propertyID := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				availableRoomDoc(roomID, propertyID, primitive.NewObjectID())),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodDelete, "/room/delete/"+roomID.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"roomId": roomID.Hex()})
		rr := httptest.NewRecorder()

		DeleteRoom(nil)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Room deleted successfully", resp["message"])
	})
}
