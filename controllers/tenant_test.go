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

func TestCreateTenantWithNoRoomValidation(t *testing.T) {
	body := bytes.NewBufferString(`{"name":"Tom","email":"tom@example.com","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/tenant/create-with-no-room", body)
	rr := httptest.NewRecorder()

	CreateTenantWithNoRoom()(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateTenantWithRoomValidationChecksEveryField(t *testing.T) {
	// propertyRented alone missing must still fail.
	payload := map[string]string{
		"name":        "Tom",
		"email":       "tom@example.com",
		"phoneNumber": "555",
		"password":    "s3cret",
		"roomRented":  primitive.NewObjectID().Hex(),
	}
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/tenant/create", bytes.NewReader(raw))
	rr := httptest.NewRecorder()

	CreateTenantWithRoom(nil)(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateTenantWithRoom(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	roomID := primitive.NewObjectID()
	propertyID := primitive.NewObjectID()
	landlordID := primitive.NewObjectID()

	newTenantBody := func() *bytes.Reader {
		payload := map[string]string{
			"name":           "Tom",
			"email":          "tom@example.com",
			"phoneNumber":    "555",
			"password":       "s3cret",
			"roomRented":     roomID.Hex(),
			"propertyRented": propertyID.Hex(),
		}
		raw, _ := json.Marshal(payload)
		return bytes.NewReader(raw)
	}

	mt.Run("success", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		config.RoomCollection = mt.Coll
		config.PropertyCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		propertyDoc := bson.D{
			{Key: "_id", Value: propertyID},
			{Key: "name", Value: "Sunrise Court"},
			{Key: "landlordId", Value: landlordID},
			{Key: "rooms", Value: bson.A{roomID}},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, availableRoomDoc(roomID, propertyID, landlordID)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, propertyDoc),
			mtest.CreateSuccessResponse(),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodPost, "/tenant/create", newTenantBody())
		rr := httptest.NewRecorder()

		CreateTenantWithRoom(nil)(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp struct {
			Tenant models.Tenant `json:"tenant"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Tenant.RoomRented)
		require.NotNil(t, resp.Tenant.PropertyRented)
		assert.Equal(t, roomID, *resp.Tenant.RoomRented)
		assert.Equal(t, propertyID, *resp.Tenant.PropertyRented)
		assert.Empty(t, resp.Tenant.Password)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		existing := bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "email", Value: "tom@example.com"},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, existing))

		req := httptest.NewRequest(http.MethodPost, "/tenant/create", newTenantBody())
		rr := httptest.NewRecorder()

		CreateTenantWithRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	mt.Run("room in another property", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		config.RoomCollection = mt.Coll
		config.PropertyCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		otherProperty := bson.D{
			{Key: "_id", Value: propertyID},
			{Key: "name", Value: "Sunrise Court"},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				availableRoomDoc(roomID, primitive.NewObjectID(), landlordID)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, otherProperty),
		)

		req := httptest.NewRequest(http.MethodPost, "/tenant/create", newTenantBody())
		rr := httptest.NewRecorder()

		CreateTenantWithRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	mt.Run("room not available", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		config.RoomCollection = mt.Coll
		config.PropertyCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		propertyDoc := bson.D{
			{Key: "_id", Value: propertyID},
			{Key: "name", Value: "Sunrise Court"},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				rentedRoomDoc(roomID, propertyID, landlordID, primitive.NewObjectID())),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, propertyDoc),
		)

		req := httptest.NewRequest(http.MethodPost, "/tenant/create", newTenantBody())
		rr := httptest.NewRecorder()

		CreateTenantWithRoom(nil)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteTenantFreesRoom(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rented room released", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		config.RoomCollection = mt.Coll

		tenantID := primitive.NewObjectID()
		roomID := primitive.NewObjectID()
		tenantDoc := bson.D{
			{Key: "_id", Value: tenantID},
			{Key: "name", Value: "Tom"},
			{Key: "email", Value: "tom@example.com"},
			{Key: "roomRented", Value: roomID},
			{Key: "propertyRented", Value: primitive.NewObjectID()},
		}

		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: tenantDoc}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		req := httptest.NewRequest(http.MethodDelete, "/tenant/delete/"+tenantID.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"tenantId": tenantID.Hex()})
		rr := httptest.NewRecorder()

		DeleteTenant(nil)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestUpdateTenantPartialUpdate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("omitted fields keep stored values", func(mt *mtest.T) {
		config.TenantCollection = mt.Coll
		ns := mt.DB.Name() + "." + mt.Coll.Name()

		tenantID := primitive.NewObjectID()
		tenantDoc := bson.D{
			{Key: "_id", Value: tenantID},
			{Key: "name", Value: "Tom"},
			{Key: "email", Value: "tom@example.com"},
			{Key: "phoneNumber", Value: "555"},
			{Key: "roomRented", Value: nil},
			{Key: "propertyRented", Value: nil},
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, tenantDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		body := bytes.NewBufferString(`{"name":"Thomas"}`)
		req := httptest.NewRequest(http.MethodPut, "/tenant/update/"+tenantID.Hex(), body)
		req = mux.SetURLVars(req, map[string]string{"tenantId": tenantID.Hex()})
		rr := httptest.NewRecorder()

		UpdateTenant()(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Tenant models.Tenant `json:"tenant"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Thomas", resp.Tenant.Name)
		assert.Equal(t, "tom@example.com", resp.Tenant.Email)
		assert.Equal(t, "555", resp.Tenant.PhoneNumber)
	})
}
