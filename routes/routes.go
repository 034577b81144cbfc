package routes

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nyumbani/rental-manager/backend/controllers"
	"github.com/nyumbani/rental-manager/backend/middleware"
)

func Routes(router *mux.Router, redisClient *redis.Client) {
	router.HandleFunc("/health", controllers.HealthCheck()).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Profile routes require a bearer token; the resource routes stay open.
	landlordProfile := router.PathPrefix("/landlord/me").Subrouter()
	landlordProfile.Use(middleware.AuthMiddleware)
	landlordProfile.HandleFunc("", controllers.GetLandlordProfile()).Methods("GET")

	tenantProfile := router.PathPrefix("/tenant/me").Subrouter()
	tenantProfile.Use(middleware.AuthMiddleware)
	tenantProfile.HandleFunc("", controllers.GetTenantProfile()).Methods("GET")

	// Landlord routes
	landlord := router.PathPrefix("/landlord").Subrouter()
	landlord.HandleFunc("/create", controllers.CreateLandlord()).Methods("POST")
	landlord.HandleFunc("/add-property/{landlordId}", controllers.AddPropertyToLandlord(redisClient)).Methods("POST")
	landlord.HandleFunc("/get-one/{landlordId}", controllers.GetLandlordByID()).Methods("GET")
	landlord.HandleFunc("", controllers.GetAllLandlords()).Methods("GET")
	landlord.HandleFunc("/update/{landlordId}", controllers.UpdateLandlord()).Methods("PUT")
	landlord.HandleFunc("/delete/{landlordId}", controllers.DeleteLandlord(redisClient)).Methods("DELETE")
	landlord.HandleFunc("/remove-property/{landlordId}/{propertyId}", controllers.RemovePropertyFromLandlord(redisClient)).Methods("DELETE")
	landlord.HandleFunc("/get-landlord-properties/{landlordId}", controllers.GetPropertiesOfLandlord()).Methods("GET")
	landlord.HandleFunc("/login", controllers.LandlordLogin()).Methods("POST")

	// Property routes
	property := router.PathPrefix("/property").Subrouter()
	property.HandleFunc("/create", controllers.CreateProperty(redisClient)).Methods("POST")
	property.HandleFunc("", controllers.GetAllProperties(redisClient)).Methods("GET")
	property.HandleFunc("/get-one/{propertyId}", controllers.GetPropertyByID()).Methods("GET")
	property.HandleFunc("/update/{propertyId}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	property.HandleFunc("/delete/{propertyId}", controllers.DeleteProperty(redisClient)).Methods("DELETE")
	property.HandleFunc("/{propertyId}/rooms", controllers.GetRoomsOfProperty()).Methods("GET")

	// Room routes
	room := router.PathPrefix("/room").Subrouter()
	room.HandleFunc("/create", controllers.CreateRoom(redisClient)).Methods("POST")
	room.HandleFunc("/update-availability/{roomId}", controllers.UpdateRoomAvailability(redisClient)).Methods("PUT")
	room.HandleFunc("/update-renting-price/{roomId}", controllers.UpdateRoomRentingPrice(redisClient)).Methods("PUT")
	room.HandleFunc("", controllers.GetAllRooms(redisClient)).Methods("GET")
	room.HandleFunc("/get-one/{roomId}", controllers.GetRoomByID()).Methods("GET")
	room.HandleFunc("/delete/{roomId}", controllers.DeleteRoom(redisClient)).Methods("DELETE")
	room.HandleFunc("/rent/{roomId}", controllers.RentRoom(redisClient)).Methods("POST")
	room.HandleFunc("/make-available/{roomId}", controllers.MakeRoomAvailable(redisClient)).Methods("PUT")

	// Tenant routes
	tenant := router.PathPrefix("/tenant").Subrouter()
	tenant.HandleFunc("/create-with-no-room", controllers.CreateTenantWithNoRoom()).Methods("POST")
	tenant.HandleFunc("/create", controllers.CreateTenantWithRoom(redisClient)).Methods("POST")
	tenant.HandleFunc("", controllers.GetAllTenants()).Methods("GET")
	tenant.HandleFunc("/get-one/{tenantId}", controllers.GetTenantByID()).Methods("GET")
	tenant.HandleFunc("/update/{tenantId}", controllers.UpdateTenant()).Methods("PUT")
	tenant.HandleFunc("/delete/{tenantId}", controllers.DeleteTenant(redisClient)).Methods("DELETE")
	tenant.HandleFunc("/login", controllers.TenantLogin()).Methods("POST")
}
