package routes

import (
	"medibook/handlers"
	"medibook/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking flow.
// Every endpoint requires an authenticated patient.
func RegisterBookingRoutes(r *gin.Engine, bh *handlers.BookingHandler) {
	booking := r.Group("/api/booking")
	booking.Use(middleware.JWTAuthMiddleware(), middleware.RequirePatient())
	{
		booking.POST("/session", bh.StartSession)
		booking.PUT("/session/:sessionID/date", bh.SelectDate)
		booking.PUT("/session/:sessionID/slot", bh.SelectSlot)
		booking.POST("/session/:sessionID/submit", bh.Submit)
		booking.POST("/session/:sessionID/payment", bh.InitiatePayment)
		booking.DELETE("/session/:sessionID", bh.CancelSession)
	}
}
