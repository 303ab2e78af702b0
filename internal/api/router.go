// Renterra - Multi-Role Car Rental Marketplace
// Copyright 2026 Renterra Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/renterra/renterra

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/renterra/renterra/internal/auth"
	"github.com/renterra/renterra/internal/authz"
	"github.com/renterra/renterra/internal/middleware"
)

// NewRouter builds the HTTP surface. Role checks live in the casbin
// policy; the router only decides which routes require a token at all.
func NewRouter(h *Handler, authMW *auth.Middleware, enforcer *authz.Enforcer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Compression)
	r.Use(middleware.PrometheusMetrics)

	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public surface.
		r.Group(func(r chi.Router) {
			r.With(authMW.LoginRateLimit).Post("/auth/signup", h.Signup)
			r.With(authMW.LoginRateLimit).Post("/auth/login", h.Login)
			r.Get("/cars", h.SearchCars)
			r.Get("/cars/{id}", h.GetCar)
		})

		// Everything below requires a valid token; the casbin policy
		// decides per-role access from there.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
			r.Use(authMW.Authenticate)
			r.Use(authz.Middleware(enforcer))

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/profile", h.Profile)
			r.Put("/auth/profile", h.UpdateProfile)
			r.Put("/auth/password", h.ChangePassword)

			r.Post("/cars", h.CreateCar)
			r.Put("/cars/{id}", h.UpdateCar)
			r.Delete("/cars/{id}", h.DeleteCar)
			r.Put("/cars/{id}/availability", h.SetCarAvailability)
			r.Get("/owner/cars", h.ListOwnCars)

			r.Post("/cars/{id}/documents", h.AddCarDocument)
			r.Get("/cars/{id}/documents", h.ListCarDocuments)
			r.Delete("/cars/{id}/documents/{docID}", h.DeleteCarDocument)
			r.Post("/cars/{id}/insurance", h.AddCarInsurance)
			r.Get("/cars/{id}/insurance", h.ListCarInsurance)
			r.Delete("/cars/{id}/insurance/{recordID}", h.DeleteCarInsurance)
			r.Post("/cars/{id}/maintenance", h.AddCarMaintenance)
			r.Get("/cars/{id}/maintenance", h.ListCarMaintenance)
			r.Delete("/cars/{id}/maintenance/{recordID}", h.DeleteCarMaintenance)

			r.Post("/bookings", h.CreateBooking)
			r.Get("/bookings", h.ListBookings)
			r.Get("/bookings/{id}", h.GetBooking)
			r.Put("/bookings/{id}/approve", h.ApproveBooking)
			r.Put("/bookings/{id}/reject", h.RejectBooking)
			r.Put("/bookings/{id}/complete", h.CompleteBooking)
			r.Put("/bookings/{id}/cancel", h.CancelBooking)
			r.Post("/bookings/{id}/extension", h.RequestExtension)
			r.Put("/extensions/{id}/approve", h.ApproveExtension)
			r.Put("/extensions/{id}/reject", h.RejectExtension)
			r.Get("/bookings/{id}/payments", h.ListBookingPayments)

			r.Post("/payments/order", h.CreatePaymentOrder)
			r.Post("/payments/verify", h.VerifyPayment)

			r.Post("/emergencies", h.ReportEmergency)
			r.Get("/emergencies", h.ListEmergencies)
			r.Get("/emergencies/{id}", h.GetEmergency)
			r.Put("/emergencies/{id}/location", h.UpdateEmergencyLocation)
			r.Put("/emergencies/{id}/status", h.UpdateEmergencyStatus)

			r.Get("/notifications", h.ListNotifications)
			r.Get("/notifications/unread-count", h.UnreadNotificationCount)
			r.Put("/notifications/read-all", h.MarkAllNotificationsRead)
			r.Put("/notifications/{id}/read", h.MarkNotificationRead)
			r.Delete("/notifications/{id}", h.DeleteNotification)

			r.Get("/admin/users", h.ListUsers)
			r.Put("/admin/users/{id}/active", h.SetUserActive)
			r.Get("/admin/cars/pending", h.ListPendingCars)
			r.Put("/admin/cars/{id}/approve", h.ApproveCar)
			r.Put("/admin/cars/{id}/reject", h.RejectCar)
			r.Get("/admin/reports/bookings", h.BookingReport)
			r.Get("/admin/stats", h.PlatformStats)
			r.Get("/admin/audit", h.AuditLog)

			r.Get("/ws", h.WebSocket)
		})
	})

	return r
}
