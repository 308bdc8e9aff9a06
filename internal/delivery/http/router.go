package http

import (
	"net/http"

	"pharmacy-clinic/internal/delivery/http/handler"
	"pharmacy-clinic/internal/delivery/http/middleware"
	"pharmacy-clinic/internal/domain/entity"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	doctorHandler       *handler.DoctorHandler
	patientHandler      *handler.PatientHandler
	pharmacistHandler   *handler.PharmacistHandler
	prescriptionHandler *handler.PrescriptionHandler
	notificationHandler *handler.NotificationHandler
	medicationHandler   *handler.MedicationHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
	loggingMiddleware   *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	doctorHandler *handler.DoctorHandler,
	patientHandler *handler.PatientHandler,
	pharmacistHandler *handler.PharmacistHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	notificationHandler *handler.NotificationHandler,
	medicationHandler *handler.MedicationHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		authHandler:         authHandler,
		userHandler:         userHandler,
		doctorHandler:       doctorHandler,
		patientHandler:      patientHandler,
		pharmacistHandler:   pharmacistHandler,
		prescriptionHandler: prescriptionHandler,
		notificationHandler: notificationHandler,
		medicationHandler:   medicationHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
		loggingMiddleware:   loggingMiddleware,
	}
}

// Setup registers every route and returns the router wrapped in CORS and request logging.
// The wrapping happens outside mux so that preflight requests and unmatched paths pass through both.
func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public routes
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	api.HandleFunc("/users/register", r.userHandler.Register).Methods(http.MethodPost)

	// Everything below requires a valid access token
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	r.authRoutes(protected)
	r.userRoutes(protected)
	r.profileRoutes(protected)
	r.prescriptionRoutes(protected)
	r.notificationRoutes(protected)
	r.medicationRoutes(protected)

	// Admin routes (admin only)
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}

func (r *Router) authRoutes(s *mux.Router) {
	s.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	s.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	s.HandleFunc("/auth/capabilities", r.authHandler.GetCapabilities).Methods(http.MethodGet)
}

func (r *Router) userRoutes(s *mux.Router) {
	s.Handle("/users/register-special", adminOnly(r.userHandler.RegisterSpecial)).Methods(http.MethodPost)
	s.Handle("/users", adminOnly(r.userHandler.GetAll)).Methods(http.MethodGet)
	// literal segments must be registered before /users/{id}
	s.Handle("/users/directory", adminOnly(r.userHandler.GetDirectory)).Methods(http.MethodGet)
	s.Handle("/users/pending", adminOnly(r.userHandler.GetPending)).Methods(http.MethodGet)
	s.Handle("/users/registered", adminOnly(r.userHandler.GetRegistered)).Methods(http.MethodGet)
	s.HandleFunc("/users/{id}", r.userHandler.GetByID).Methods(http.MethodGet)

	s.HandleFunc("/users/update", r.userHandler.UpdateSelf).Methods(http.MethodPatch)
	s.Handle("/users/update/{id}", adminOnly(r.userHandler.UpdateByID)).Methods(http.MethodPatch)
	s.HandleFunc("/users/delete", r.userHandler.DeleteSelf).Methods(http.MethodDelete)
	s.Handle("/users/delete/{id}", adminOnly(r.userHandler.DeleteByID)).Methods(http.MethodDelete)
}

func (r *Router) profileRoutes(s *mux.Router) {
	staff := middleware.RequireRole(staffRoles...)

	// Doctors
	s.Handle("/doctors/create", onlyRole(middleware.RequireRole(entity.RoleDoctor), r.doctorHandler.CreateSelf)).Methods(http.MethodPost)
	s.Handle("/doctors/create/{idUsuario}", adminOnly(r.doctorHandler.CreateForUser)).Methods(http.MethodPost)
	s.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	s.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	s.Handle("/doctors/update", onlyRole(middleware.RequireRole(entity.RoleDoctor), r.doctorHandler.UpdateSelf)).Methods(http.MethodPatch)
	s.Handle("/doctors/update/{id}", adminOnly(r.doctorHandler.UpdateDoctor)).Methods(http.MethodPatch)
	s.Handle("/doctors/{id}", adminOnly(r.doctorHandler.UnassignDoctor)).Methods(http.MethodDelete)

	// Patients
	s.Handle("/patients/create", onlyRole(middleware.RequirePatient, r.patientHandler.CreateSelf)).Methods(http.MethodPost)
	s.Handle("/patients/create/{idUsuario}", adminOnly(r.patientHandler.CreateForUser)).Methods(http.MethodPost)
	s.Handle("/patients", onlyRole(staff, r.patientHandler.GetAllPatients)).Methods(http.MethodGet)
	s.HandleFunc("/patients/{id}", r.patientHandler.GetPatient).Methods(http.MethodGet)
	s.Handle("/patients/update", onlyRole(middleware.RequirePatient, r.patientHandler.UpdateSelf)).Methods(http.MethodPatch)
	s.Handle("/patients/update/{id}", adminOnly(r.patientHandler.UpdatePatient)).Methods(http.MethodPatch)
	s.Handle("/patients/{id}", adminOnly(r.patientHandler.UnassignPatient)).Methods(http.MethodDelete)

	// Pharmacists
	s.Handle("/pharmacist/create", onlyRole(middleware.RequireRole(entity.RolePharmacist), r.pharmacistHandler.CreateSelf)).Methods(http.MethodPost)
	s.Handle("/pharmacist/create/{idUsuario}", adminOnly(r.pharmacistHandler.CreateForUser)).Methods(http.MethodPost)
	s.Handle("/pharmacist", onlyRole(staff, r.pharmacistHandler.GetAllPharmacists)).Methods(http.MethodGet)
	s.Handle("/pharmacist/{id}", onlyRole(staff, r.pharmacistHandler.GetPharmacist)).Methods(http.MethodGet)
	s.Handle("/pharmacist/{id}", adminOnly(r.pharmacistHandler.UnassignPharmacist)).Methods(http.MethodDelete)
}

func (r *Router) prescriptionRoutes(s *mux.Router) {
	staff := middleware.RequireRole(staffRoles...)

	s.Handle("/prescriptions/create", onlyRole(middleware.RequirePrescriber, r.prescriptionHandler.Create)).Methods(http.MethodPost)
	s.Handle("/prescriptions", onlyRole(staff, r.prescriptionHandler.GetAll)).Methods(http.MethodGet)
	s.Handle("/prescriptions/pending", onlyRole(staff, r.prescriptionHandler.GetPending)).Methods(http.MethodGet)
	// patients are limited to their own records inside the usecase
	s.HandleFunc("/prescriptions/paciente/{id}", r.prescriptionHandler.GetByPatient).Methods(http.MethodGet)
	s.HandleFunc("/prescriptions/{id}", r.prescriptionHandler.GetByID).Methods(http.MethodGet)
	s.Handle("/prescriptions/update/{id}", onlyRole(staff, r.prescriptionHandler.Update)).Methods(http.MethodPatch)
	s.Handle("/prescriptions/{id}/dispense", onlyRole(middleware.RequireDispenser, r.prescriptionHandler.Dispense)).Methods(http.MethodPost)
	s.Handle("/prescriptions/delete/{id}", adminOnly(r.prescriptionHandler.Delete)).Methods(http.MethodDelete)
}

func (r *Router) notificationRoutes(s *mux.Router) {
	s.Handle("/notifications/create", onlyRole(middleware.RequireDispenser, r.notificationHandler.Create)).Methods(http.MethodPost)
	s.Handle("/notifications/me", onlyRole(middleware.RequirePatient, r.notificationHandler.GetMine)).Methods(http.MethodGet)
	s.HandleFunc("/notifications/paciente/{id}", r.notificationHandler.GetByPatient).Methods(http.MethodGet)
	s.HandleFunc("/notifications/{id}", r.notificationHandler.GetByID).Methods(http.MethodGet)
	// patients mark their own notifications as read; the usecase checks ownership
	s.Handle("/notifications/update/{id}", onlyRole(middleware.RequireRole(entity.RolePatient, entity.RoleAdmin), r.notificationHandler.UpdateStatus)).Methods(http.MethodPatch)
	s.Handle("/notifications/delete/{id}", adminOnly(r.notificationHandler.Delete)).Methods(http.MethodDelete)
}

func (r *Router) medicationRoutes(s *mux.Router) {
	s.HandleFunc("/medicines", r.medicationHandler.GetAll).Methods(http.MethodGet)
	s.HandleFunc("/medicines/{id}", r.medicationHandler.GetByID).Methods(http.MethodGet)
	s.Handle("/medicines/create", onlyRole(middleware.RequireDispenser, r.medicationHandler.Create)).Methods(http.MethodPost)
	s.Handle("/medicines/update/{id}", onlyRole(middleware.RequireDispenser, r.medicationHandler.Update)).Methods(http.MethodPatch)
	s.Handle("/medicines/delete/{id}", onlyRole(middleware.RequireDispenser, r.medicationHandler.Delete)).Methods(http.MethodDelete)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

var staffRoles = []string{entity.RoleAdmin, entity.RoleDoctor, entity.RolePharmacist}

func onlyRole(mw func(http.Handler) http.Handler, h http.HandlerFunc) http.Handler {
	return mw(h)
}

func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}
