package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/karigar-app/karigar-backend/internal/config"
	"github.com/karigar-app/karigar-backend/internal/db"
	"github.com/karigar-app/karigar-backend/internal/handlers"
	"github.com/karigar-app/karigar-backend/internal/middleware"
	"github.com/karigar-app/karigar-backend/internal/models"
	"github.com/karigar-app/karigar-backend/internal/realtime"
	"github.com/karigar-app/karigar-backend/internal/services/booking"
	"github.com/karigar-app/karigar-backend/internal/services/directory"
	"github.com/karigar-app/karigar-backend/internal/services/rating"
	"github.com/karigar-app/karigar-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Println("Redis unreachable, realtime notifications degraded:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.Rating{},
		&models.Skill{},
	); err != nil {
		log.Fatal(err)
	}

	users := store.NewGormUsers(gdb)
	bookings := store.NewGormBookings(gdb)
	ratings := store.NewGormRatings(gdb)

	directorySvc := directory.NewService(users)
	bookingSvc := booking.NewService(bookings)
	ratingSvc := rating.NewService(ratings, bookings, users)

	authH := &handlers.AuthHandler{
		DB:         gdb,
		JWTSecret:  cfg.JWTSecret,
		Expires:    cfg.JWTExpiresMin,
		CNICSecret: cfg.CNICSecret,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	workerH := handlers.NewWorkerHandler(directorySvc, ratingSvc)
	bookingH := handlers.NewBookingHandler(bookingSvc, users, hub, rdb)
	ratingH := handlers.NewRatingHandler(ratingSvc)
	adminH := handlers.NewAdminHandler(gdb, cfg.CNICSecret)
	skillH := handlers.NewSkillHandler(gdb)
	profileH := handlers.NewProfileHandler(gdb, cfg.CNICSecret, cfg.UploadDir)
	eventsH := handlers.NewEventsHandler(hub)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/status", authH.Status)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/skills", skillH.List)
	api.Get("/skills/categories", skillH.Categories)
	api.Get("/workers", workerH.List)
	api.Get("/workers/:id", workerH.Get)
	api.Get("/workers/:id/ratings", workerH.GetRatings)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/me", authH.Me)
	protected.Patch("/profile", profileH.Update)
	protected.Post("/profile/cnic-photos", profileH.UploadCNICPhotos)
	protected.Post("/profile/picture", profileH.UploadProfilePicture)

	// worker only
	protected.Patch("/worker/availability",
		middleware.RequireRoles("worker"),
		workerH.SetAvailability,
	)

	// bookings
	protected.Post("/bookings",
		middleware.RequireRoles("employer"),
		bookingH.Create,
	)
	protected.Get("/bookings", bookingH.List)
	protected.Get("/bookings/:id", bookingH.Get)
	protected.Patch("/bookings/:id/status", bookingH.UpdateStatus)
	protected.Post("/bookings/:id/payment",
		middleware.RequireRoles("employer"),
		bookingH.Pay,
	)

	// ratings
	protected.Post("/ratings",
		middleware.RequireRoles("employer"),
		ratingH.Submit,
	)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/users", adminH.ListUsers)
	admin.Patch("/users/:id/status", adminH.SetUserStatus)
	admin.Patch("/users/:id/cnic", adminH.VerifyCNIC)
	admin.Get("/stats", adminH.Stats)
	admin.Post("/skills", skillH.Create)

	// WebSocket endpoint (no JWT middleware, auth via query param)
	app.Get("/ws/events", websocket.New(eventsH.WebSocket))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
