package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-shoplist/internal/handler"
	"go-shoplist/internal/middleware"
	"go-shoplist/internal/model"
	"go-shoplist/internal/repository"
	"go-shoplist/internal/service"
	"go-shoplist/internal/storage"
	"go-shoplist/internal/ws"
	"go-shoplist/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{})

	// 3. Setup blob storage for product images
	storageRoot := os.Getenv("STORAGE_ROOT")
	if storageRoot == "" {
		storageRoot = "./storage-data"
	}
	publicBase := os.Getenv("PUBLIC_BASE_URL")
	if publicBase == "" {
		publicBase = "http://localhost:3000"
	}
	store, err := storage.NewDiskStore(storageRoot, publicBase+"/storage/files")
	if err != nil {
		log.Fatal("Failed to initialize storage: ", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	authService := service.NewAuthService(userRepo)
	productService := service.NewProductService(productRepo, wsHub)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	uploadHandler := handler.NewUploadHandler(store)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Shoplist API v1.0",
		BodyLimit: storage.MaxUploadSize + 1<<20, // uploads plus multipart overhead
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Public image bucket
	app.Static("/storage/files", store.Root())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.SignUp)
	auth.Post("/signin", authHandler.SignIn)
	auth.Get("/session", authHandler.GetSession)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/signout", authHandler.SignOut)

	// Data endpoint: RPC-over-POST, matching the client wire contract
	products := protected.Group("/products")
	products.Post("/list", productHandler.List)
	products.Post("/create", productHandler.Create)
	products.Post("/edit", productHandler.Edit)
	products.Post("/get", productHandler.Get)
	products.Post("/toggle-cart", productHandler.ToggleCart)

	protected.Get("/cart/summary", productHandler.Summary)

	// Object storage
	protected.Post("/storage/upload", uploadHandler.Upload)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
