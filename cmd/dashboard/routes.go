package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	deldashboard "gp-dashboard/http-server/dashboard/delete"
	getdashboard "gp-dashboard/http-server/dashboard/get"
	savedashboard "gp-dashboard/http-server/dashboard/save"
	updashboard "gp-dashboard/http-server/dashboard/update"
	"gp-dashboard/http-server/planning"
	getproducts "gp-dashboard/http-server/products/get"
	saveproducts "gp-dashboard/http-server/products/save"
	"gp-dashboard/internal/config"
	"gp-dashboard/internal/middleware/auth"
	operatorctx "gp-dashboard/internal/middleware/operator"
	"gp-dashboard/internal/service/planner"
	"gp-dashboard/internal/service/resolver"
	"gp-dashboard/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, store *mysql.Storage, planSvc *planner.Planner, orderResolver *resolver.Resolver) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Operator", "X-Operator-Level"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(operatorctx.Extract)

	// Order dashboard
	router.Get("/api/dashboard/orders", getdashboard.GetOrderDashboard(log, store))
	router.Post("/api/dashboard/orders", savedashboard.AddProduct(log, store, orderResolver))
	router.Put("/api/dashboard/orders/{pk}", updashboard.UpdateOrderField(log, store))
	router.Delete("/api/dashboard/orders", deldashboard.DeleteOrderRows(log, store))

	// Material dashboards (raw / sauce / vege)
	router.Get("/api/dashboard/materials", getdashboard.GetMaterialDashboards(log, store))
	router.Put("/api/dashboard/materials/{category}/{pk}", updashboard.UpdateMaterialFields(log, store))

	// Planning trigger
	router.Post("/api/planning/run", planning.Run(log, planSvc))

	// Tracked product list management
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/products", getproducts.GetDefaultProducts(log, store))
	adminRouter.Post("/products", saveproducts.AddDefaultProduct(log, store))
	adminRouter.Post("/products/remove", saveproducts.RemoveDefaultProduct(log, store))

	router.Mount("/api/admin", adminRouter)

	return router
}
