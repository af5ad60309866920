package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(usageHandler *UsageHandler, generateHandler *GenerateHandler, allowedOrigin string) *mux.Router {
	r := mux.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware(allowedOrigin))

	r.HandleFunc("/api/v1/usage/check", usageHandler.CheckUsage).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/usage/increment", usageHandler.IncrementUsage).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/usage", usageHandler.GetUsage).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/v1/tokens/purchase", usageHandler.PurchaseTokens).Methods("POST", "OPTIONS")

	r.HandleFunc("/api/v1/generate/{type}", generateHandler.Generate).Methods("POST", "OPTIONS")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
