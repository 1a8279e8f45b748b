package main

import (
	"log"

	_ "github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/docs"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/config"
	"github.com/vigreenhussainmoiyedi23-lab/JEERA-sub001/internal/server"
)

// @title           JEERA Task Sync API
// @version         1.0
// @description     Realtime collaborative task boards with project rooms and audit history.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
