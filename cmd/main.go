package main

import (
	"log"

	"fx-transactions/internal/app"
)

// @title           FX Transactions API
// @version         1.0
// @description     Records foreign-exchange conversion transactions.

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("failed to create application: %v", err)
	}

	if err := app.BuildTransactionLayer(); err != nil {
		log.Fatalf("failed to build transaction layer: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
