package main

import (
	"context"
	"log"

	_ "currency-exchanger/docs"
	"currency-exchanger/internal/app"
)

// @title           Currency Exchanger API
// @version         1.0
// @description     Кэш курсов, конвертация через опорную валюту и книга балансов одного владельца

// @host      localhost:8080
// @BasePath  /api/v1
func main() {
	app, err := app.NewApp()
	if err != nil {
		log.Fatalf("Ошибка создания приложения: %v", err)
	}

	if err := app.BuildExchangeLayer(context.Background()); err != nil {
		log.Fatalf("Ошибка сборки приложения: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("Ошибка при работе приложения: %v", err)
	}
}
