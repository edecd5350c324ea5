package main

import "ecowork_backend/internal/app"

func main() {
	app.Run()
}
