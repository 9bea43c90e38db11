package main

import "lancehub_backend/internal/app"

func main() {
	app.Run()
}
