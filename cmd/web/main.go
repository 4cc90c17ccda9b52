package main

import "fixrx_backend/internal/app"

func main() {
	app.Run()
}
