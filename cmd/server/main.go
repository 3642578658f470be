package main

import "insights/internal/app/server"

func main() {
	server.Run()
}
