package main

import "empsync/internal/app/server"

func main() {
	server.Run()
}
