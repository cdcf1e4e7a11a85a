package main

import "github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/cli"

func main() {
	cli.Run()
}
