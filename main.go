package main

import "mobilede-scraper/commands"

func main() {
	commands.Execute()
}
