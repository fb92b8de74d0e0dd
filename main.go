package main

import "hotel-pms/cmd"

func main() {
	cmd.Execute()
}
