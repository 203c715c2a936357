package main

import "quality-admin/cmd"

func main() {
	cmd.Execute()
}
