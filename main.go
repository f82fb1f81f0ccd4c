package main

import "github.com/iot-workbench/iotwb/cmd"

func main() {
	cmd.Execute()
}
