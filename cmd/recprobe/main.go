/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/recprobe/cmd/recprobe/cmd"

func main() {
	cmd.Execute()
}
