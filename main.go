/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/lightbnb/lightbnb/cmd"

func main() {
	cmd.Execute()
}
