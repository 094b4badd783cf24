/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/nakachan-ing/taskboard/cmd"

func main() {
	cmd.Execute()
}
