package main

import "github.com/praxiskit/praxis_backend/cmd"

func main() {
	cmd.Execute()
}
