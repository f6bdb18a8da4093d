package main

import "github.com/upb/llm-model-router/internal/cli"

func main() {
	cli.Execute()
}
