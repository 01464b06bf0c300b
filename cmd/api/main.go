package main

import (
	"fmt"
	"os"

	"autoparts/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// .env は無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
