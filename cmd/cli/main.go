package main

import (
	"fmt"
	"os"

	"github.com/toolhub/toolhub/cmd/cli/auth"
	"github.com/toolhub/toolhub/cmd/cli/root"
	"github.com/toolhub/toolhub/cmd/cli/tools"
	"github.com/toolhub/toolhub/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	tools.InitTools(rootCmd)
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
