// Command freelancehub serves the Freelance Hub API and carries its
// operational subcommands.
//
// @title                      Freelance Hub API
// @version                    1.0
// @description                Clients, projects and revenue for a single freelancer dashboard.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the access token.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
