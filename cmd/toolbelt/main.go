package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/harrison/toolbelt/internal/cmd"
	"github.com/harrison/toolbelt/internal/config"
	"github.com/harrison/toolbelt/internal/models"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes toolbelt with args and returns the process exit code. A
// script that fails passes its own exit code through.
func run(args []string, stdout, stderr io.Writer) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	conf, err := config.LoadFromDir(wd)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	app := cmd.NewApp(conf, wd, stdout, stderr)
	defer app.Close()

	rootCmd, err := cmd.NewRootCommand(app)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *models.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
