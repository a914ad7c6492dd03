package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"spectroscan/utils"
)

func main() {
	_ = utils.CreateFolder("tmp")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	_ = godotenv.Load()
	slog.SetDefault(utils.Logger())

	switch os.Args[1] {
	case "analyze":
		if len(os.Args) < 3 {
			fmt.Println("usage: spectroscan analyze <path_to_spectrum_file>")
			os.Exit(1)
		}
		analyze(os.Args[2])

	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		protocol := serveCmd.String("proto", "http", "protocol to use (http or https)")
		port := serveCmd.String("p", "5000", "port to use")
		serveCmd.Parse(os.Args[2:])
		serve(*protocol, *port)

	case "erase":
		erase()

	case "stats":
		stats()

	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("usage: spectroscan <command>")
	fmt.Println()
	fmt.Println("commands:")
	fmt.Println("  analyze <spectrum_file>         detect peaks and identify functional groups")
	fmt.Println("  serve [-proto http] [-p 5000]   start the web server")
	fmt.Println("  stats                           show reference table and history statistics")
	fmt.Println("  erase                           clear stored analysis history")
}
