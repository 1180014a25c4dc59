package config

import (
	"flag"
	"os"

	"github.com/mkarulin/filevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-d string  PostgreSQL DSN
//	-r string  blob storage root directory
//	-k string  encryption key file path
//	-f int     maximum upload size, bytes
//	-q int     maximum storage per user, bytes
//	-u string  bootstrap admin username
//	-p string  bootstrap admin password
//
// Args are filtered through flagx.FilterArgs first so flags owned by other
// components do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-k", "-f", "-q", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageRoot, "r", config.StorageRoot, "blob storage root directory")
	fs.StringVar(&config.KeyFilePath, "k", config.KeyFilePath, "encryption key file path")
	fs.Int64Var(&config.MaxFileSize, "f", config.MaxFileSize, "maximum upload size in bytes")
	fs.Int64Var(&config.MaxStoragePerUser, "q", config.MaxStoragePerUser, "maximum storage per user in bytes")
	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "bootstrap admin username")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "bootstrap admin password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
