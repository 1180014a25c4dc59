package config

import (
	"encoding/json"
	"os"

	"github.com/mkarulin/filevault/internal/flagx"
)

// JsonConfig mirrors Config for JSON unmarshalling. Only fields present in
// the file override the running configuration.
type JsonConfig struct {
	DatabaseDSN       *string  `json:"database_dsn"`
	StorageRoot       *string  `json:"storage_root"`
	KeyFilePath       *string  `json:"key_file_path"`
	MaxFileSize       *int64   `json:"max_file_size"`
	MaxStoragePerUser *int64   `json:"max_storage_per_user"`
	AllowedTypes      []string `json:"allowed_types"`
	AdminUsername     *string  `json:"admin_username"`
	AdminPassword     *string  `json:"admin_password"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags, if any. A file that cannot be read or parsed is a
// startup failure, so the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.StorageRoot != nil {
		config.StorageRoot = *c.StorageRoot
	}
	if c.KeyFilePath != nil {
		config.KeyFilePath = *c.KeyFilePath
	}
	if c.MaxFileSize != nil {
		config.MaxFileSize = *c.MaxFileSize
	}
	if c.MaxStoragePerUser != nil {
		config.MaxStoragePerUser = *c.MaxStoragePerUser
	}
	if c.AllowedTypes != nil {
		config.AllowedTypes = c.AllowedTypes
	}
	if c.AdminUsername != nil {
		config.AdminUsername = *c.AdminUsername
	}
	if c.AdminPassword != nil {
		config.AdminPassword = *c.AdminPassword
	}
}
