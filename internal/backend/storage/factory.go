package storage

import "fmt"

// Config selects and parameterizes a ContentArea implementation.
type Config struct {
	Type          string
	Directory     string
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

func NewContentArea(config Config) (ContentArea, error) {
	switch config.Type {
	case "filesystem":
		return NewFilesystemArea(config.Directory)
	case "redis":
		return NewRedisArea(config.RedisAddress, config.RedisPassword, config.RedisDB)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}
}
