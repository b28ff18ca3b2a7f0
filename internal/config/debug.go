package config

import "os"

func IsDebug() bool {
	return os.Getenv("ASSESSOR_DEBUG") == "1"
}
