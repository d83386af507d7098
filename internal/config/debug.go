package config

import "os"

func IsDebug() bool {
	return os.Getenv("MIMIC_DEBUG") == "1"
}
