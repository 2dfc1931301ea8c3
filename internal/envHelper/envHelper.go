package envHelper

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnv loads .env style files into the process environment without
// overriding variables that are already set. A missing file is not fatal.
func LoadEnv(logger *zap.Logger, files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		err := godotenv.Load(file)
		if err == nil {
			logger.Debug("loaded env file", zap.String("file", file))
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("env file not found", zap.String("file", file))
			continue
		}
		// Not fatal, just log the error and continue
		logger.Warn("couldn't load env file", zap.String("file", file), zap.Error(err))
	}
}
