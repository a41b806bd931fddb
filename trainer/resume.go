package trainer

import (
	"os"

	"github.com/neurlang/nli/logger"
	"github.com/neurlang/nli/persist"
)

// Resume loads weights of the given kind from path into model when the file
// exists. It reports whether weights were loaded.
func Resume(model interface{}, kind, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	h, err := persist.ReadFile(path, kind, model)
	if err != nil {
		return false, err
	}
	logger.Logger.Infow("resumed weights", logger.FieldFile, path, logger.FieldRunID, h.RunID)
	return true, nil
}
