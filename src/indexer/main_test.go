package indexer

import (
	"os"
	"testing"

	"github.com/username/algotax/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}
