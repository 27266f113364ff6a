package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utxolab/blockchain/foundation/logger"
)

func Test_New(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	log, err := logger.New("TEST", path)
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %v", err)
	}

	log.Infow("startup", "status", "testing")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log output: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, `"service":"TEST"`) || !strings.Contains(out, `"status":"testing"`) {
		t.Fatalf("Should write structured fields: %s", out)
	}
}
