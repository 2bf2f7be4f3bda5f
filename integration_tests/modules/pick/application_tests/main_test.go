package pickintegrationtests

import (
	"os"
	"testing"

	"github.com/Black-And-White-Club/pickem-bot/integration_tests/testutils"
)

func TestMain(m *testing.M) {
	code := m.Run()
	testutils.ShutdownSharedEnv()
	os.Exit(code)
}
