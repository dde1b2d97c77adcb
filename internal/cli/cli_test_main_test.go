package cli_test

import (
	"testing"

	"slotting.dev/slotting/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.TestMain(m, nil)
}
