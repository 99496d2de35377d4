package app

import "os"

// InTestMode reports whether the process runs under the integration
// test harness. Handlers relax a few protections (secure headers,
// cookie flags) when it is set.
func InTestMode() bool {
	return os.Getenv("SALESPULSE_TEST_MODE") == "1"
}
