// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	jujutesting "github.com/juju/testing"
)

// BaseSuite is the base for storaged test suites. It isolates tests
// from the host environment and resets loggers between tests.
type BaseSuite struct {
	jujutesting.IsolationSuite
}
