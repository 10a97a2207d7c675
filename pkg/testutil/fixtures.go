package testutil

import (
	"time"

	"github.com/google/uuid"
)

// Fixed values for deterministic testing
var (
	TestAnalysisID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	TestCompanyID  = "ACME-LTD"
	TestFiscalYear = 2024
	TestDetectedAt = time.Date(2019, time.September, 1, 0, 0, 0, 0, time.UTC)
)
