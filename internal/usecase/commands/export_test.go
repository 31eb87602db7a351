//go:build unit

package commands

var (
	CalculateRequestHash          = calculateRequestHash
	IdempotencyScopeCreateBooking = idempotencyScopeCreateBooking
)
