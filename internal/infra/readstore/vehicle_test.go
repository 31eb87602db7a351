//go:build unit

package readstore

import (
	"strings"
	"testing"

	"easyrent/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildVehicleListQuery(t *testing.T) {
	agencyID := uuid.New()
	withDriver := true

	tests := []struct {
		name      string
		filter    queries.VehicleFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "catalog",
			filter:    queries.VehicleFilter{Limit: 20},
			wantWhere: "WHERE c.active = true ORDER BY c.created_at DESC, c.id DESC LIMIT $1",
			wantArgs:  []any{20},
		},
		{
			name:      "agency cars with a driver",
			filter:    queries.VehicleFilter{AgencyID: &agencyID, WithDriver: &withDriver, Limit: 5},
			wantWhere: "WHERE c.active = true AND c.agency_id = $1 AND c.driver_available = $2 ORDER BY c.created_at DESC, c.id DESC LIMIT $3",
			wantArgs:  []any{agencyID, true, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildVehicleListQuery(tt.filter)

			assert.True(t, strings.HasSuffix(sql, tt.wantWhere), sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
