package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/ServiCampo-api/internal/domain/schedule"
)

func TestDeriveDurationMinutes(t *testing.T) {
	base := time.Date(2025, 4, 6, 8, 0, 0, 0, time.UTC)
	end := func(d time.Duration) *time.Time { e := base.Add(d); return &e }

	cases := []struct {
		name string
		end  *time.Time
		want *int
	}{
		{"registro abierto (sin end)", nil, nil},
		{"hora y media exacta", end(90 * time.Minute), intp(90)},
		{"29 segundos redondea hacia abajo", end(10*time.Minute + 29*time.Second), intp(10)},
		{"30 segundos redondea hacia arriba", end(10*time.Minute + 30*time.Second), intp(11)},
		{"mismo instante", end(0), intp(0)},
		{"end antes de start se acota a cero", end(-15 * time.Minute), intp(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := schedule.DeriveDurationMinutes(base, tc.end)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func intp(v int) *int { return &v }
