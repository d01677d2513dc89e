package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/jhoicas/ServiCampo-api/internal/domain/geo"
)

// ──────────────────────────────────────────────────────────────────────────────
// Estos tests son el "canario en la mina" de la geocerca: si alguien cambia la
// fórmula, el radio terrestre o las unidades, el umbral de 50 m del check-in
// deja de significar 50 metros y los tests fallan de inmediato.
//
// Vectores construidos sobre el radio medio 6 371 000 m:
//   1 grado de latitud  = 6371000 · π/180 = 111 194.93 m
//   0.01 grados         = 1 111.95 m
//   50 m en latitud     = 0.000449661 grados
// ──────────────────────────────────────────────────────────────────────────────

// Coordenadas de referencia (Bogotá).
const (
	baseLat = 4.6486
	baseLng = -74.0628
)

func TestDistance_MismoPuntoEsCero(t *testing.T) {
	d := geo.Distance(baseLat, baseLng, baseLat, baseLng)
	assert.InDelta(t, 0, d, 0.001, "la distancia al mismo punto debe ser ~0 m")
}

func TestDistance_UnKilometroAlNorte(t *testing.T) {
	// 1000 m de desplazamiento puro en latitud: Δlat = 1000/6371000 rad.
	const deltaLat = 0.008993216059 // grados
	d := geo.Distance(baseLat, baseLng, baseLat+deltaLat, baseLng)
	assert.InDelta(t, 1000, d, 1, "1 km al norte debe medir ~1000 m")
}

func TestDistance_CentesimaDeGradoLatitud(t *testing.T) {
	d := geo.Distance(baseLat, baseLng, baseLat+0.01, baseLng)
	assert.InDelta(t, 1111.95, d, 0.5)
}

func TestDistance_LongitudSeContraePorLatitud(t *testing.T) {
	// En longitud la distancia se contrae por cos(lat): a 4.65° el factor es ~0.9967.
	d := geo.Distance(baseLat, baseLng, baseLat, baseLng+0.01)
	assert.InDelta(t, 1108.3, d, 1.5)
}

func TestDistance_BordeDelRadioDeCheckIn(t *testing.T) {
	// 0.000449661° de latitud son exactamente 50 m sobre el radio medio.
	const deltaLat50m = 0.000449661
	dentro := geo.Distance(baseLat, baseLng, baseLat+deltaLat50m*0.98, baseLng)
	fuera := geo.Distance(baseLat, baseLng, baseLat+deltaLat50m*1.05, baseLng)
	assert.Less(t, dentro, 50.0, "98%% del umbral debe quedar dentro de 50 m")
	assert.Greater(t, fuera, 50.0, "105%% del umbral debe quedar fuera de 50 m")
}

func TestDistance_EsSimetrica(t *testing.T) {
	d1 := geo.Distance(baseLat, baseLng, baseLat+0.02, baseLng-0.03)
	d2 := geo.Distance(baseLat+0.02, baseLng-0.03, baseLat, baseLng)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestValidCoordinate(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng float64
		ok       bool
	}{
		{"bogotá", 4.6486, -74.0628, true},
		{"límite norte", 90, 0, true},
		{"límite antimeridiano", 0, -180, true},
		{"latitud fuera de rango", 90.1, 0, false},
		{"longitud fuera de rango", 0, 180.5, false},
		{"ambas fuera", -95, 200, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, geo.ValidCoordinate(tc.lat, tc.lng))
		})
	}
}
