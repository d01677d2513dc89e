// Package geo implementa el cálculo de distancia del check-in geocercado.
// Es la regla de negocio crítica del subsistema: un error de unidades o de
// precisión aquí deja pasar check-ins remotos o bloquea los legítimos.
package geo

import "math"

// EarthRadiusMeters radio medio de la Tierra. La fórmula de haversine y este
// valor son parte del contrato: no sustituir por el radio ecuatorial WGS84.
const EarthRadiusMeters = 6371000.0

// Distance devuelve la distancia de círculo máximo en metros entre dos
// coordenadas (grados decimales), fórmula de haversine.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// ValidCoordinate verifica los rangos geográficos: lat en [-90, 90] y lng en [-180, 180].
func ValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
