package bikeshare

import "math"

// earthRadiusMeters is the mean earth radius used by the planar distance approximation
const earthRadiusMeters = 6371000

//Distance calculates the approximate distance in METERS between two coordinates using a
//spherical earth projected to a plane (equirectangular approximation).
//provides adequately accurate results for coordinates that are close together (in the same city)
//will not produce good results for locations where longitude rolls over from -179.9 to 179.9
//or near the poles.
//symmetric by construction, Distance of a point to itself is zero
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := radLat2 - radLat1
	deltaLon := (lon2 - lon1) * math.Pi / 180
	meanLat := (radLat1 + radLat2) / 2

	lonComponent := math.Cos(meanLat) * deltaLon
	return earthRadiusMeters * math.Sqrt(deltaLat*deltaLat+lonComponent*lonComponent)
}
