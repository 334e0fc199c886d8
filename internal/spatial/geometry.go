package spatial

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Centroid calculates the geographic centroid of a set of points
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}

	var sumLat, sumLon float64
	for _, p := range points {
		sumLat += p.Lat
		sumLon += p.Lon
	}

	return Point{
		Lat: sumLat / float64(len(points)),
		Lon: sumLon / float64(len(points)),
	}
}

// WithinRadius reports whether p lies within radiusMeters of center
func WithinRadius(p, center Point, radiusMeters float64) bool {
	return HaversineDistance(p.Lat, p.Lon, center.Lat, center.Lon) <= radiusMeters
}
