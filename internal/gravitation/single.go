package gravitation

// ForceSquared32 is ForceSquared in single precision.
func ForceSquared32(massA, massB, distanceSquared float32) float32 {
	return G32 * massA * massB / distanceSquared
}

// Force32 is Force in single precision.
func Force32(massA, massB, distance float32) float32 {
	return ForceSquared32(massA, massB, distance*distance)
}

// Acceleration32 is Acceleration in single precision.
func Acceleration32(sourceMass, distanceSquared float32) float32 {
	return G32 * sourceMass / distanceSquared
}
