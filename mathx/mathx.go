package mathx

func ConvertScale(x, xMin, xMax, yMin, yMax float64) float64 {
	return yMin + (yMax-yMin)*(x-xMin)/(xMax-xMin)
}

// Clampはxを[lo, hi]に収める。lo > hiの場合はloを優先する。
func Clamp(x, lo, hi float64) float64 {
	if x > hi {
		x = hi
	}
	if x < lo {
		x = lo
	}
	return x
}
