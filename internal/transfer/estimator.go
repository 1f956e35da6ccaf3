package transfer

// EstimateBandwidth sends objectSize bytes iterations times and returns the mean of the
// per-call throughput in bits per second. Callers must pass iterations > 0; zero yields NaN.
func (s *Simulator) EstimateBandwidth(iterations, objectSize int, target Bandwidth) (float64, error) {
	var total float64
	for i := 0; i < iterations; i++ {
		start := s.now()
		if err := s.Send(objectSize, target); err != nil {
			return 0, err
		}
		elapsed := s.now().Sub(start)
		total += float64(objectSize) * 8 / elapsed.Seconds()
	}
	return total / float64(iterations), nil
}
