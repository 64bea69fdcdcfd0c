package observability

func (s *series) get(values ...string) float64 {
	lbl := labelString(s.labelNames, values)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[lbl]
}

func (c *CounterVec) Value(values ...string) float64 { return c.s.get(values...) }

func (c *Counter) Value() float64 { return c.s.get() }

func (g *Gauge) Value() float64 { return g.s.get() }

func (h *HistogramVec) Count(values ...string) uint64 {
	lbl := labelString(h.labelNames, values)
	h.mu.Lock()
	defer h.mu.Unlock()
	if hist, ok := h.values[lbl]; ok {
		return hist.counts[len(h.buckets)]
	}
	return 0
}
